package monitor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/collections"
	"github.com/ogmaresca/simple-ado/pkg/logging"
)

var (
	// ErrPoolNotFound is returned when no agent pool has the requested name
	ErrPoolNotFound = errors.New("agent pool not found")

	onlineAgentsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simple_ado_pool_online_agents",
		Help: "The number of online agents in the pool",
	}, []string{"pool"})
	busyAgentsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simple_ado_pool_busy_agents",
		Help: "The number of online agents running a job",
	}, []string{"pool"})
	queuedJobsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simple_ado_pool_queued_jobs",
		Help: "The number of jobs waiting for an agent",
	}, []string{"pool"})
	recommendedAgentsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simple_ado_pool_recommended_agents",
		Help: "The number of agents needed to run every job plus the idle minimum",
	}, []string{"pool"})
	pollErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simple_ado_pool_poll_errors_total",
		Help: "The total number of failed pool polls",
	}, []string{"pool"})
)

// Settings configure a Monitor
type Settings struct {
	PoolID int
	// Min is the number of idle agents to keep
	Min int
	// Max caps the recommendation
	Max int
	// Rate is how often the pool is polled
	Rate time.Duration
}

// Snapshot is the state of a pool at one poll
type Snapshot struct {
	OnlineAgents int
	BusyAgents   int
	QueuedJobs   int
	// Recommended is max(busy, min(busy + queued + min, max))
	Recommended int
}

// Monitor polls an agent pool and reports how many agents it needs
type Monitor struct {
	pools    azuredevops.PoolsAsync
	settings Settings
	label    string
	log      *log.Entry
}

// New returns a monitor of the pool in settings
func New(pools azuredevops.PoolsAPI, settings Settings, parent *log.Entry) *Monitor {
	return &Monitor{
		pools:    azuredevops.NewPoolsAsync(pools),
		settings: settings,
		label:    strconv.Itoa(settings.PoolID),
		log:      logging.Child(logging.Root(parent), "monitor"),
	}
}

// ResolvePoolID returns the ID of the agent pool with the given name
func ResolvePoolID(ctx context.Context, pools azuredevops.PoolsAPI, name string) (int, error) {
	found, err := pools.GetPools(ctx, azuredevops.GetPoolsOptions{PoolName: name})
	if err != nil {
		return 0, err
	}
	for _, pool := range found {
		if strings.EqualFold(pool.Name, name) {
			return pool.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrPoolNotFound, name)
}

// Poll fetches the agents and job requests of the pool concurrently and updates the gauges
func (m *Monitor) Poll(ctx context.Context) (Snapshot, error) {
	agentsResult := m.pools.Agents(ctx, m.settings.PoolID, azuredevops.DefaultGetAgentsOptions)
	jobsResult := m.pools.JobRequests(ctx, m.settings.PoolID)

	agents := <-agentsResult
	jobs := <-jobsResult
	if agents.Err != nil {
		pollErrorCounter.WithLabelValues(m.label).Inc()
		return Snapshot{}, agents.Err
	}
	if jobs.Err != nil {
		pollErrorCounter.WithLabelValues(m.label).Inc()
		return Snapshot{}, jobs.Err
	}

	onlineAgents, busyAgentNames := getBusyAgentNames(agents.Value)
	snapshot := Snapshot{
		OnlineAgents: onlineAgents,
		BusyAgents:   len(busyAgentNames),
		QueuedJobs:   getNumQueuedJobs(jobs.Value, busyAgentNames),
	}
	snapshot.Recommended = max(snapshot.BusyAgents, min(snapshot.BusyAgents+snapshot.QueuedJobs+m.settings.Min, m.settings.Max))

	onlineAgentsGauge.WithLabelValues(m.label).Set(float64(snapshot.OnlineAgents))
	busyAgentsGauge.WithLabelValues(m.label).Set(float64(snapshot.BusyAgents))
	queuedJobsGauge.WithLabelValues(m.label).Set(float64(snapshot.QueuedJobs))
	recommendedAgentsGauge.WithLabelValues(m.label).Set(float64(snapshot.Recommended))

	m.log.Debugf("Found %d busy agents out of %d online agents. There are %d queued jobs.", snapshot.BusyAgents, snapshot.OnlineAgents, snapshot.QueuedJobs)

	return snapshot, nil
}

// Run polls the pool at the configured rate until ctx is done. Poll errors are logged and do not stop the loop.
func (m *Monitor) Run(ctx context.Context, report func(Snapshot)) {
	ticker := time.NewTicker(m.settings.Rate)
	defer ticker.Stop()

	for {
		snapshot, err := m.Poll(ctx)
		if err != nil {
			m.log.Errorf("Error polling agent pool %d: %s", m.settings.PoolID, err.Error())
		} else if report != nil {
			report(snapshot)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func getBusyAgentNames(agents []azuredevops.AgentDetails) (int, collections.Set[string]) {
	online := 0
	busyAgentNames := collections.NewSet[string]()
	for _, agent := range agents {
		if strings.EqualFold(agent.Status, string(azuredevops.AgentStatusOnline)) {
			online++
			if agent.AssignedRequest != nil {
				busyAgentNames.Add(agent.Name)
			}
		}
	}
	return online, busyAgentNames
}

func getNumQueuedJobs(jobs []azuredevops.JobRequest, busyAgentNames collections.Set[string]) int {
	numQueuedJobs := 0
	for _, job := range jobs {
		if !job.IsQueued() {
			continue
		}
		if job.MatchesAllAgentsInPool {
			numQueuedJobs++
			continue
		}
		for _, agent := range job.MatchedAgents {
			if busyAgentNames.Contains(agent.Name) {
				numQueuedJobs++
				break
			}
		}
	}
	return numQueuedJobs
}
