package testutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
)

// ErrMock is returned by MockPools when an error is requested
var ErrMock = errors.New("mock Azure Devops client error")

// Pools creates mock PoolDetails objects
func Pools(num int, startPos int) []azuredevops.PoolDetails {
	var pools []azuredevops.PoolDetails
	for i := startPos; i < startPos+num; i++ {
		pools = append(pools, azuredevops.PoolDetails{
			Definition: azuredevops.Definition{
				ID:   i,
				Name: fmt.Sprintf("pool-%d", i),
			},
			IsHosted: false,
		})
	}
	return pools
}

// Agents creates mock AgentDetails objects. Busy agents have an assigned request.
func Agents(num int, busy bool, startPos int) []azuredevops.AgentDetails {
	var agents []azuredevops.AgentDetails
	for i := startPos; i < startPos+num; i++ {
		agent := azuredevops.AgentDetails{
			Agent: azuredevops.Agent{
				Definition: azuredevops.Definition{
					ID:   i,
					Name: fmt.Sprintf("agent-%d", i),
				},
				Enabled: true,
				Status:  string(azuredevops.AgentStatusOnline),
			},
			SystemCapabilities: map[string]string{
				"Agent.ComputerName": fmt.Sprintf("azp-agent-%d", i),
			},
		}
		if busy {
			agent.AssignedRequest = &Jobs(1, false, []azuredevops.AgentDetails{agent}, i, 0)[0]
		}
		agents = append(agents, agent)
	}
	return agents
}

// Jobs creates mock JobRequest objects that match every agent. Running jobs are reserved by
// agents[runningAgentPos].
func Jobs(num int, queued bool, agents []azuredevops.AgentDetails, startPos int, runningAgentPos int) []azuredevops.JobRequest {
	var jobs []azuredevops.JobRequest
	baseAgents := []azuredevops.Agent{}
	for _, agent := range agents {
		baseAgents = append(baseAgents, agent.Agent)
	}
	for i := startPos; i < startPos+num; i++ {
		job := azuredevops.JobRequest{
			RequestID:              i,
			JobID:                  fmt.Sprintf("job-%d-queued=%t", i, queued),
			MatchesAllAgentsInPool: true,
			MatchedAgents:          baseAgents,
		}
		if !queued {
			job.ReservedAgent = &baseAgents[runningAgentPos]
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// MockPools is an in-memory azuredevops.PoolsAPI
type MockPools struct {
	NumPools        int
	NumFreeAgents   int
	NumBusyAgents   int
	NumQueuedJobs   int
	NumOffline      int
	ErrorPools      bool
	ErrorAgents     bool
	ErrorJobs       bool
	FreeAgentsFirst bool
}

var _ azuredevops.PoolsAPI = MockPools{}

// GetPools returns NumPools pools, filtered by name
func (c MockPools) GetPools(ctx context.Context, opts azuredevops.GetPoolsOptions) ([]azuredevops.PoolDetails, error) {
	if c.ErrorPools {
		return nil, ErrMock
	}
	pools := Pools(c.NumPools, 0)
	if opts.PoolName == "" {
		return pools, nil
	}
	for _, pool := range pools {
		if pool.Name == opts.PoolName {
			return []azuredevops.PoolDetails{pool}, nil
		}
	}
	return []azuredevops.PoolDetails{}, nil
}

// GetAgents returns the busy, free, and offline agents
func (c MockPools) GetAgents(ctx context.Context, poolID int, opts azuredevops.GetAgentsOptions) ([]azuredevops.AgentDetails, error) {
	if c.ErrorAgents {
		return nil, ErrMock
	}
	return c.agents(), nil
}

// GetAgent returns one of the agents of GetAgents
func (c MockPools) GetAgent(ctx context.Context, poolID int, agentID int) (*azuredevops.AgentDetails, error) {
	if c.ErrorAgents {
		return nil, ErrMock
	}
	for _, agent := range c.agents() {
		if agent.ID == agentID {
			return &agent, nil
		}
	}
	return nil, fmt.Errorf("agent %d: %w", agentID, ErrMock)
}

// ListJobRequests returns a running job per busy agent followed by the queued jobs
func (c MockPools) ListJobRequests(ctx context.Context, poolID int) ([]azuredevops.JobRequest, error) {
	if c.ErrorJobs {
		return nil, ErrMock
	}
	agents := c.agents()
	runningAgentPos := 0
	if c.FreeAgentsFirst {
		runningAgentPos = c.NumFreeAgents
	}
	var jobs []azuredevops.JobRequest
	for i := 0; i < c.NumBusyAgents; i++ {
		jobs = append(jobs, Jobs(1, false, agents, i, runningAgentPos+i)...)
	}
	jobs = append(jobs, Jobs(c.NumQueuedJobs, true, agents, len(agents), 0)...)
	return jobs, nil
}

func (c MockPools) agents() []azuredevops.AgentDetails {
	agents := []azuredevops.AgentDetails{}
	if c.FreeAgentsFirst {
		agents = append(agents, Agents(c.NumFreeAgents, false, 0)...)
		agents = append(agents, Agents(c.NumBusyAgents, true, len(agents))...)
	} else {
		agents = append(agents, Agents(c.NumBusyAgents, true, 0)...)
		agents = append(agents, Agents(c.NumFreeAgents, false, len(agents))...)
	}
	offline := Agents(c.NumOffline, false, len(agents))
	for i := range offline {
		offline[i].Status = string(azuredevops.AgentStatusOffline)
	}
	return append(agents, offline...)
}
