package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	mocks "github.com/ogmaresca/simple-ado/pkg/testutil"
)

const agentPoolID = 2

func TestPollRecommendation(t *testing.T) {
	for numBusy := 0; numBusy < 8; numBusy++ {
		for numQueued := 0; numQueued < 8; numQueued++ {
			for numFree := 0; numFree < 10; numFree += 3 {
				for minimum := 1; minimum < 13; minimum += 4 {
					for maximum := minimum + 1; maximum < minimum+20; maximum += 5 {
						name := fmt.Sprintf("%d busy & %d queued jobs, %d free agents, min %d, max %d", numBusy, numQueued, numFree, minimum, maximum)
						t.Run(name, func(t *testing.T) {
							pools := mocks.MockPools{
								NumPools:      5,
								NumBusyAgents: numBusy,
								NumFreeAgents: numFree,
								NumQueuedJobs: numQueued,
								NumOffline:    1,
							}
							m := New(pools, Settings{PoolID: agentPoolID, Min: minimum, Max: maximum, Rate: time.Second}, nil)

							snapshot, err := m.Poll(context.Background())
							require.NoError(t, err)

							assert.Equal(t, numBusy+numFree, snapshot.OnlineAgents)
							assert.Equal(t, numBusy, snapshot.BusyAgents)
							assert.Equal(t, numQueued, snapshot.QueuedJobs)
							assert.Equal(t, max(numBusy, min(numBusy+numQueued+minimum, maximum)), snapshot.Recommended)
						})
					}
				}
			}
		}
	}
}

func TestPollFreeAgentsFirst(t *testing.T) {
	pools := mocks.MockPools{NumBusyAgents: 2, NumFreeAgents: 3, NumQueuedJobs: 1, FreeAgentsFirst: true}
	m := New(pools, Settings{PoolID: agentPoolID, Min: 1, Max: 10}, nil)

	snapshot, err := m.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Snapshot{OnlineAgents: 5, BusyAgents: 2, QueuedJobs: 1, Recommended: 4}, snapshot)
	assert.Equal(t, float64(4), testutil.ToFloat64(recommendedAgentsGauge.WithLabelValues("2")))
}

func TestPollErrors(t *testing.T) {
	for _, pools := range []mocks.MockPools{{ErrorAgents: true}, {ErrorJobs: true}} {
		m := New(pools, Settings{PoolID: 7, Min: 1, Max: 2}, nil)
		before := testutil.ToFloat64(pollErrorCounter.WithLabelValues("7"))

		_, err := m.Poll(context.Background())
		assert.ErrorIs(t, err, mocks.ErrMock)
		assert.Equal(t, before+1, testutil.ToFloat64(pollErrorCounter.WithLabelValues("7")))
	}
}

func TestQueuedJobsOnlyCountBusyMatchedAgents(t *testing.T) {
	agents := mocks.Agents(2, true, 0)
	_, busy := getBusyAgentNames(agents)
	other := azuredevops.Agent{Definition: azuredevops.Definition{ID: 99, Name: "elsewhere"}}

	jobs := []azuredevops.JobRequest{
		{MatchedAgents: []azuredevops.Agent{agents[0].Agent}},
		{MatchedAgents: []azuredevops.Agent{other}},
		{MatchedAgents: []azuredevops.Agent{other}, MatchesAllAgentsInPool: true},
		{MatchedAgents: []azuredevops.Agent{agents[1].Agent}, Result: azuredevops.JobResultSucceeded},
		{MatchedAgents: []azuredevops.Agent{agents[1].Agent}, ReservedAgent: &agents[1].Agent},
	}

	assert.Equal(t, 2, getNumQueuedJobs(jobs, busy))
}

func TestResolvePoolID(t *testing.T) {
	id, err := ResolvePoolID(context.Background(), mocks.MockPools{NumPools: 3}, "pool-2")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	_, err = ResolvePoolID(context.Background(), mocks.MockPools{NumPools: 3}, "missing")
	assert.ErrorIs(t, err, ErrPoolNotFound)

	_, err = ResolvePoolID(context.Background(), mocks.MockPools{ErrorPools: true}, "pool-1")
	assert.ErrorIs(t, err, mocks.ErrMock)
}

func TestRunStopsWithContext(t *testing.T) {
	m := New(mocks.MockPools{NumBusyAgents: 1}, Settings{PoolID: agentPoolID, Min: 0, Max: 5, Rate: time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	reports := 0
	m.Run(ctx, func(snapshot Snapshot) {
		reports++
		if reports == 3 {
			cancel()
		}
	})
	assert.Equal(t, 3, reports)
}
