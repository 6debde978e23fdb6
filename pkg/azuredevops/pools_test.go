package azuredevops_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/testutil"
)

const poolsURL = "https://test-tenant.visualstudio.com/_apis/distributedtask/pools"

const agentJSON = `{
	"id": 8,
	"name": "agent-8",
	"version": "3.232.0",
	"enabled": true,
	"status": "online",
	"maxParallelism": 1,
	"systemCapabilities": {"Agent.OS": "Linux"},
	"assignedRequest": {"requestId": 77, "matchedAgents": [{"id": 8, "name": "agent-8"}], "reservedAgent": {"id": 8, "name": "agent-8"}}
}`

func TestGetPools(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, poolsURL+"?actionFilter=manage&api-version=5.1&poolName=Linux",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"id": 9, "name": "Linux", "size": 4, "isHosted": false}]}`))

	pools, err := client.Pools.GetPools(context.Background(), azuredevops.GetPoolsOptions{PoolName: "Linux", ActionFilter: azuredevops.PoolActionManage})
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, 9, pools[0].ID)
	assert.Equal(t, 4, pools[0].Size)
}

func TestGetAgents(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet,
		poolsURL+"/9/agents?api-version=5.1&includeAssignedRequest=true&includeCapabilities=true&includeLastCompletedRequest=true",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [`+agentJSON+`]}`))

	agents, err := client.Pools.GetAgents(context.Background(), 9, azuredevops.DefaultGetAgentsOptions)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "agent-8", agents[0].Name)
	assert.Equal(t, "Linux", agents[0].SystemCapabilities["Agent.OS"])
	require.NotNil(t, agents[0].AssignedRequest)
	assert.True(t, agents[0].AssignedRequest.IsQueuedOrRunning())
	assert.False(t, agents[0].AssignedRequest.IsQueued())
}

func TestSetAgentState(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	agentURL := poolsURL + "/9/agents/8?api-version=5.1"
	transport.RegisterResponder(http.MethodGet, agentURL, httpmock.NewStringResponder(http.StatusOK, agentJSON))

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPatch, agentURL, func(req *http.Request) (*http.Response, error) {
		body = jsonBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"id": 8, "name": "agent-8", "enabled": false}`), nil
	})

	agent, err := client.Pools.SetAgentState(context.Background(), 9, 8, false)
	require.NoError(t, err)
	assert.False(t, agent.Enabled)

	assert.Equal(t, float64(8), body["id"])
	assert.Equal(t, "agent-8", body["name"])
	assert.Equal(t, false, body["enabled"])
	assert.Equal(t, "3.232.0", body["version"])
	assert.NotContains(t, body, "assignedRequest")
	assert.NotContains(t, body, "systemCapabilities")
}

func TestUpdateAgentCapabilities(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPut, poolsURL+"/9/agents/8/usercapabilities?api-version=5.1", func(req *http.Request) (*http.Response, error) {
		body = jsonBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"id": 8, "userCapabilities": {"gpu": "true"}}`), nil
	})

	agent, err := client.Pools.UpdateAgentCapabilities(context.Background(), 9, 8, map[string]string{"gpu": "true"})
	require.NoError(t, err)
	assert.Equal(t, "true", agent.UserCapabilities["gpu"])
	assert.Equal(t, map[string]interface{}{"gpu": "true"}, body)
}

func TestListJobRequests(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, poolsURL+"/9/jobrequests?api-version=5.1",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 3, "value": [
			{"requestId": 1, "result": "succeeded", "matchedAgents": [{"id": 8}]},
			{"requestId": 2, "matchedAgents": [{"id": 8}]},
			{"requestId": 3, "matchedAgents": [{"id": 8}], "reservedAgent": {"id": 8}}
		]}`))

	jobs, err := client.Pools.ListJobRequests(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.False(t, jobs[0].IsQueuedOrRunning())
	assert.True(t, jobs[1].IsQueued())
	assert.True(t, jobs[2].IsQueuedOrRunning())
	assert.False(t, jobs[2].IsQueued())
}

func TestPoolsAsync(t *testing.T) {
	pools := azuredevops.NewPoolsAsync(testutil.MockPools{NumPools: 3, NumFreeAgents: 2, NumBusyAgents: 1, NumQueuedJobs: 2})
	ctx := context.Background()

	poolsResult := pools.Pools(ctx, azuredevops.GetPoolsOptions{})
	agentsResult := pools.Agents(ctx, 1, azuredevops.DefaultGetAgentsOptions)
	agentResult := pools.Agent(ctx, 1, 1)
	jobsResult := pools.JobRequests(ctx, 1)

	poolsResponse := <-poolsResult
	require.NoError(t, poolsResponse.Err)
	assert.Len(t, poolsResponse.Value, 3)

	agentsResponse := <-agentsResult
	require.NoError(t, agentsResponse.Err)
	assert.Len(t, agentsResponse.Value, 3)

	agentResponse := <-agentResult
	require.NoError(t, agentResponse.Err)
	require.NotNil(t, agentResponse.Value)

	jobsResponse := <-jobsResult
	require.NoError(t, jobsResponse.Err)
	assert.NotEmpty(t, jobsResponse.Value)
}

func TestPoolsAsyncErrors(t *testing.T) {
	pools := azuredevops.NewPoolsAsync(testutil.MockPools{ErrorPools: true, ErrorAgents: true, ErrorJobs: true})
	ctx := context.Background()

	assert.ErrorIs(t, (<-pools.Pools(ctx, azuredevops.GetPoolsOptions{})).Err, testutil.ErrMock)
	assert.ErrorIs(t, (<-pools.Agents(ctx, 1, azuredevops.DefaultGetAgentsOptions)).Err, testutil.ErrMock)
	assert.ErrorIs(t, (<-pools.JobRequests(ctx, 1)).Err, testutil.ErrMock)
}
