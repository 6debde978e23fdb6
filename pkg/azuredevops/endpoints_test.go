package azuredevops_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/testutil"
)

var serviceEndpointURL = testutil.APIURL(testutil.MockProjectID) + "/serviceendpoint"

func TestGetEndpoints(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, serviceEndpointURL+"/endpoints?api-version=6.0-preview.4&type=azurerm",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"id": "ep1", "name": "prod", "type": "azurerm", "isReady": true, "data": {"subscriptionId": "sub"}}]}`))

	endpoints, err := client.Endpoints.GetEndpoints(context.Background(), testutil.MockProjectID, "azurerm")
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.True(t, endpoints[0].IsReady)
	assert.Equal(t, "sub", endpoints[0].Data["subscriptionId"])
}

func registerUsageHistory(transport *httpmock.MockTransport, top string) {
	historyURL := serviceEndpointURL + "/ep1/executionhistory?api-version=6.0-preview.1&top=" + top
	transport.RegisterResponder(http.MethodGet, historyURL, func(req *http.Request) (*http.Response, error) {
		response := httpmock.NewStringResponse(http.StatusOK,
			`{"count": 2, "value": [{"endpointId": "ep1", "data": {"id": 1}}, {"endpointId": "ep1", "data": {"id": 2}}]}`)
		response.Header.Set("X-MS-ContinuationToken", "page2")
		return response, nil
	})
	transport.RegisterResponder(http.MethodGet, historyURL+"&continuationToken=page2", httpmock.NewStringResponder(http.StatusOK,
		`{"count": 2, "value": [{"endpointId": "ep1", "data": {"id": 3}}, {"endpointId": "ep1", "data": {"id": 4}}]}`))
}

func TestGetUsageHistoryLimited(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	registerUsageHistory(transport, "3")

	usages, err := client.Endpoints.GetUsageHistory(context.Background(), testutil.MockProjectID, "ep1", 3)
	require.NoError(t, err)
	require.Len(t, usages, 3)
	assert.Equal(t, 3, usages[2].Data.ID)
}

func TestGetUsageHistoryAll(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	registerUsageHistory(transport, "50")

	usages, err := client.Endpoints.GetUsageHistory(context.Background(), testutil.MockProjectID, "ep1", 0)
	require.NoError(t, err)
	assert.Len(t, usages, 4)
	assert.Equal(t, 2, transport.GetTotalCallCount())
}
