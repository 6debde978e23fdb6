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

var pipelinesURL = testutil.APIURL(testutil.MockProjectID) + "/pipelines"

func TestListPipelines(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	baseURL := pipelinesURL + "?%24top=2&api-version=7.1-preview.1&orderBy=name+asc"
	transport.RegisterResponder(http.MethodGet, baseURL, httpmock.NewStringResponder(http.StatusOK,
		`{"value": [{"id": 1, "name": "a"}, {"id": 2, "name": "b"}], "hasMore": true, "continuationToken": "next page"}`))
	transport.RegisterResponder(http.MethodGet, baseURL+"&continuationToken=next+page", httpmock.NewStringResponder(http.StatusOK,
		`{"value": [{"id": 3, "name": "c"}], "hasMore": false}`))

	pipelines, err := client.Pipelines.ListPipelines(context.Background(), azuredevops.ListPipelinesOptions{
		ProjectID: testutil.MockProjectID,
		Top:       2,
		OrderBy:   "name asc",
	})
	require.NoError(t, err)
	require.Len(t, pipelines, 3)
	assert.Equal(t, "c", pipelines[2].Name)
}

func TestGetPipeline(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, pipelinesURL+"/7?api-version=7.1-preview.1",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 7, "name": "CI", "revision": 3}`))
	transport.RegisterResponder(http.MethodGet, pipelinesURL+"/7?api-version=7.1-preview.1&pipelineVersion=2",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 7, "name": "CI", "revision": 2}`))

	pipeline, err := client.Pipelines.GetPipeline(context.Background(), testutil.MockProjectID, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, pipeline.Revision)

	pipeline, err = client.Pipelines.GetPipeline(context.Background(), testutil.MockProjectID, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pipeline.Revision)
}

func TestPreviewPipeline(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPost, pipelinesURL+"/7/preview?api-version=7.1-preview.1&pipelineVersion=4",
		func(req *http.Request) (*http.Response, error) {
			body = jsonBody(t, req)
			return httpmock.NewStringResponse(http.StatusOK, `{"finalYaml": "steps:\n- script: make"}`), nil
		})

	yaml, err := client.Pipelines.Preview(context.Background(), testutil.MockProjectID, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, "steps:\n- script: make", yaml)
	assert.Equal(t, map[string]interface{}{"previewRun": true}, body)
}

func TestPipelineRuns(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, pipelinesURL+"/7/runs?api-version=6.0-preview.1",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 2, "value": [{"id": 100, "state": "completed", "result": "succeeded"}, {"id": 101, "state": "inProgress"}]}`))
	transport.RegisterResponder(http.MethodGet, pipelinesURL+"/7/runs/100?api-version=6.0-preview.1",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 100, "state": "completed", "pipeline": {"id": 7, "name": "CI"}}`))

	runs, err := client.Pipelines.ListRuns(context.Background(), testutil.MockProjectID, 7)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "inProgress", runs[1].State)

	run, err := client.Pipelines.GetRun(context.Background(), testutil.MockProjectID, 7, 100)
	require.NoError(t, err)
	assert.Equal(t, "CI", run.Pipeline.Name)
}
