package azuredevops_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/testutil"
)

var workItemsURL = testutil.APIURL(testutil.MockProjectID) + "/wit/workitems"

const updateQuery = "?bypassRules=false&suppressNotifications=false&api-version=4.1"

// patchBody decodes a JSON patch document
func patchBody(t *testing.T, req *http.Request) []map[string]interface{} {
	t.Helper()

	var operations []map[string]interface{}
	require.NoError(t, json.NewDecoder(req.Body).Decode(&operations))
	return operations
}

func TestGetWorkItem(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, workItemsURL+"/1234?api-version=4.1&$expand=all",
		testutil.FixtureResponder(t, http.StatusOK, "work_item.json"))

	var expected azuredevops.WorkItem
	testutil.LoadJSONFixture(t, "work_item.json", &expected)

	workItem, err := client.WorkItems.Get(context.Background(), testutil.MockProjectID, 1234)
	require.NoError(t, err)
	assert.Equal(t, &expected, workItem)
	assert.Equal(t, "Fix the widget", workItem.Fields[string(azuredevops.FieldTitle)])
	require.Len(t, workItem.Relations, 1)
	assert.Equal(t, azuredevops.RelationParent, workItem.Relations[0].Rel)
}

func TestListWorkItems(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, workItemsURL+"?api-version=4.1&ids=1,2&$expand=all",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 2, "value": [{"id": 1, "fields": {}}, {"id": 2, "fields": {}}]}`))

	workItems, err := client.WorkItems.List(context.Background(), testutil.MockProjectID, []int{1, 2})
	require.NoError(t, err)
	assert.Len(t, workItems, 2)
}

func TestGetWorkItemTypes(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, testutil.APIURL(testutil.MockProjectID)+"/wit/workitemtypes?api-version=4.1",
		httpmock.NewStringResponder(http.StatusOK, `{"value": [{"name": "Bug", "referenceName": "Microsoft.VSTS.WorkItemTypes.Bug"}]}`))

	types, err := client.WorkItems.GetWorkItemTypes(context.Background(), testutil.MockProjectID)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Bug", types[0].Name)
}

func TestCreateWorkItem(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var operations []map[string]interface{}
	transport.RegisterResponder(http.MethodPost, workItemsURL+"/$Bug?bypassRules=true&suppressNotifications=true&api-version=4.1",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json-patch+json", req.Header.Get("Content-Type"))
			operations = patchBody(t, req)
			return testutil.FixtureResponder(t, http.StatusOK, "work_item.json")(req)
		})

	workItem, err := client.WorkItems.Create(context.Background(), testutil.MockProjectID, "Bug",
		[]azuredevops.PatchOperation{azuredevops.AddOperation("/fields/System.Title", "Fix the widget")},
		azuredevops.WorkItemUpdateOptions{BypassRules: true, SuppressNotification: true})
	require.NoError(t, err)
	assert.Equal(t, 1234, workItem.ID)
	assert.Equal(t, []map[string]interface{}{
		{"op": "add", "path": "/fields/System.Title", "value": "Fix the widget", "from": nil},
	}, operations)
}

func TestLinkTickets(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var operations []map[string]interface{}
	transport.RegisterResponder(http.MethodPatch, workItemsURL+"/1000"+updateQuery, func(req *http.Request) (*http.Response, error) {
		operations = patchBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"id": 1000}`), nil
	})

	_, err := client.WorkItems.LinkTickets(context.Background(), testutil.MockProjectID, 1000, 1234, azuredevops.RelationChild, azuredevops.WorkItemUpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{
		"op":   "add",
		"path": "/relations/-",
		"value": map[string]interface{}{
			"rel":        "System.LinkTypes.Hierarchy-Forward",
			"url":        testutil.APIURL("") + "/wit/workitems/1234",
			"attributes": map[string]interface{}{"comment": ""},
		},
		"from": nil,
	}}, operations)
}

func TestAddHyperlink(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var operations []map[string]interface{}
	transport.RegisterResponder(http.MethodPatch, workItemsURL+"/1234"+updateQuery, func(req *http.Request) (*http.Response, error) {
		operations = patchBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"id": 1234}`), nil
	})

	_, err := client.WorkItems.AddHyperlink(context.Background(), testutil.MockProjectID, 1234, "https://example.com", azuredevops.WorkItemUpdateOptions{})
	require.NoError(t, err)
	require.Len(t, operations, 1)
	value := operations[0]["value"].(map[string]interface{})
	assert.Equal(t, "Hyperlink", value["rel"])
	assert.Equal(t, "https://example.com", value["url"])
}

func TestAddAttachment(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	path := filepath.Join(t.TempDir(), "log#1.txt")
	require.NoError(t, os.WriteFile(path, []byte("log output"), 0o600))

	var uploaded string
	transport.RegisterResponder(http.MethodPost, testutil.APIURL(testutil.MockProjectID)+"/wit/attachments?fileName=log_1.txt&api-version=1.0",
		func(req *http.Request) (*http.Response, error) {
			content, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			uploaded = string(content)
			return httpmock.NewStringResponse(http.StatusCreated, `{"id": "att-1", "url": "https://test-tenant.visualstudio.com/_apis/wit/attachments/att-1"}`), nil
		})

	var operations []map[string]interface{}
	transport.RegisterResponder(http.MethodPatch, workItemsURL+"/1234"+updateQuery, func(req *http.Request) (*http.Response, error) {
		operations = patchBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"id": 1234}`), nil
	})

	_, err := client.WorkItems.AddAttachment(context.Background(), testutil.MockProjectID, 1234, path, "", azuredevops.WorkItemUpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "log output", uploaded)
	require.Len(t, operations, 1)
	value := operations[0]["value"].(map[string]interface{})
	assert.Equal(t, "AttachedFile", value["rel"])
	assert.Equal(t, "https://test-tenant.visualstudio.com/_apis/wit/attachments/att-1", value["url"])
}

func TestAddAttachmentWithoutURL(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("log output"), 0o600))
	transport.RegisterResponder(http.MethodPost, testutil.APIURL(testutil.MockProjectID)+"/wit/attachments?fileName=log.txt&api-version=1.0",
		httpmock.NewStringResponder(http.StatusCreated, `{"id": "att-1"}`))

	_, err := client.WorkItems.AddAttachment(context.Background(), testutil.MockProjectID, 1234, path, "", azuredevops.WorkItemUpdateOptions{})
	assert.ErrorIs(t, err, azuredevops.ErrInvalidResponse)
}

func TestExecuteQuery(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPost, testutil.APIURL(testutil.MockProjectID)+"/wit/wiql?api-version=4.1", func(req *http.Request) (*http.Response, error) {
		body = jsonBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"queryType": "flat", "workItems": [{"id": 1}, {"id": 2}]}`), nil
	})
	transport.RegisterResponder(http.MethodGet, testutil.APIURL(testutil.MockProjectID)+"/wit/wiql/saved-query?api-version=4.1",
		httpmock.NewStringResponder(http.StatusOK, `{"queryType": "flat", "workItems": [{"id": 3}]}`))

	query := "SELECT [System.Id] FROM WorkItems WHERE [System.State] = 'Active'"
	result, err := client.WorkItems.ExecuteQuery(context.Background(), testutil.MockProjectID, query)
	require.NoError(t, err)
	assert.Len(t, result.WorkItems, 2)
	assert.Equal(t, query, body["query"])

	result, err = client.WorkItems.ExecuteQueryByID(context.Background(), testutil.MockProjectID, "saved-query")
	require.NoError(t, err)
	require.Len(t, result.WorkItems, 1)
	assert.Equal(t, 3, result.WorkItems[0].ID)
}

func TestDeleteWorkItem(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodDelete, workItemsURL+"/1?suppressNotifications=true&destroy=false&api-version=4.1",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 1, "code": 200, "deletedBy": "Test User"}`))
	transport.RegisterResponder(http.MethodDelete, workItemsURL+"/2?suppressNotifications=false&destroy=true&api-version=4.1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	transport.RegisterResponder(http.MethodDelete, workItemsURL+"/3?suppressNotifications=false&destroy=false&api-version=4.1",
		httpmock.NewStringResponder(http.StatusNotFound, "gone"))

	deleted, err := client.WorkItems.Delete(context.Background(), testutil.MockProjectID, 1, false, true)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "Test User", deleted.DeletedBy)

	deleted, err = client.WorkItems.Delete(context.Background(), testutil.MockProjectID, 2, true, false)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	_, err = client.WorkItems.Delete(context.Background(), testutil.MockProjectID, 3, false, false)
	assert.True(t, azuredevops.IsHTTPStatus(err, http.StatusNotFound))
}

func TestBatch(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var body []map[string]interface{}
	transport.RegisterResponder(http.MethodPost, testutil.APIURL("")+"/wit/$batch", func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		return httpmock.NewStringResponse(http.StatusOK, `{"count": 1, "value": [{"code": 204, "headers": {}, "body": ""}]}`), nil
	})

	responses, err := client.WorkItems.Batch(context.Background(), []azuredevops.BatchRequest{
		azuredevops.NewDeleteBatchRequest("/_apis/wit/workitems/5?api-version=4.1", nil),
	})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, 204, responses[0].Code)
	assert.Equal(t, []map[string]interface{}{{
		"method":  "DELETE",
		"uri":     "/_apis/wit/workitems/5?api-version=4.1",
		"headers": map[string]interface{}{"Content-Type": "application/json-patch+json"},
	}}, body)
}

func TestBatchLimit(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	_, err := client.WorkItems.Batch(context.Background(), make([]azuredevops.BatchRequest, 200))
	assert.ErrorIs(t, err, azuredevops.ErrInvalidArgument)

	_, err = client.WorkItems.Batch(context.Background(), make([]azuredevops.BatchRequest, 201))
	assert.ErrorIs(t, err, azuredevops.ErrInvalidArgument)
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestTrackedWorkItem(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, workItemsURL+"/1234?api-version=4.1&$expand=all",
		testutil.FixtureResponder(t, http.StatusOK, "work_item.json"))

	var operations []map[string]interface{}
	transport.RegisterResponder(http.MethodPatch, workItemsURL+"/1234"+updateQuery, func(req *http.Request) (*http.Response, error) {
		operations = patchBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"id": 1234, "rev": 4, "fields": {"System.State": "Resolved", "System.WorkItemType": "Bug"}}`), nil
	})

	tracked := client.WorkItems.Tracked(testutil.MockProjectID, &azuredevops.WorkItem{ID: 1234, Fields: map[string]interface{}{}})
	assert.Equal(t, "WorkItem(id=1234, type=Unknown)", tracked.String())

	// The missing field triggers a refresh
	state, err := tracked.Field(context.Background(), azuredevops.FieldState)
	require.NoError(t, err)
	assert.Equal(t, "Active", state)
	assert.Equal(t, 3, tracked.Data().Rev)
	assert.Equal(t, "WorkItem(id=1234, type=Bug)", tracked.String())

	_, err = tracked.Field(context.Background(), azuredevops.FieldFoundIn)
	assert.ErrorIs(t, err, azuredevops.ErrMissingValue)

	require.NoError(t, tracked.Patch(context.Background(), azuredevops.FieldState, "Resolved", azuredevops.WorkItemUpdateOptions{}))
	assert.Equal(t, "/fields/System.State", operations[0]["path"])
	assert.Equal(t, "replace", operations[0]["op"])
	assert.Equal(t, 4, tracked.Data().Rev)

	encoded, err := json.Marshal(tracked)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1234, "rev": 4, "fields": {"System.State": "Resolved", "System.WorkItemType": "Bug"}, "url": ""}`, string(encoded))
}

func TestTrackedWorkItemWithoutID(t *testing.T) {
	client, _ := testutil.NewMockClient(t)
	tracked := client.WorkItems.Tracked(testutil.MockProjectID, &azuredevops.WorkItem{Fields: map[string]interface{}{}})

	_, err := tracked.Field(context.Background(), azuredevops.FieldTitle)
	assert.ErrorIs(t, err, azuredevops.ErrInvalidArgument)
	assert.ErrorIs(t, tracked.Patch(context.Background(), azuredevops.FieldTitle, "x", azuredevops.WorkItemUpdateOptions{}), azuredevops.ErrInvalidArgument)
}
