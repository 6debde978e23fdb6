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

const governedRepositoryURL = "https://test-tenant.governance.visualstudio.com/test-project-123/_apis/ComponentGovernance/GovernedRepositories/42"

func TestParseAlertSeverity(t *testing.T) {
	severity, err := azuredevops.ParseAlertSeverity("High")
	require.NoError(t, err)
	assert.Equal(t, azuredevops.AlertSeverityHigh, severity)

	severity, err = azuredevops.ParseAlertSeverity("3")
	require.NoError(t, err)
	assert.Equal(t, azuredevops.AlertSeverityCritical, severity)
	assert.Equal(t, "critical", severity.String())

	_, err = azuredevops.ParseAlertSeverity("7")
	assert.ErrorIs(t, err, azuredevops.ErrInvalidArgument)

	_, err = azuredevops.ParseAlertSeverity("severe")
	assert.ErrorIs(t, err, azuredevops.ErrInvalidArgument)
}

func TestGetGovernedRepository(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, governedRepositoryURL+"?api-version=6.1-preview.1",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 42, "name": "service", "type": "git"}`))

	repository, err := client.Governance.GetGovernedRepository(context.Background(), testutil.MockProjectID, "42")
	require.NoError(t, err)
	assert.Equal(t, "service", repository.Name)
}

func TestSetShowBannerKeepsUnknownSettings(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	settingsURL := governedRepositoryURL + "/AlertSettings?api-version=5.0-preview.2"
	transport.RegisterResponder(http.MethodGet, settingsURL, httpmock.NewStringResponder(http.StatusOK,
		`{"showRepositoryWarningBanner": false, "minimumAlertSeverity": 2, "futureSetting": {"enabled": true}}`))

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPut, settingsURL, func(req *http.Request) (*http.Response, error) {
		body = jsonBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
	})

	severity, err := client.Governance.GetMinimumAlertSeverity(context.Background(), testutil.MockProjectID, "42")
	require.NoError(t, err)
	assert.Equal(t, azuredevops.AlertSeverityHigh, severity)

	require.NoError(t, client.Governance.SetShowBannerInRepoView(context.Background(), testutil.MockProjectID, "42", true))
	assert.Equal(t, map[string]interface{}{
		"showRepositoryWarningBanner": true,
		"minimumAlertSeverity":        float64(2),
		"futureSetting":               map[string]interface{}{"enabled": true},
	}, body)
}

func TestSetWorkItemSettings(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	settingsURL := governedRepositoryURL + "/AlertSettings?api-version=5.0-preview.2"
	transport.RegisterResponder(http.MethodGet, settingsURL, httpmock.NewStringResponder(http.StatusOK,
		`{"workItemSettings": {"areaPath": "old", "workItemTemplateRows": [{"fieldId": "System.Tags", "value": "cg"}]}}`))

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPut, settingsURL, func(req *http.Request) (*http.Response, error) {
		body = jsonBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
	})

	err := client.Governance.SetWorkItemSettings(context.Background(), testutil.MockProjectID, "42", azuredevops.WorkItemSettings{
		CreateForSecurityAlerts: true,
		AreaPath:                `Project\Security`,
		WorkItemType:            "Bug",
	})
	require.NoError(t, err)

	workItemSettings := body["workItemSettings"].(map[string]interface{})
	assert.Equal(t, `Project\Security`, workItemSettings["areaPath"])
	assert.Equal(t, true, workItemSettings["securityAlertWorkItemCreationEnabled"])
	assert.Equal(t, false, workItemSettings["legalAlertWorkItemCreationEnabled"])
	assert.Len(t, workItemSettings["workItemTemplateRows"], 1)
}

func TestGovernanceBranchesAndAlerts(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, governedRepositoryURL+"/Branches?isTracked=true&top=99999",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"id": 1, "name": "main", "isTracked": true}]}`))
	transport.RegisterResponder(http.MethodGet, governedRepositoryURL+"/Branches/main/Alerts?includeDevelopmentDependencies=false&includeHistory=true",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"alertId": 9, "title": "CVE", "state": "active"}]}`))

	branches, err := client.Governance.GetBranches(context.Background(), testutil.MockProjectID, "42", true)
	require.NoError(t, err)
	require.Len(t, branches, 1)

	alerts, err := client.Governance.GetAlerts(context.Background(), azuredevops.GetAlertsOptions{
		ProjectID:            testutil.MockProjectID,
		GovernedRepositoryID: "42",
		BranchName:           branches[0].Name,
		IncludeHistory:       true,
	})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 9, alerts[0].AlertID)
}
