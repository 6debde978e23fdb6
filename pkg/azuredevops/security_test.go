package azuredevops_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/testutil"
)

var mockBranch = azuredevops.BranchRef{
	ProjectID:    testutil.MockProjectID,
	RepositoryID: "repo-1",
	Branch:       "release/v1",
}

func TestGenerateUpdatesToken(t *testing.T) {
	assert.Equal(t, "repoV2/p/", azuredevops.GenerateUpdatesToken("p", "", "main"))
	assert.Equal(t, "repoV2/p/r/", azuredevops.GenerateUpdatesToken("p", "r", ""))
	assert.Equal(t, "repoV2/p/r/refs/heads/6600650061007400750072006500/7800/",
		azuredevops.GenerateUpdatesToken("p", "r", "feature/x"))
}

func TestAddBranchStatusCheckPolicy(t *testing.T) {
	client, transport := testutil.NewMockClient(t)

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPost, testutil.APIURL(testutil.MockProjectID)+"/policy/Configurations?api-version=5.0",
		func(req *http.Request) (*http.Response, error) {
			body = jsonBody(t, req)
			return httpmock.NewStringResponse(http.StatusOK, `{"id": 11, "type": {"id": "cbdc66da-9728-4af8-aada-9a5a32e4a226"}, "isBlocking": true}`), nil
		})

	opts := azuredevops.DefaultStatusCheckPolicyOptions(mockBranch, "lint", "ci")
	policy, err := client.Security.AddBranchStatusCheckPolicy(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 11, policy.ID)

	assert.Equal(t, string(azuredevops.PolicyStatusCheck), body["type"].(map[string]interface{})["id"])
	assert.Equal(t, true, body["isBlocking"])
	settings := body["settings"].(map[string]interface{})
	assert.Nil(t, settings["policyApplicability"])
	assert.Equal(t, "lint", settings["statusName"])
	assert.Equal(t, []interface{}{map[string]interface{}{
		"repositoryId": "repo-1",
		"refName":      "refs/heads/release/v1",
		"matchKind":    "Exact",
	}}, settings["scope"])
}

func TestSetBranchPermissions(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	identity, err := azuredevops.ParseTeamFoundationID(identityID)
	require.NoError(t, err)

	internalURL := "https://test-tenant.visualstudio.com/DefaultCollection/test-project-123/_api/_security"
	transport.RegisterResponderWithQuery(http.MethodGet, internalURL+"/DisplayPermissions", url.Values{
		"tfid":               []string{identityID},
		"permissionSetId":    []string{azuredevops.GitPermissionsNamespace},
		"permissionSetToken": []string{"repoV2/test-project-123/repo-1/refs^heads^release^v1/"},
		"__v":                []string{"5"},
	}, httpmock.NewStringResponder(http.StatusOK, `{"descriptorIdentityType": "Microsoft.TeamFoundation.Identity", "descriptorIdentifier": "S-1-9"}`))

	var body map[string]interface{}
	transport.RegisterResponder(http.MethodPost, internalURL+"/ManagePermissions?__v=5", func(req *http.Request) (*http.Response, error) {
		body = jsonBody(t, req)
		return httpmock.NewStringResponse(http.StatusOK, `{"success": true}`), nil
	})

	result, err := client.Security.SetBranchPermissions(context.Background(), mockBranch, identity, map[azuredevops.BranchPermission]azuredevops.PermissionLevel{
		azuredevops.PermissionForcePush:  azuredevops.PermissionDeny,
		azuredevops.PermissionContribute: azuredevops.PermissionAllow,
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["success"])

	var updatePackage struct {
		DescriptorIdentifier string
		PermissionSetToken   string
		Updates              []struct {
			PermissionID  int    `json:"PermissionId"`
			PermissionBit int    `json:"PermissionBit"`
			Token         string `json:"Token"`
		}
	}
	require.NoError(t, json.Unmarshal([]byte(body["updatePackage"].(string)), &updatePackage))
	assert.Equal(t, "S-1-9", updatePackage.DescriptorIdentifier)
	require.Len(t, updatePackage.Updates, 2)
	assert.Equal(t, int(azuredevops.PermissionContribute), updatePackage.Updates[0].PermissionBit)
	assert.Equal(t, int(azuredevops.PermissionAllow), updatePackage.Updates[0].PermissionID)
	assert.Equal(t, int(azuredevops.PermissionForcePush), updatePackage.Updates[1].PermissionBit)
	assert.Equal(t, azuredevops.GenerateUpdatesToken(testutil.MockProjectID, "repo-1", "release/v1"), updatePackage.Updates[1].Token)
}

func TestSetBranchPermissionsWithoutDescriptor(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	identity, err := azuredevops.ParseTeamFoundationID(identityID)
	require.NoError(t, err)

	transport.RegisterNoResponder(httpmock.NewStringResponder(http.StatusOK, `{}`))

	_, err = client.Security.SetBranchPermissions(context.Background(), mockBranch, identity,
		map[azuredevops.BranchPermission]azuredevops.PermissionLevel{azuredevops.PermissionRead: azuredevops.PermissionAllow})
	assert.ErrorIs(t, err, azuredevops.ErrInvalidResponse)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestQueryAccessControlLists(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, testutil.APIURL("")+"/accesscontrollists/"+azuredevops.GitPermissionsNamespace+
		"?api-version=7.1-preview.1&descriptors=Microsoft.TeamFoundation.Identity;S-1-9,Microsoft.TeamFoundation.Identity;S-1-10&token=repoV2/p",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"token": "repoV2/p", "inheritPermissions": true, "acesDictionary": {"Microsoft.TeamFoundation.Identity;S-1-9": {"allow": 4, "deny": 8}}}]}`))

	acls, err := client.Security.QueryAccessControlLists(context.Background(), azuredevops.GitPermissionsNamespace,
		[]string{"S-1-9", "Microsoft.TeamFoundation.Identity;S-1-10"}, "repoV2/p")
	require.NoError(t, err)
	require.Len(t, acls, 1)
	assert.Equal(t, 8, acls[0].AcesDictionary["Microsoft.TeamFoundation.Identity;S-1-9"].Deny)
}

func TestQueryNamespaces(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, testutil.APIURL("")+"/securitynamespaces/"+azuredevops.GitPermissionsNamespace+
		"?api-version=7.1-preview.1&localOnly=true",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"namespaceId": "`+azuredevops.GitPermissionsNamespace+`", "name": "Git Repositories", "actions": [{"bit": 1, "name": "Administer"}]}]}`))

	localOnly := true
	namespaces, err := client.Security.QueryNamespaces(context.Background(), azuredevops.GitPermissionsNamespace, &localOnly)
	require.NoError(t, err)
	require.Len(t, namespaces, 1)
	assert.Equal(t, "Administer", namespaces[0].Actions[0].Name)
}
