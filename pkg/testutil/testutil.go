// Package testutil holds the shared fixtures of the simple-ado tests
package testutil

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/auth"
	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
)

// Mock identifiers used by the unit tests
const (
	MockTenant       = "test-tenant"
	MockProjectID    = "test-project-123"
	MockRepositoryID = "test-repo-456"
	MockFeedID       = "test-feed-789"
	MockToken        = "mock-token-12345"
)

// FastRetry retries like the default policy without the waits
var FastRetry = azuredevops.RetryPolicy{
	MaxAttempts:     azuredevops.DefaultRetryPolicy.MaxAttempts,
	InitialInterval: time.Millisecond,
	MaxInterval:     time.Millisecond,
}

// NewMockClient returns a client whose requests go to a mock transport. Unregistered requests fail.
func NewMockClient(t testing.TB, opts ...azuredevops.Option) (*azuredevops.Client, *httpmock.MockTransport) {
	t.Helper()

	transport := httpmock.NewMockTransport()
	opts = append([]azuredevops.Option{
		azuredevops.WithHTTPClient(&http.Client{Transport: transport}),
		azuredevops.WithRetry(FastRetry),
	}, opts...)
	return azuredevops.NewClient(MockTenant, auth.TokenAuth{Token: MockToken}, opts...), transport
}

// APIURL returns the project scoped API base URL of the mock tenant
func APIURL(projectID string) string {
	url := "https://" + MockTenant + ".visualstudio.com/DefaultCollection"
	if projectID != "" {
		url += "/" + projectID
	}
	return url + "/_apis"
}

// FixturesDir returns the directory JSON fixtures are loaded from
func FixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "fixtures")
}

// LoadFixture returns the raw contents of a fixture file
func LoadFixture(t testing.TB, name string) []byte {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(FixturesDir(), name))
	require.NoError(t, err, "fixture not found: %s", name)
	return content
}

// LoadJSONFixture decodes a fixture file into out
func LoadJSONFixture(t testing.TB, name string, out interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(LoadFixture(t, name), out), "decoding fixture %s", name)
}

// FixtureResponder responds with a fixture file as JSON
func FixtureResponder(t testing.TB, status int, name string) httpmock.Responder {
	t.Helper()

	responder := httpmock.NewBytesResponder(status, LoadFixture(t, name))
	return responder.HeaderSet(http.Header{"Content-Type": []string{"application/json"}})
}
