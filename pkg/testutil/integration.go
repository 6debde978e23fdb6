package testutil

import (
	"os"
	"strconv"
	"testing"

	"github.com/ogmaresca/simple-ado/pkg/auth"
	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
)

// Environment variables read by the integration tests.
// EnvIntegration and EnvDestructive take any value strconv.ParseBool accepts.
const (
	EnvIntegration  = "SIMPLE_ADO_INTEGRATION"
	EnvDestructive  = "SIMPLE_ADO_DESTRUCTIVE"
	EnvToken        = "SIMPLE_ADO_BASE_TOKEN"
	EnvTenant       = "SIMPLE_ADO_TENANT"
	EnvProjectID    = "SIMPLE_ADO_PROJECT_ID"
	EnvRepositoryID = "SIMPLE_ADO_REPO_ID"
)

// Integration is the live environment of an integration test
type Integration struct {
	Client       *azuredevops.Client
	Tenant       string
	ProjectID    string
	RepositoryID string
}

// RequireIntegration skips the test unless SIMPLE_ADO_INTEGRATION is set, and fails it if the environment is incomplete
func RequireIntegration(t testing.TB) Integration {
	t.Helper()

	if !enabled(EnvIntegration) {
		t.Skip("need " + EnvIntegration + "=1 to run")
	}

	token := requireEnv(t, EnvToken)
	tenant := requireEnv(t, EnvTenant)
	return Integration{
		Client:       azuredevops.NewClient(tenant, auth.TokenAuth{Token: token}),
		Tenant:       tenant,
		ProjectID:    requireEnv(t, EnvProjectID),
		RepositoryID: requireEnv(t, EnvRepositoryID),
	}
}

// RequireDestructive is RequireIntegration for tests that modify resources. They also need SIMPLE_ADO_DESTRUCTIVE.
func RequireDestructive(t testing.TB) Integration {
	t.Helper()

	env := RequireIntegration(t)
	if !enabled(EnvDestructive) {
		t.Skip("need " + EnvDestructive + "=1 to run")
	}
	return env
}

func enabled(name string) bool {
	value, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && value
}

func requireEnv(t testing.TB, name string) string {
	t.Helper()

	value := os.Getenv(name)
	if value == "" {
		t.Fatalf("%s environment variable not set", name)
	}
	return value
}
