package args

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"SIMPLE_ADO_TENANT", "SIMPLE_ADO_BASE_TOKEN", "SIMPLE_ADO_PROJECT_ID", "SIMPLE_ADO_REPO_ID", "SIMPLE_ADO_POOL"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestParseFlags(t *testing.T) {
	clearEnv(t)

	a, err := Parse([]string{"builds", "--tenant", "org", "--project-id", "proj", "--definition", "1,2", "--order", "finishTimeDescending", "--log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, CommandBuilds, a.Command)
	assert.Equal(t, "org", a.AZD.Tenant)
	assert.Equal(t, "proj", a.AZD.ProjectID)
	assert.Equal(t, []int{1, 2}, a.Builds.Definitions)
	assert.Equal(t, azuredevops.BuildOrderFinishTimeDescending, a.Builds.Order)
	assert.Equal(t, log.DebugLevel, a.Logging.Level)
}

func TestParseEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIMPLE_ADO_TENANT", "env-org")
	t.Setenv("SIMPLE_ADO_BASE_TOKEN", "env-token")
	t.Setenv("SIMPLE_ADO_PROJECT_ID", "env-project")
	t.Setenv("SIMPLE_ADO_REPO_ID", "env-repo")

	a, err := Parse([]string{"prs", "--status", "completed"})
	require.NoError(t, err)

	assert.Equal(t, AzureDevopsArgs{Tenant: "env-org", Token: "env-token", ProjectID: "env-project", RepositoryID: "env-repo"}, a.AZD)
	assert.Equal(t, azuredevops.PullRequestStatus("completed"), a.PRs.Status)
	assert.Equal(t, 100, a.PRs.Top)

	a, err = Parse([]string{"prs", "--tenant", "flag-org"})
	require.NoError(t, err)
	assert.Equal(t, "flag-org", a.AZD.Tenant)
}

func TestParseConfigFile(t *testing.T) {
	clearEnv(t)
	config := filepath.Join(t.TempDir(), "simple-ado.yaml")
	require.NoError(t, os.WriteFile(config, []byte("tenant: file-org\npool: linux\nrate: 30s\nmax: 20\n"), 0o600))

	a, err := Parse([]string{"monitor", "--config", config})
	require.NoError(t, err)

	assert.Equal(t, "file-org", a.AZD.Tenant)
	assert.Equal(t, MonitorArgs{Pool: "linux", Min: 1, Max: 20, Rate: 30 * time.Second}, a.Monitor)
	assert.Equal(t, 10101, a.Health.Port)
}

func TestParseAggregatesErrors(t *testing.T) {
	clearEnv(t)

	_, err := Parse([]string{"monitor", "--min", "0", "--max", "0", "--rate", "1s", "--log-level", "loud"})
	require.Error(t, err)

	for _, message := range []string{
		"not a valid logrus Level",
		"The Azure Devops tenant is required.",
		"The agent pool is required.",
		"Min argument cannot be less than 1.",
		"Max agents argument must be greater than the minimum.",
		"Rate '1s' is too low.",
	} {
		assert.Contains(t, err.Error(), message)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	clearEnv(t)

	_, err := Parse([]string{"deploy", "--tenant", "org"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "deploy"`)

	_, err = Parse([]string{})
	assert.Error(t, err)
}

func TestParseLoginNeedsToken(t *testing.T) {
	clearEnv(t)

	_, err := Parse([]string{"login", "--tenant", "org"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")

	_, err = Parse([]string{"logout", "--tenant", "org"})
	assert.NoError(t, err)
}

func TestParseGet(t *testing.T) {
	clearEnv(t)

	a, err := Parse([]string{"get", "--tenant", "org", "--path", "git/repositories", "--param", "api-version=6.0"})
	require.NoError(t, err)
	assert.Equal(t, GetArgs{Path: "git/repositories", Parameters: map[string]string{"api-version": "6.0"}}, a.Get)
}
