package azuredevops_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/testutil"
)

func TestIntegrationReadOnly(t *testing.T) {
	env := testutil.RequireIntegration(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	require.True(t, env.Client.VerifyAccess(ctx))

	repositories, err := env.Client.Git.ListRepositories(ctx, env.ProjectID)
	require.NoError(t, err)
	assert.NotEmpty(t, repositories)

	refs, err := env.Client.Git.GetRefs(ctx, azuredevops.GetRefsOptions{
		ProjectID:        env.ProjectID,
		RepositoryID:     env.RepositoryID,
		FilterStartsWith: "heads/",
		Top:              10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refs)

	_, err = env.Client.Builds.ListBuilds(ctx, azuredevops.ListBuildsOptions{ProjectID: env.ProjectID})
	require.NoError(t, err)
}

func TestIntegrationWorkItemLifecycle(t *testing.T) {
	env := testutil.RequireDestructive(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	workItem, err := env.Client.WorkItems.Create(ctx, env.ProjectID, "Task", []azuredevops.PatchOperation{
		azuredevops.AddOperation("/fields/System.Title", "simple-ado integration test"),
	}, azuredevops.WorkItemUpdateOptions{SuppressNotification: true})
	require.NoError(t, err)
	require.NotZero(t, workItem.ID)

	_, err = env.Client.WorkItems.Delete(ctx, env.ProjectID, workItem.ID, true, true)
	require.NoError(t, err)
}
