package azuredevops_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/testutil"
)

const auditURL = "https://auditservice.dev.azure.com/test-tenant/_apis/audit"

func TestGetAuditActions(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, auditURL+"/actions?api-version=6.0-preview.1&areaName=Git",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "value": [{"actionId": "Git.RepositoryCreated", "area": "Git", "category": "create"}]}`))

	actions, err := client.Audit.GetActions(context.Background(), "Git")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, azuredevops.AuditCategoryCreate, actions[0].Category)
}

func auditLogURL() string {
	return auditURL + "/auditlog?" + url.Values{
		"api-version":     []string{"6.0-preview.1"},
		"startTime":       []string{"2024-03-01T00:00:00.000Z"},
		"endTime":         []string{"2024-03-02T12:30:00.000Z"},
		"skipAggregation": []string{"true"},
	}.Encode()
}

func TestQueryAuditLog(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, auditLogURL(), httpmock.NewStringResponder(http.StatusOK,
		`{"decoratedAuditLogEntries": [{"id": "1", "actionId": "Git.RefUpdate"}, {"id": "2"}], "continuationToken": "abc", "hasMore": true}`))
	transport.RegisterResponder(http.MethodGet, auditLogURL()+"&continuationToken=abc", httpmock.NewStringResponder(http.StatusOK,
		`{"decoratedAuditLogEntries": [{"id": "3"}], "hasMore": false}`))

	var ids []string
	err := client.Audit.QueryAuditLog(context.Background(), azuredevops.AuditQuery{
		StartTime:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2024, 3, 2, 12, 30, 0, 0, time.UTC),
		SkipAggregation: true,
	}, func(entry azuredevops.AuditLogEntry) bool {
		ids = append(ids, entry.ID)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestQueryAuditLogStopsEarly(t *testing.T) {
	client, transport := testutil.NewMockClient(t)
	transport.RegisterResponder(http.MethodGet, auditLogURL(), httpmock.NewStringResponder(http.StatusOK,
		`{"decoratedAuditLogEntries": [{"id": "1"}, {"id": "2"}], "continuationToken": "abc", "hasMore": true}`))

	visited := 0
	err := client.Audit.QueryAuditLog(context.Background(), azuredevops.AuditQuery{
		StartTime:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2024, 3, 2, 12, 30, 0, 0, time.UTC),
		SkipAggregation: true,
	}, func(entry azuredevops.AuditLogEntry) bool {
		visited++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, visited)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}
