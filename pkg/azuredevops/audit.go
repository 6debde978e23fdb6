package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const auditTimeFormat = "2006-01-02T15:04:05.000Z"

// AuditActionCategory is the kind of an audit action
type AuditActionCategory string

// Audit action categories
const (
	AuditCategoryAccess  AuditActionCategory = "access"
	AuditCategoryCreate  AuditActionCategory = "create"
	AuditCategoryExecute AuditActionCategory = "execute"
	AuditCategoryModify  AuditActionCategory = "modify"
	AuditCategoryRemove  AuditActionCategory = "remove"
	AuditCategoryUnknown AuditActionCategory = "unknown"
)

// AuditActionInfo describes an action that can appear in the audit log
type AuditActionInfo struct {
	ActionID string              `json:"actionId"`
	Area     string              `json:"area"`
	Category AuditActionCategory `json:"category"`
}

// AuditLogEntry is a decorated audit log entry
type AuditLogEntry struct {
	ID                      string                     `json:"id"`
	CorrelationID           string                     `json:"correlationId"`
	ActivityID              string                     `json:"activityId"`
	ActorCUID               string                     `json:"actorCUID"`
	ActorUserID             string                     `json:"actorUserId"`
	ActorUPN                string                     `json:"actorUPN"`
	ActorDisplayName        string                     `json:"actorDisplayName"`
	AuthenticationMechanism string                     `json:"authenticationMechanism"`
	Timestamp               string                     `json:"timestamp"`
	ScopeType               string                     `json:"scopeType"`
	ScopeDisplayName        string                     `json:"scopeDisplayName"`
	ScopeID                 string                     `json:"scopeId"`
	ProjectID               string                     `json:"projectId"`
	ProjectName             string                     `json:"projectName"`
	IPAddress               string                     `json:"ipAddress"`
	UserAgent               string                     `json:"userAgent"`
	ActionID                string                     `json:"actionId"`
	Area                    string                     `json:"area"`
	Category                AuditActionCategory        `json:"category"`
	CategoryDisplayName     string                     `json:"categoryDisplayName"`
	Details                 string                     `json:"details"`
	Data                    map[string]json.RawMessage `json:"data,omitempty"`
}

type auditLogPage struct {
	DecoratedAuditLogEntries []AuditLogEntry `json:"decoratedAuditLogEntries"`
	ContinuationToken        string          `json:"continuationToken"`
	HasMore                  bool            `json:"hasMore"`
}

// AuditClient wraps the audit APIs
type AuditClient struct {
	baseClient
}

// GetActions returns the audit actions, optionally restricted to an area
func (c *AuditClient) GetActions(ctx context.Context, areaName string) ([]AuditActionInfo, error) {
	c.log.Debug("Getting audit actions")

	parameters := url.Values{}
	parameters.Set("api-version", "6.0-preview.1")
	if areaName != "" {
		parameters.Set("areaName", areaName)
	}
	requestURL := c.http.AuditEndpoint() + "/audit/actions?" + parameters.Encode()

	actions, err := getValue[AuditActionInfo](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting audit actions: %w", err)
	}
	return actions, nil
}

// AuditQuery filters the audit log. Zero times are unbounded.
type AuditQuery struct {
	StartTime       time.Time
	EndTime         time.Time
	SkipAggregation bool
}

// QueryAuditLog passes every audit log entry matching the query to visit, in pages.
// Iteration stops early when visit returns false.
func (c *AuditClient) QueryAuditLog(ctx context.Context, query AuditQuery, visit func(entry AuditLogEntry) bool) error {
	parameters := url.Values{}
	parameters.Set("api-version", "6.0-preview.1")
	if !query.StartTime.IsZero() {
		parameters.Set("startTime", query.StartTime.UTC().Format(auditTimeFormat))
	}
	if !query.EndTime.IsZero() {
		parameters.Set("endTime", query.EndTime.UTC().Format(auditTimeFormat))
	}
	if query.SkipAggregation {
		parameters.Set("skipAggregation", "true")
	}
	baseURL := c.http.AuditEndpoint() + "/audit/auditlog?" + parameters.Encode()

	requestURL := baseURL
	for {
		page := new(auditLogPage)
		if err := c.http.getJSON(ctx, requestURL, page); err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}
		for _, entry := range page.DecoratedAuditLogEntries {
			if !visit(entry) {
				return nil
			}
		}
		if !page.HasMore {
			return nil
		}
		requestURL = baseURL + "&continuationToken=" + url.QueryEscape(page.ContinuationToken)
	}
}
