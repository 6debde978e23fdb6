package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const maxUsageHistoryPageSize = 50

// ServiceEndpoint is a service connection
type ServiceEndpoint struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Type          string                     `json:"type"`
	URL           string                     `json:"url"`
	Description   string                     `json:"description"`
	IsReady       bool                       `json:"isReady"`
	IsShared      bool                       `json:"isShared"`
	Owner         string                     `json:"owner"`
	CreatedBy     *IdentityRef               `json:"createdBy,omitempty"`
	Authorization map[string]json.RawMessage `json:"authorization,omitempty"`
	Data          map[string]string          `json:"data,omitempty"`
}

// ServiceEndpointUsage is an entry of the execution history of a service endpoint
type ServiceEndpointUsage struct {
	EndpointID string                   `json:"endpointId"`
	Data       ServiceEndpointUsageData `json:"data"`
}

// ServiceEndpointUsageData is the execution that used a service endpoint
type ServiceEndpointUsageData struct {
	ID           int        `json:"id"`
	PlanType     string     `json:"planType"`
	Result       string     `json:"result"`
	StartTime    string     `json:"startTime"`
	FinishTime   string     `json:"finishTime"`
	Definition   Definition `json:"definition"`
	Owner        Definition `json:"owner"`
	OwnerDetails string     `json:"ownerDetails"`
	ScopeID      string     `json:"scopeId"`
}

// EndpointsClient wraps the service endpoint APIs
type EndpointsClient struct {
	baseClient
}

// GetEndpoints returns the service endpoints of a project, optionally of a single type
func (c *EndpointsClient) GetEndpoints(ctx context.Context, projectID string, endpointType string) ([]ServiceEndpoint, error) {
	parameters := url.Values{}
	parameters.Set("api-version", "6.0-preview.4")
	if endpointType != "" {
		parameters.Set("type", endpointType)
	}
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/serviceendpoint/endpoints?" + parameters.Encode()

	endpoints, err := getValue[ServiceEndpoint](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting service endpoints: %w", err)
	}
	return endpoints, nil
}

// GetUsageHistory returns the execution history of a service endpoint. At most top entries are returned
// when top is positive, otherwise the whole history.
func (c *EndpointsClient) GetUsageHistory(ctx context.Context, projectID string, endpointID string, top int) ([]ServiceEndpointUsage, error) {
	pageSize := top
	if pageSize <= 0 || pageSize > maxUsageHistoryPageSize {
		pageSize = maxUsageHistoryPageSize
	}

	parameters := url.Values{}
	parameters.Set("api-version", "6.0-preview.1")
	parameters.Set("top", strconv.Itoa(pageSize))
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) +
		"/serviceendpoint/" + endpointID + "/executionhistory?" + parameters.Encode()

	c.log.Debugf("Getting usage history of endpoint %s", endpointID)

	var usages []ServiceEndpointUsage
	err := visitPages(ctx, c.http, requestURL, func(page []ServiceEndpointUsage) bool {
		for _, usage := range page {
			usages = append(usages, usage)
			if top > 0 && len(usages) >= top {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("getting usage history of endpoint %s: %w", endpointID, err)
	}
	return usages, nil
}
