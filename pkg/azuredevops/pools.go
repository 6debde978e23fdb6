package azuredevops

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jinzhu/copier"
)

// PoolActionFilter filters pools by the permissions the caller has on them
type PoolActionFilter string

// Pool action filters
const (
	PoolActionManage PoolActionFilter = "manage"
	PoolActionNone   PoolActionFilter = "none"
	PoolActionUse    PoolActionFilter = "use"
)

// PoolDetails is returned when listing agent pools.
// GET https://{tenant}.visualstudio.com/_apis/distributedtask/pools?api-version=5.1
type PoolDetails struct {
	Definition
	CreatedOn     string       `json:"createdOn"`
	AutoProvision bool         `json:"autoProvision"`
	AutoSize      bool         `json:"autoSize"`
	TargetSize    int          `json:"targetSize"`
	AgentCloudID  int          `json:"agentCloudId"`
	CreatedBy     *IdentityRef `json:"createdBy"`
	Owner         *IdentityRef `json:"owner"`
	Scope         string       `json:"scope"`
	IsHosted      bool         `json:"isHosted"`
	PoolType      string       `json:"poolType"`
	Size          int          `json:"size"`
	IsLegacy      bool         `json:"isLegacy"`
}

// PoolsAPI is the part of the pools client used to monitor a pool
type PoolsAPI interface {
	GetPools(ctx context.Context, opts GetPoolsOptions) ([]PoolDetails, error)
	GetAgents(ctx context.Context, poolID int, opts GetAgentsOptions) ([]AgentDetails, error)
	GetAgent(ctx context.Context, poolID int, agentID int) (*AgentDetails, error)
	ListJobRequests(ctx context.Context, poolID int) ([]JobRequest, error)
}

// PoolsClient wraps the agent pool APIs
type PoolsClient struct {
	baseClient
}

var _ PoolsAPI = (*PoolsClient)(nil)

func (c *PoolsClient) poolsURL() string {
	return c.http.APIEndpoint(Endpoint{NoDefaultCollection: true}) + "/distributedtask/pools"
}

func (c *PoolsClient) agentURL(poolID int, agentID int) string {
	return fmt.Sprintf("%s/%d/agents/%d", c.poolsURL(), poolID, agentID)
}

// GetPoolsOptions are the filters of GetPools
type GetPoolsOptions struct {
	PoolName     string
	ActionFilter PoolActionFilter
}

// GetPools retrieves a list of agent pools
func (c *PoolsClient) GetPools(ctx context.Context, opts GetPoolsOptions) ([]PoolDetails, error) {
	parameters := url.Values{}
	parameters.Set("api-version", "5.1")
	if opts.PoolName != "" {
		parameters.Set("poolName", opts.PoolName)
	}
	if opts.ActionFilter != "" {
		parameters.Set("actionFilter", string(opts.ActionFilter))
	}

	pools, err := getValue[PoolDetails](ctx, c.http, c.poolsURL()+"?"+parameters.Encode())
	if err != nil {
		return nil, fmt.Errorf("listing pools: %w", err)
	}
	return pools, nil
}

// GetAgentsOptions are the arguments of GetAgents
type GetAgentsOptions struct {
	AgentName                   string
	IncludeCapabilities         bool
	IncludeAssignedRequest      bool
	IncludeLastCompletedRequest bool
}

// DefaultGetAgentsOptions includes capabilities and requests
var DefaultGetAgentsOptions = GetAgentsOptions{
	IncludeCapabilities:         true,
	IncludeAssignedRequest:      true,
	IncludeLastCompletedRequest: true,
}

// GetAgents retrieves the agents in a pool
func (c *PoolsClient) GetAgents(ctx context.Context, poolID int, opts GetAgentsOptions) ([]AgentDetails, error) {
	parameters := url.Values{}
	parameters.Set("includeCapabilities", strconv.FormatBool(opts.IncludeCapabilities))
	parameters.Set("includeAssignedRequest", strconv.FormatBool(opts.IncludeAssignedRequest))
	parameters.Set("includeLastCompletedRequest", strconv.FormatBool(opts.IncludeLastCompletedRequest))
	parameters.Set("api-version", "5.1")
	if opts.AgentName != "" {
		parameters.Set("agentName", opts.AgentName)
	}

	requestURL := fmt.Sprintf("%s/%d/agents?%s", c.poolsURL(), poolID, parameters.Encode())
	agents, err := getValue[AgentDetails](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing agents of pool %d: %w", poolID, err)
	}
	return agents, nil
}

// GetAgent retrieves a single agent
func (c *PoolsClient) GetAgent(ctx context.Context, poolID int, agentID int) (*AgentDetails, error) {
	agent := new(AgentDetails)
	if err := c.http.getJSON(ctx, c.agentURL(poolID, agentID)+"?api-version=5.1", agent); err != nil {
		return nil, fmt.Errorf("getting agent %d of pool %d: %w", agentID, poolID, err)
	}
	return agent, nil
}

// UpdateAgent sends an agent update
func (c *PoolsClient) UpdateAgent(ctx context.Context, poolID int, agentID int, agent interface{}) (*AgentDetails, error) {
	response, err := c.http.Patch(ctx, c.agentURL(poolID, agentID)+"?api-version=5.1", agent)
	if err != nil {
		return nil, err
	}
	updated := new(AgentDetails)
	if err := c.http.DecodeResponse(response, updated); err != nil {
		return nil, fmt.Errorf("updating agent %d of pool %d: %w", agentID, poolID, err)
	}
	return updated, nil
}

// SetAgentState enables or disables an agent
func (c *PoolsClient) SetAgentState(ctx context.Context, poolID int, agentID int, enabled bool) (*AgentDetails, error) {
	agent, err := c.GetAgent(ctx, poolID, agentID)
	if err != nil {
		return nil, err
	}

	update := agentUpdate{}
	if err := copier.Copy(&update, agent); err != nil {
		return nil, fmt.Errorf("building update of agent %d: %w", agentID, err)
	}
	update.Enabled = enabled

	c.log.Debugf("Setting agent %d of pool %d enabled=%t", agentID, poolID, enabled)
	return c.UpdateAgent(ctx, poolID, agentID, update)
}

// UpdateAgentCapabilities replaces the user capabilities of an agent
func (c *PoolsClient) UpdateAgentCapabilities(ctx context.Context, poolID int, agentID int, capabilities map[string]string) (*AgentDetails, error) {
	response, err := c.http.Put(ctx, c.agentURL(poolID, agentID)+"/usercapabilities?api-version=5.1", capabilities)
	if err != nil {
		return nil, err
	}
	updated := new(AgentDetails)
	if err := c.http.DecodeResponse(response, updated); err != nil {
		return nil, fmt.Errorf("updating capabilities of agent %d of pool %d: %w", agentID, poolID, err)
	}
	return updated, nil
}

// ListJobRequests retrieves the job requests for a pool
func (c *PoolsClient) ListJobRequests(ctx context.Context, poolID int) ([]JobRequest, error) {
	requestURL := fmt.Sprintf("%s/%d/jobrequests?api-version=5.1", c.poolsURL(), poolID)
	jobs, err := getValue[JobRequest](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing job requests of pool %d: %w", poolID, err)
	}
	return jobs, nil
}
