package azuredevops

// Agent is the agent summary embedded in job requests and in AgentDetails
type Agent struct {
	Definition
	Version           string `json:"version"`
	OSDescription     string `json:"osDescription"`
	Enabled           bool   `json:"enabled"`
	Status            string `json:"status"`
	ProvisioningState string `json:"provisioningState"`
	AccessPoint       string `json:"accessPoint"`
}

// AgentStatus is the Status field of Agent
type AgentStatus string

const (
	// AgentStatusOnline is the status of connected agents
	AgentStatusOnline AgentStatus = "online"
	// AgentStatusOffline is the status of disconnected agents
	AgentStatusOffline AgentStatus = "offline"
)

// AgentDetails is the response received when retrieving an individual agent.
// GET https://{tenant}.visualstudio.com/_apis/distributedtask/pools/9/agents/8?includeCapabilities=true&includeAssignedRequest=true&includeLastCompletedRequest=true
type AgentDetails struct {
	Agent
	SystemCapabilities   map[string]string `json:"systemCapabilities"`
	UserCapabilities     map[string]string `json:"userCapabilities"`
	MaxParallelism       int               `json:"maxParallelism"`
	CreatedOn            string            `json:"createdOn"`
	StatusChangedOn      string            `json:"statusChangedOn"`
	AssignedRequest      *JobRequest       `json:"assignedRequest"`
	LastCompletedRequest *JobRequest       `json:"lastCompletedRequest"`
}

// agentUpdate is the body sent when updating an agent. Requests and capabilities are left out.
type agentUpdate struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Version           string `json:"version,omitempty"`
	OSDescription     string `json:"osDescription,omitempty"`
	Enabled           bool   `json:"enabled"`
	Status            string `json:"status,omitempty"`
	ProvisioningState string `json:"provisioningState,omitempty"`
	AccessPoint       string `json:"accessPoint,omitempty"`
	MaxParallelism    int    `json:"maxParallelism,omitempty"`
	CreatedOn         string `json:"createdOn,omitempty"`
}
