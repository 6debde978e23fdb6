package azuredevops

// JobResult is the outcome of a finished job. Queued and running jobs have none.
type JobResult string

// Job results
const (
	JobResultSucceeded           JobResult = "succeeded"
	JobResultSucceededWithIssues JobResult = "succeededWithIssues"
	JobResultFailed              JobResult = "failed"
	JobResultCanceled            JobResult = "canceled"
	JobResultSkipped             JobResult = "skipped"
	JobResultAbandoned           JobResult = "abandoned"
)

// JobRequest is a job waiting for, or assigned to, an agent of a pool
type JobRequest struct {
	RequestID int       `json:"requestId"`
	PoolID    int       `json:"poolId"`
	JobID     string    `json:"jobId"`
	PlanID    string    `json:"planId"`
	PlanType  string    `json:"planType"`
	ScopeID   string    `json:"scopeId"`
	HostID    string    `json:"hostId"`
	Result    JobResult `json:"result,omitempty"`

	QueueTime   string `json:"queueTime"`
	AssignTime  string `json:"assignTime,omitempty"`
	ReceiveTime string `json:"receiveTime,omitempty"`
	FinishTime  string `json:"finishTime,omitempty"`

	Demands                []string          `json:"demands"`
	MatchesAllAgentsInPool bool              `json:"matchesAllAgentsInPool"`
	MatchedAgents          []Agent           `json:"matchedAgents"`
	ReservedAgent          *Agent            `json:"reservedAgent,omitempty"`
	ServiceOwner           string            `json:"serviceOwner"`
	OrchestrationID        string            `json:"orchestrationId"`
	Data                   map[string]string `json:"data,omitempty"`
	// Definition is the pipeline definition and Owner the run that queued the job
	Definition *Definition `json:"definition,omitempty"`
	Owner      *Definition `json:"owner,omitempty"`
}

// Finished reports whether the job has completed, whatever its outcome
func (j *JobRequest) Finished() bool {
	return j.Result != "" || j.FinishTime != ""
}

// IsQueuedOrRunning reports whether the job still needs or holds an agent.
// Jobs that no agent of the pool can run are never counted.
func (j *JobRequest) IsQueuedOrRunning() bool {
	return !j.Finished() && len(j.MatchedAgents) > 0
}

// IsQueued reports whether the job is waiting for an agent
func (j *JobRequest) IsQueued() bool {
	return j.IsQueuedOrRunning() && j.ReservedAgent == nil
}
