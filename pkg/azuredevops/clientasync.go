package azuredevops

import "context"

// Result is the outcome of a request run in the background
type Result[T any] struct {
	Value T
	Err   error
}

// goResult runs fetch on its own goroutine. The returned channel receives exactly one result.
func goResult[T any](fetch func() (T, error)) <-chan Result[T] {
	results := make(chan Result[T], 1)
	go func() {
		value, err := fetch()
		results <- Result[T]{Value: value, Err: err}
	}()
	return results
}

// PoolsAsync issues pool requests concurrently
type PoolsAsync struct {
	client PoolsAPI
}

// NewPoolsAsync wraps a pools client
func NewPoolsAsync(client PoolsAPI) PoolsAsync {
	return PoolsAsync{client: client}
}

// Pools lists the agent pools in the background
func (c PoolsAsync) Pools(ctx context.Context, opts GetPoolsOptions) <-chan Result[[]PoolDetails] {
	return goResult(func() ([]PoolDetails, error) {
		return c.client.GetPools(ctx, opts)
	})
}

// Agents lists the agents of a pool in the background
func (c PoolsAsync) Agents(ctx context.Context, poolID int, opts GetAgentsOptions) <-chan Result[[]AgentDetails] {
	return goResult(func() ([]AgentDetails, error) {
		return c.client.GetAgents(ctx, poolID, opts)
	})
}

// Agent gets a single agent in the background
func (c PoolsAsync) Agent(ctx context.Context, poolID int, agentID int) <-chan Result[*AgentDetails] {
	return goResult(func() (*AgentDetails, error) {
		return c.client.GetAgent(ctx, poolID, agentID)
	})
}

// JobRequests lists the job requests of a pool in the background
func (c PoolsAsync) JobRequests(ctx context.Context, poolID int) <-chan Result[[]JobRequest] {
	return goResult(func() ([]JobRequest, error) {
		return c.client.ListJobRequests(ctx, poolID)
	})
}
