package azuredevops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ogmaresca/simple-ado/pkg/auth"
	"github.com/ogmaresca/simple-ado/pkg/logging"
)

type options struct {
	userAgent    string
	extraHeaders map[string]string
	log          *log.Entry
	httpClient   *http.Client
	retry        RetryPolicy
}

// Option configures a Client
type Option func(*options)

// WithUserAgent sets the user agent suffix. Requests are sent with "simple_ado/<userAgent>". Defaults to the tenant.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithExtraHeaders adds headers to every request
func WithExtraHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.extraHeaders = headers
	}
}

// WithLogger sets the parent log entry. The client logs under the "ado" component.
func WithLogger(entry *log.Entry) Option {
	return func(o *options) {
		o.log = entry
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithRetry sets the retry policy
func WithRetry(policy RetryPolicy) Option {
	return func(o *options) {
		o.retry = policy
	}
}

type baseClient struct {
	http *HTTPClient
	log  *log.Entry
}

func newBaseClient(httpClient *HTTPClient, parent *log.Entry, component string) baseClient {
	return baseClient{http: httpClient, log: logging.Child(parent, component)}
}

// Client is the entry point to the Azure Devops API
type Client struct {
	HTTP *HTTPClient

	Audit      *AuditClient
	Builds     *BuildsClient
	Endpoints  *EndpointsClient
	Git        *GitClient
	Governance *GovernanceClient
	Graph      *GraphClient
	Identities *IdentitiesClient
	Pipelines  *PipelinesClient
	Pools      *PoolsClient
	Security   *SecurityClient
	User       *UserClient
	Wiki       *WikiClient
	WorkItems  *WorkItemsClient

	log *log.Entry
}

// NewClient returns a client for the tenant (the Azure Devops organization)
func NewClient(tenant string, authenticator auth.Authenticator, opts ...Option) *Client {
	o := &options{
		userAgent:  tenant,
		httpClient: http.DefaultClient,
		retry:      DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = logging.Root(o.log)

	httpClient := newHTTPClient(tenant, authenticator, o)

	c := &Client{
		HTTP: httpClient,
		log:  o.log,
	}
	c.Audit = &AuditClient{newBaseClient(httpClient, o.log, "audit")}
	c.Builds = &BuildsClient{newBaseClient(httpClient, o.log, "build")}
	c.Endpoints = &EndpointsClient{newBaseClient(httpClient, o.log, "endpoints")}
	c.Git = &GitClient{newBaseClient(httpClient, o.log, "git")}
	c.Governance = &GovernanceClient{newBaseClient(httpClient, o.log, "governance")}
	c.Graph = &GraphClient{newBaseClient(httpClient, o.log, "graph")}
	c.Identities = &IdentitiesClient{newBaseClient(httpClient, o.log, "identities")}
	c.Pipelines = &PipelinesClient{newBaseClient(httpClient, o.log, "pipelines")}
	c.Pools = &PoolsClient{newBaseClient(httpClient, o.log, "pools")}
	c.Security = &SecurityClient{newBaseClient(httpClient, o.log, "security")}
	c.User = &UserClient{newBaseClient(httpClient, o.log, "user")}
	c.Wiki = &WikiClient{newBaseClient(httpClient, o.log, "wiki")}
	c.WorkItems = &WorkItemsClient{newBaseClient(httpClient, o.log, "workitems")}
	return c
}

// VerifyAccess returns true if the credentials can list the projects of the tenant
func (c *Client) VerifyAccess(ctx context.Context) bool {
	requestURL := c.HTTP.APIEndpoint(Endpoint{NoDefaultCollection: true}) + "/projects?api-version=6.0"

	if _, err := getValue[ProjectRef](ctx, c.HTTP, requestURL); err != nil {
		c.log.Debugf("Access verification failed: %s", err.Error())
		return false
	}
	return true
}

// CreatePullRequestOptions are the arguments to CreatePullRequest
type CreatePullRequestOptions struct {
	ProjectID    string
	RepositoryID string
	SourceBranch string
	TargetBranch string
	Title        *string
	Description  *string
	ReviewerIDs  []string
}

type reviewerID struct {
	ID string `json:"id"`
}

// CreatePullRequest creates a pull request. Branch names are prefixed with refs/heads/ if needed.
func (c *Client) CreatePullRequest(ctx context.Context, opts CreatePullRequestOptions) (*PullRequest, error) {
	c.log.Debug("Creating pull request")

	requestURL := c.HTTP.APIEndpoint(Endpoint{ProjectID: opts.ProjectID}) +
		"/git/repositories/" + opts.RepositoryID + "/pullRequests?api-version=5.1"

	body := JSONObject{
		"sourceRefName": canonicalizeBranchName(opts.SourceBranch),
		"targetRefName": canonicalizeBranchName(opts.TargetBranch),
	}
	if opts.Title != nil {
		body["title"] = *opts.Title
	}
	if opts.Description != nil {
		body["description"] = *opts.Description
	}
	if len(opts.ReviewerIDs) > 0 {
		reviewers := make([]reviewerID, 0, len(opts.ReviewerIDs))
		for _, id := range opts.ReviewerIDs {
			reviewers = append(reviewers, reviewerID{ID: id})
		}
		body["reviewers"] = reviewers
	}

	response, err := c.HTTP.Post(ctx, requestURL, body)
	if err != nil {
		return nil, err
	}
	pullRequest := new(PullRequest)
	if err := c.HTTP.DecodeResponse(response, pullRequest); err != nil {
		return nil, fmt.Errorf("creating pull request from %s to %s: %w", opts.SourceBranch, opts.TargetBranch, err)
	}
	return pullRequest, nil
}

// PullRequest returns a client for a single pull request
func (c *Client) PullRequest(pullRequestID int, projectID string, repositoryID string) *PullRequestClient {
	return &PullRequestClient{
		baseClient:    newBaseClient(c.HTTP, c.log, "pr."+strconv.Itoa(pullRequestID)),
		PullRequestID: pullRequestID,
		ProjectID:     projectID,
		RepositoryID:  repositoryID,
	}
}

// ListPullRequestsOptions are the arguments to ListAllPullRequests
type ListPullRequestsOptions struct {
	ProjectID    string
	RepositoryID string
	// BranchName filters on the source branch
	BranchName *string
	// Top is the page size
	Top    int
	Status PullRequestStatus
}

// ListAllPullRequests pages through the pull requests of a repository until an empty page is returned
func (c *Client) ListAllPullRequests(ctx context.Context, opts ListPullRequestsOptions) ([]PullRequest, error) {
	c.log.Debug("Fetching PRs")

	var all []PullRequest
	offset := 0
	for {
		parameters := url.Values{}
		parameters.Set("$skip", strconv.Itoa(offset))
		if opts.Top > 0 {
			parameters.Set("$top", strconv.Itoa(opts.Top))
		}
		if opts.Status != "" {
			parameters.Set("searchCriteria.status", string(opts.Status))
		}

		requestURL := c.HTTP.APIEndpoint(Endpoint{ProjectID: opts.ProjectID}) +
			"/git/repositories/" + opts.RepositoryID + "/pullRequests?" + parameters.Encode()
		if opts.BranchName != nil {
			requestURL += "&sourceRefName=" + canonicalizeBranchName(*opts.BranchName)
		}
		requestURL += "&api-version=3.0-preview"

		page, err := getValue[PullRequest](ctx, c.HTTP, requestURL)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		offset += len(page)
	}
}

// CustomGetOptions are the arguments to CustomGet
type CustomGetOptions struct {
	// URLFragment is the part of the URL after _apis/
	URLFragment string
	Parameters  url.Values
	Endpoint    Endpoint
}

// CustomGet issues an arbitrary GET request under the API endpoint and returns the raw response
func (c *Client) CustomGet(ctx context.Context, opts CustomGetOptions) (*http.Response, error) {
	requestURL := c.HTTP.APIEndpoint(opts.Endpoint) + "/" + opts.URLFragment + "?" + opts.Parameters.Encode()
	return c.HTTP.Get(ctx, requestURL)
}

func canonicalizeBranchName(branchName string) string {
	if !strings.HasPrefix(branchName, "refs/heads/") {
		return "refs/heads/" + branchName
	}
	return branchName
}
