package azuredevops

import (
	"context"
	"fmt"
	"strconv"
)

// PullRequestStatus is the state of a pull request
type PullRequestStatus string

// Pull request statuses
const (
	PullRequestAbandoned PullRequestStatus = "abandoned"
	PullRequestActive    PullRequestStatus = "active"
	PullRequestAll       PullRequestStatus = "all"
	PullRequestCompleted PullRequestStatus = "completed"
	PullRequestNotSet    PullRequestStatus = "notSet"
)

// PullRequestTimeRangeType selects which date a pull request time range filters on
type PullRequestTimeRangeType string

// Pull request time range types
const (
	PullRequestTimeRangeCreated PullRequestTimeRangeType = "created"
	PullRequestTimeRangeClosed  PullRequestTimeRangeType = "closed"
)

// CommitRef references a commit by ID
type CommitRef struct {
	CommitID string `json:"commitId"`
	URL      string `json:"url,omitempty"`
}

// Reviewer is a reviewer on a pull request
type Reviewer struct {
	IdentityRef
	Vote       int  `json:"vote"`
	IsRequired bool `json:"isRequired,omitempty"`
	IsFlagged  bool `json:"isFlagged,omitempty"`
}

// PullRequest is a pull request
type PullRequest struct {
	PullRequestID         int            `json:"pullRequestId"`
	CodeReviewID          int            `json:"codeReviewId"`
	Status                string         `json:"status"`
	CreatedBy             *IdentityRef   `json:"createdBy"`
	CreationDate          string         `json:"creationDate"`
	ClosedDate            string         `json:"closedDate,omitempty"`
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	SourceRefName         string         `json:"sourceRefName"`
	TargetRefName         string         `json:"targetRefName"`
	MergeStatus           string         `json:"mergeStatus"`
	IsDraft               bool           `json:"isDraft"`
	MergeID               string         `json:"mergeId"`
	LastMergeSourceCommit *CommitRef     `json:"lastMergeSourceCommit"`
	LastMergeTargetCommit *CommitRef     `json:"lastMergeTargetCommit"`
	LastMergeCommit       *CommitRef     `json:"lastMergeCommit"`
	Reviewers             []Reviewer     `json:"reviewers"`
	Repository            *GitRepository `json:"repository"`
	URL                   string         `json:"url"`
	SupportsIterations    bool           `json:"supportsIterations"`
}

// PullRequestIteration is a push to a pull request
type PullRequestIteration struct {
	ID              int          `json:"id"`
	Description     string       `json:"description"`
	Author          *IdentityRef `json:"author"`
	CreatedDate     string       `json:"createdDate"`
	UpdatedDate     string       `json:"updatedDate"`
	SourceRefCommit *CommitRef   `json:"sourceRefCommit"`
	TargetRefCommit *CommitRef   `json:"targetRefCommit"`
	CommonRefCommit *CommitRef   `json:"commonRefCommit"`
	HasMoreCommits  bool         `json:"hasMoreCommits"`
	Reason          string       `json:"reason"`
}

// ResourceRef references a resource, such as a work item linked to a pull request
type ResourceRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PullRequestClient wraps the APIs of a single pull request
type PullRequestClient struct {
	baseClient

	PullRequestID int
	ProjectID     string
	RepositoryID  string
}

func (c *PullRequestClient) url(path string) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: c.ProjectID}) +
		"/git/repositories/" + c.RepositoryID +
		"/pullRequests/" + strconv.Itoa(c.PullRequestID) + path
}

// Details returns the pull request
func (c *PullRequestClient) Details(ctx context.Context) (*PullRequest, error) {
	c.log.Debugf("Getting PR: %d", c.PullRequestID)
	pullRequest := new(PullRequest)
	if err := c.http.getJSON(ctx, c.url("?api-version=3.0-preview"), pullRequest); err != nil {
		return nil, fmt.Errorf("getting pull request %d: %w", c.PullRequestID, err)
	}
	return pullRequest, nil
}

// WorkItems returns the work items linked to the pull request
func (c *PullRequestClient) WorkItems(ctx context.Context) ([]ResourceRef, error) {
	c.log.Debugf("Getting workitems: %d", c.PullRequestID)
	workItems, err := getValue[ResourceRef](ctx, c.http, c.url("/workitems?api-version=5.0"))
	if err != nil {
		return nil, fmt.Errorf("getting work items of pull request %d: %w", c.PullRequestID, err)
	}
	return workItems, nil
}

// Iterations returns the iterations of the pull request
func (c *PullRequestClient) Iterations(ctx context.Context) ([]PullRequestIteration, error) {
	c.log.Debugf("Getting iterations: %d", c.PullRequestID)
	iterations, err := getValue[PullRequestIteration](ctx, c.http, c.url("/iterations?api-version=6.0"))
	if err != nil {
		return nil, fmt.Errorf("getting iterations of pull request %d: %w", c.PullRequestID, err)
	}
	return iterations, nil
}

// Threads returns the comment threads of the pull request. Deleted threads are only included when includeDeleted is set.
func (c *PullRequestClient) Threads(ctx context.Context, includeDeleted bool) ([]Thread, error) {
	c.log.Debugf("Getting threads: %d", c.PullRequestID)
	threads, err := getValue[Thread](ctx, c.http, c.url("/threads?api-version=3.0-preview"))
	if err != nil {
		return nil, fmt.Errorf("getting threads of pull request %d: %w", c.PullRequestID, err)
	}
	if includeDeleted {
		return threads, nil
	}

	active := make([]Thread, 0, len(threads))
	for _, thread := range threads {
		if !thread.IsDeleted {
			active = append(active, thread)
		}
	}
	return active, nil
}

// CreateThreadOptions are the optional arguments when creating a thread
type CreateThreadOptions struct {
	Location *CommentLocation
	// Status defaults to active
	Status CommentStatus
	// CommentIdentifier is stored as a property so the thread can be found later
	CommentIdentifier string
}

// CreateCommentWithText creates a thread with a single root comment
func (c *PullRequestClient) CreateCommentWithText(ctx context.Context, text string, opts CreateThreadOptions) (*Thread, error) {
	c.log.Debugf("Creating comment: (%d) %s", c.PullRequestID, text)
	return c.CreateComment(ctx, NewComment{Content: text, Location: opts.Location}, opts)
}

// CreateComment creates a thread with a single root comment. The comment's location takes precedence over opts.Location.
func (c *PullRequestClient) CreateComment(ctx context.Context, comment NewComment, opts CreateThreadOptions) (*Thread, error) {
	c.log.Debugf("Creating comment: (%d) %s", c.PullRequestID, comment.Content)
	if comment.Location != nil {
		opts.Location = comment.Location
	}
	return c.CreateThread(ctx, []NewComment{comment}, opts)
}

type createThreadRequest struct {
	Comments      []commentRequest                `json:"comments"`
	Properties    map[string]CommentPropertyValue `json:"properties"`
	Status        CommentStatus                   `json:"status"`
	ThreadContext *ThreadContext                  `json:"threadContext,omitempty"`
}

// CreateThread creates a thread. Threads always support markdown.
func (c *PullRequestClient) CreateThread(ctx context.Context, comments []NewComment, opts CreateThreadOptions) (*Thread, error) {
	c.log.Debugf("Creating thread (%d)", c.PullRequestID)

	body := createThreadRequest{
		Comments: make([]commentRequest, 0, len(comments)),
		Properties: map[string]CommentPropertyValue{
			PropertySupportsMarkdown: CommentBoolProperty(true),
		},
		Status: opts.Status,
	}
	for _, comment := range comments {
		body.Comments = append(body.Comments, comment.representation())
	}
	if opts.CommentIdentifier != "" {
		body.Properties[PropertyCommentIdentifier] = CommentStringProperty(opts.CommentIdentifier)
	}
	if body.Status == CommentStatusUnknown {
		body.Status = CommentStatusActive
	}
	if opts.Location != nil {
		body.ThreadContext = opts.Location.threadContext()
	}

	response, err := c.http.Post(ctx, c.url("/threads?api-version=3.0-preview"), body)
	if err != nil {
		return nil, err
	}
	thread := new(Thread)
	if err := c.http.DecodeResponse(response, thread); err != nil {
		return nil, fmt.Errorf("creating thread on pull request %d: %w", c.PullRequestID, err)
	}
	return thread, nil
}

// DeleteThread deletes every comment of a thread, which deletes the thread
func (c *PullRequestClient) DeleteThread(ctx context.Context, thread Thread) error {
	c.log.Debugf("Deleting thread: (%d) %d", c.PullRequestID, thread.ID)

	for _, comment := range thread.Comments {
		c.log.Debugf("Deleting comment: %d", comment.ID)
		requestURL := c.url(fmt.Sprintf("/threads/%d/comments/%d?api-version=3.0-preview", thread.ID, comment.ID))
		response, err := c.http.Delete(ctx, requestURL)
		if err != nil {
			return err
		}
		if err := c.http.CheckResponse(response); err != nil {
			return fmt.Errorf("deleting comment %d of thread %d: %w", comment.ID, thread.ID, err)
		}
	}
	return nil
}

// CreateThreadList creates one thread per comment, all with the same identifier
func (c *PullRequestClient) CreateThreadList(ctx context.Context, threads []NewComment, commentIdentifier string) error {
	c.log.Debugf("Setting threads on PR: %d", c.PullRequestID)

	for _, thread := range threads {
		c.log.Debug("Adding thread")
		if _, err := c.CreateComment(ctx, thread, CreateThreadOptions{CommentIdentifier: commentIdentifier}); err != nil {
			return err
		}
	}
	return nil
}

// Statuses returns the statuses posted on the pull request
func (c *PullRequestClient) Statuses(ctx context.Context) ([]GitStatus, error) {
	c.log.Debugf("Getting PR statuses on PR %d", c.PullRequestID)
	statuses, err := getValue[GitStatus](ctx, c.http, c.url("/statuses?api-version=6.0-preview.1"))
	if err != nil {
		return nil, fmt.Errorf("getting statuses of pull request %d: %w", c.PullRequestID, err)
	}
	return statuses, nil
}

// SetPullRequestStatusOptions are the arguments to SetStatus
type SetPullRequestStatusOptions struct {
	State GitStatusState
	// Identifier is the genre of the status, so it can be changed later
	Identifier  string
	Description string
	Context     string
	Iteration   *int
	TargetURL   *string
}

// SetStatus posts a status on the pull request
func (c *PullRequestClient) SetStatus(ctx context.Context, opts SetPullRequestStatusOptions) (*GitStatus, error) {
	c.log.Debugf("Setting PR status (%s) on PR (%d): %s -> %s", opts.State, c.PullRequestID, opts.Identifier, opts.Description)

	body := JSONObject{
		"state":       opts.State,
		"description": opts.Description,
		"context":     GitStatusContext{Name: opts.Context, Genre: opts.Identifier},
	}
	if opts.Iteration != nil {
		body["iterationId"] = *opts.Iteration
	}
	if opts.TargetURL != nil {
		body["targetUrl"] = *opts.TargetURL
	}

	response, err := c.http.Post(ctx, c.url("/statuses?api-version=4.0-preview"), body)
	if err != nil {
		return nil, err
	}
	status := new(GitStatus)
	if err := c.http.DecodeResponse(response, status); err != nil {
		return nil, fmt.Errorf("setting status on pull request %d: %w", c.PullRequestID, err)
	}
	return status, nil
}

// ThreadsWithIdentifier returns the non-deleted threads created with the given comment identifier
func (c *PullRequestClient) ThreadsWithIdentifier(ctx context.Context, identifier string) ([]Thread, error) {
	c.log.Debugf("Fetching threads with identifier %q on PR %d", identifier, c.PullRequestID)

	threads, err := c.Threads(ctx, false)
	if err != nil {
		return nil, err
	}

	var matching []Thread
	for _, thread := range threads {
		matches, err := thread.matchesIdentifier(identifier)
		if err != nil {
			return nil, err
		}
		if matches {
			matching = append(matching, thread)
		}
	}
	return matching, nil
}

// DeleteThreadsWithIdentifier deletes the threads created with the given comment identifier
func (c *PullRequestClient) DeleteThreadsWithIdentifier(ctx context.Context, identifier string) error {
	c.log.Debugf("Deleting threads with identifier %q on PR %d", identifier, c.PullRequestID)

	threads, err := c.ThreadsWithIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	for _, thread := range threads {
		if err := c.DeleteThread(ctx, thread); err != nil {
			return err
		}
	}
	return nil
}

// Properties returns the properties of the pull request
func (c *PullRequestClient) Properties(ctx context.Context) (map[string]PropertyValue, error) {
	c.log.Debugf("Getting properties: %d", c.PullRequestID)
	response, err := c.http.Get(ctx, c.url("/properties?api-version=5.1-preview.1"))
	if err != nil {
		return nil, err
	}
	properties := map[string]PropertyValue{}
	if err := c.http.extractValue(response, &properties); err != nil {
		return nil, fmt.Errorf("getting properties of pull request %d: %w", c.PullRequestID, err)
	}
	return properties, nil
}

// PatchProperties applies patch operations to the properties and returns the new properties
func (c *PullRequestClient) PatchProperties(ctx context.Context, operations []PatchOperation) (map[string]PropertyValue, error) {
	c.log.Debugf("Patching properties: %d", c.PullRequestID)
	response, err := c.http.PatchOperations(ctx, c.url("/properties?api-version=5.1-preview.1"), operations)
	if err != nil {
		return nil, err
	}
	properties := map[string]PropertyValue{}
	if err := c.http.extractValue(response, &properties); err != nil {
		return nil, fmt.Errorf("patching properties of pull request %d: %w", c.PullRequestID, err)
	}
	return properties, nil
}

// AddProperty adds a property to the pull request
func (c *PullRequestClient) AddProperty(ctx context.Context, name string, value string) (map[string]PropertyValue, error) {
	return c.PatchProperties(ctx, []PatchOperation{AddOperation("/"+name, value)})
}

// DeleteProperty removes a property from the pull request
func (c *PullRequestClient) DeleteProperty(ctx context.Context, name string) (map[string]PropertyValue, error) {
	return c.PatchProperties(ctx, []PatchOperation{RemoveOperation("/" + name)})
}
