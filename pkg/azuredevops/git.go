package azuredevops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strconv"
)

const emptyObjectID = "0000000000000000000000000000000000000000"

const diffPageSize = 100

// GitStatusState is the state of a commit or pull request status
type GitStatusState string

// Git status states
const (
	GitStatusNotSet        GitStatusState = "notSet"
	GitStatusNotApplicable GitStatusState = "notApplicable"
	GitStatusPending       GitStatusState = "pending"
	GitStatusSucceeded     GitStatusState = "succeeded"
	GitStatusFailed        GitStatusState = "failed"
	GitStatusError         GitStatusState = "error"
)

// RecursionType is the level of recursion used when getting an item
type RecursionType string

// Recursion types
const (
	RecursionFull                           RecursionType = "full"
	RecursionNone                           RecursionType = "none"
	RecursionOneLevel                       RecursionType = "oneLevel"
	RecursionOneLevelPlusNestedEmptyFolders RecursionType = "oneLevelPlusNestedEmptyFolders"
)

// GitVersionOptions modifies how a version is resolved
type GitVersionOptions string

// Git version options
const (
	GitVersionOptionFirstParent    GitVersionOptions = "firstParent"
	GitVersionOptionNone           GitVersionOptions = "none"
	GitVersionOptionPreviousChange GitVersionOptions = "previousChange"
)

// GitVersionType determines how a version is interpreted
type GitVersionType string

// Git version types
const (
	GitVersionBranch GitVersionType = "branch"
	GitVersionCommit GitVersionType = "commit"
	GitVersionTag    GitVersionType = "tag"
)

// BlobFormat is the format a blob is returned in
type BlobFormat string

// Blob formats
const (
	BlobFormatJSON        BlobFormat = "json"
	BlobFormatZip         BlobFormat = "zip"
	BlobFormatText        BlobFormat = "text"
	BlobFormatOctetStream BlobFormat = "octetstream"
)

// GitRepository is a git repository
type GitRepository struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	URL           string      `json:"url"`
	Project       *ProjectRef `json:"project"`
	DefaultBranch string      `json:"defaultBranch"`
	Size          int64       `json:"size"`
	RemoteURL     string      `json:"remoteUrl"`
	SSHURL        string      `json:"sshUrl"`
	WebURL        string      `json:"webUrl"`
	IsDisabled    bool        `json:"isDisabled"`
}

// GitStatusContext identifies a status so it can be updated later
type GitStatusContext struct {
	Name  string `json:"name"`
	Genre string `json:"genre"`
}

// GitStatus is a status posted on a commit or pull request
type GitStatus struct {
	ID           int              `json:"id,omitempty"`
	State        GitStatusState   `json:"state"`
	Description  string           `json:"description"`
	Context      GitStatusContext `json:"context"`
	TargetURL    string           `json:"targetUrl,omitempty"`
	CreationDate string           `json:"creationDate,omitempty"`
	UpdatedDate  string           `json:"updatedDate,omitempty"`
	CreatedBy    *IdentityRef     `json:"createdBy,omitempty"`
	IterationID  int              `json:"iterationId,omitempty"`
}

// GitChange is a single changed item
type GitChange struct {
	ChangeType string `json:"changeType"`
	Item       struct {
		ObjectID      string `json:"objectId"`
		OriginalObjID string `json:"originalObjectId"`
		GitObjectType string `json:"gitObjectType"`
		CommitID      string `json:"commitId"`
		Path          string `json:"path"`
		IsFolder      bool   `json:"isFolder"`
		URL           string `json:"url"`
	} `json:"item"`
	SourceServerItem string `json:"sourceServerItem,omitempty"`
	OriginalPath     string `json:"originalPath,omitempty"`
}

// GitCommitDiffs is the difference between two commits
type GitCommitDiffs struct {
	AllChangesIncluded bool           `json:"allChangesIncluded"`
	BaseCommit         string         `json:"baseCommit"`
	TargetCommit       string         `json:"targetCommit"`
	CommonCommit       string         `json:"commonCommit"`
	AheadCount         int            `json:"aheadCount"`
	BehindCount        int            `json:"behindCount"`
	ChangeCounts       map[string]int `json:"changeCounts"`
	Changes            []GitChange    `json:"changes"`
}

// GitRef is a branch or tag
type GitRef struct {
	Name           string       `json:"name"`
	ObjectID       string       `json:"objectId"`
	PeeledObjectID string       `json:"peeledObjectId,omitempty"`
	Creator        *IdentityRef `json:"creator"`
	URL            string       `json:"url"`
	Statuses       []GitStatus  `json:"statuses,omitempty"`
	IsLocked       bool         `json:"isLocked,omitempty"`
}

// GitUserDate is the author or committer of a commit
type GitUserDate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Date     string `json:"date"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// GitCommit is a commit
type GitCommit struct {
	CommitID     string         `json:"commitId"`
	Author       GitUserDate    `json:"author"`
	Committer    GitUserDate    `json:"committer"`
	Comment      string         `json:"comment"`
	Parents      []string       `json:"parents,omitempty"`
	URL          string         `json:"url"`
	RemoteURL    string         `json:"remoteUrl,omitempty"`
	ChangeCounts map[string]int `json:"changeCounts,omitempty"`
	Changes      []GitChange    `json:"changes,omitempty"`
	WorkItems    []struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"workItems,omitempty"`
}

// GitBranchStats is the ahead/behind count of a branch against the default branch
type GitBranchStats struct {
	Name          string    `json:"name"`
	AheadCount    int       `json:"aheadCount"`
	BehindCount   int       `json:"behindCount"`
	IsBaseVersion bool      `json:"isBaseVersion"`
	Commit        GitCommit `json:"commit"`
}

// GitItem is a file or folder in a repository
type GitItem struct {
	ObjectID        string          `json:"objectId"`
	GitObjectType   string          `json:"gitObjectType"`
	CommitID        string          `json:"commitId"`
	Path            string          `json:"path"`
	IsFolder        bool            `json:"isFolder,omitempty"`
	Content         string          `json:"content,omitempty"`
	ContentMetadata json.RawMessage `json:"contentMetadata,omitempty"`
	URL             string          `json:"url"`
}

// GitRefUpdate moves a ref from one object to another. Empty object IDs are sent as all zeros.
type GitRefUpdate struct {
	Name        string `json:"name"`
	OldObjectID string `json:"oldObjectId"`
	NewObjectID string `json:"newObjectId"`
}

// GitRefUpdateResult is the outcome of a single ref update
type GitRefUpdateResult struct {
	Name           string `json:"name"`
	OldObjectID    string `json:"oldObjectId"`
	NewObjectID    string `json:"newObjectId"`
	Success        bool   `json:"success"`
	UpdateStatus   string `json:"updateStatus"`
	RepositoryID   string `json:"repositoryId"`
	IsLocked       bool   `json:"isLocked"`
	CustomMessage  string `json:"customMessage,omitempty"`
	RejectedBy     string `json:"rejectedBy,omitempty"`
	RejectedByName string `json:"rejectedByName,omitempty"`
}

// GitClient wraps the git APIs
type GitClient struct {
	baseClient
}

func (c *GitClient) repositoryURL(projectID string, repositoryID string) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/git/repositories/" + repositoryID
}

// ListRepositories returns the repositories of a project
func (c *GitClient) ListRepositories(ctx context.Context, projectID string) ([]GitRepository, error) {
	c.log.Debug("Getting repositories")
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/git/repositories/?api-version=1.0"
	repositories, err := getValue[GitRepository](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}
	return repositories, nil
}

// GetRepository returns a single repository
func (c *GitClient) GetRepository(ctx context.Context, projectID string, repositoryID string) (*GitRepository, error) {
	c.log.Debugf("Getting repository %s", repositoryID)
	requestURL := c.repositoryURL(projectID, repositoryID) + "?api-version=6.0"
	repository := new(GitRepository)
	if err := c.http.getJSON(ctx, requestURL, repository); err != nil {
		return nil, fmt.Errorf("getting repository %s: %w", repositoryID, err)
	}
	return repository, nil
}

func validateSHA(sha string) error {
	if len(sha) != 40 {
		return fmt.Errorf("%w: the SHA for a commit must be the full 40 character version, got %q", ErrInvalidArgument, sha)
	}
	return nil
}

// GetStatuses returns the statuses of a commit
func (c *GitClient) GetStatuses(ctx context.Context, projectID string, repositoryID string, sha string) ([]GitStatus, error) {
	c.log.Debugf("Getting status for sha: %s", sha)
	if err := validateSHA(sha); err != nil {
		return nil, err
	}

	requestURL := c.repositoryURL(projectID, repositoryID) + "/commits/" + sha + "/statuses?api-version=2.1"
	statuses, err := getValue[GitStatus](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting statuses of %s: %w", sha, err)
	}
	return statuses, nil
}

// SetCommitStatusOptions are the arguments to SetStatus
type SetCommitStatusOptions struct {
	ProjectID    string
	RepositoryID string
	SHA          string
	State        GitStatusState
	// Identifier is the genre of the status, so it can be changed later
	Identifier  string
	Description string
	// Context is the name of the status
	Context   string
	TargetURL *string
}

// SetStatus posts a status on a commit
func (c *GitClient) SetStatus(ctx context.Context, opts SetCommitStatusOptions) (*GitStatus, error) {
	c.log.Debugf("Setting status (%s) on sha (%s): %s -> %s", opts.State, opts.SHA, opts.Identifier, opts.Description)

	if err := validateSHA(opts.SHA); err != nil {
		return nil, err
	}
	if opts.State == GitStatusNotSet {
		return nil, fmt.Errorf("%w: the %s state cannot be used for statuses on commits", ErrInvalidArgument, GitStatusNotSet)
	}

	requestURL := c.repositoryURL(opts.ProjectID, opts.RepositoryID) + "/commits/" + opts.SHA + "/statuses?api-version=2.1"

	body := GitStatus{
		State:       opts.State,
		Description: opts.Description,
		Context:     GitStatusContext{Name: opts.Context, Genre: opts.Identifier},
	}
	if opts.TargetURL != nil {
		body.TargetURL = *opts.TargetURL
	}

	response, err := c.http.Post(ctx, requestURL, body)
	if err != nil {
		return nil, err
	}
	status := new(GitStatus)
	if err := c.http.DecodeResponse(response, status); err != nil {
		return nil, fmt.Errorf("setting status on %s: %w", opts.SHA, err)
	}
	return status, nil
}

// DiffBetweenCommits returns every change between two commits, fetching pages of 100 changes until all are included
func (c *GitClient) DiffBetweenCommits(ctx context.Context, projectID string, repositoryID string, baseCommit string, targetCommit string) (*GitCommitDiffs, error) {
	c.log.Debugf("Fetching commit diff: %s..%s", baseCommit, targetCommit)

	baseURL := c.repositoryURL(projectID, repositoryID) + "/diffs/commits?"

	var changes []GitChange
	for skip := 0; ; skip += diffPageSize {
		parameters := url.Values{}
		parameters.Set("api-version", "5.1")
		parameters.Set("baseVersionType", "commit")
		parameters.Set("baseVersion", baseCommit)
		parameters.Set("targetVersionType", "commit")
		parameters.Set("targetVersion", targetCommit)
		parameters.Set("$skip", strconv.Itoa(skip))
		parameters.Set("$top", strconv.Itoa(diffPageSize))

		diffs := new(GitCommitDiffs)
		if err := c.http.getJSON(ctx, baseURL+parameters.Encode(), diffs); err != nil {
			return nil, fmt.Errorf("diffing %s..%s: %w", baseCommit, targetCommit, err)
		}
		changes = append(changes, diffs.Changes...)

		if diffs.AllChangesIncluded {
			diffs.Changes = changes
			return diffs, nil
		}
	}
}

// DownloadZip downloads a zip of a branch. The output path must not already exist.
func (c *GitClient) DownloadZip(ctx context.Context, projectID string, repositoryID string, branch string, outputPath string, progress func(downloaded int64, total int64)) error {
	c.log.Debugf("Downloading branch: %s", branch)

	parameters := url.Values{}
	parameters.Set("path", "/")
	parameters.Set("versionDescriptor[versionOptions]", "0")
	parameters.Set("versionDescriptor[versionType]", "0")
	parameters.Set("versionDescriptor[version]", branch)
	parameters.Set("resolveLfs", "true")
	parameters.Set("$format", "zip")
	parameters.Set("api-version", "5.0-preview.1")
	requestURL := c.repositoryURL(projectID, repositoryID) + "/Items?" + parameters.Encode()

	if err := ensureNotExists(outputPath); err != nil {
		return err
	}

	response, err := c.http.Get(ctx, requestURL)
	if err != nil {
		return err
	}
	return c.http.DownloadToFile(response, outputPath, progress)
}

// GetRefsOptions are the arguments to GetRefs. Unset options use the server default.
type GetRefsOptions struct {
	ProjectID          string
	RepositoryID       string
	FilterStartsWith   string
	FilterContains     string
	IncludeLinks       bool
	IncludeStatuses    bool
	IncludeMyBranches  bool
	LatestStatusesOnly bool
	PeelTags           bool
	// Top cannot be more than 1000
	Top               int
	ContinuationToken string
}

// GetRefs returns the refs of a repository
func (c *GitClient) GetRefs(ctx context.Context, opts GetRefsOptions) ([]GitRef, error) {
	c.log.Debug("Getting refs")

	parameters := url.Values{}
	if opts.FilterStartsWith != "" {
		parameters.Set("filter", opts.FilterStartsWith)
	}
	if opts.FilterContains != "" {
		parameters.Set("filterContains", opts.FilterContains)
	}
	if opts.IncludeLinks {
		parameters.Set("includeLinks", "true")
	}
	if opts.IncludeStatuses {
		parameters.Set("includeStatuses", "true")
	}
	if opts.IncludeMyBranches {
		parameters.Set("includeMyBranches", "true")
	}
	if opts.LatestStatusesOnly {
		parameters.Set("latestStatusesOnly", "true")
	}
	if opts.PeelTags {
		parameters.Set("peelTags", "true")
	}
	if opts.Top > 0 {
		parameters.Set("$top", strconv.Itoa(opts.Top))
	}
	if opts.ContinuationToken != "" {
		parameters.Set("continuationToken", opts.ContinuationToken)
	}

	requestURL := c.repositoryURL(opts.ProjectID, opts.RepositoryID) + "/refs?" + parameters.Encode()
	if len(parameters) > 0 {
		requestURL += "&"
	}
	requestURL += "api-version=5.0"

	refs, err := getValue[GitRef](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting refs: %w", err)
	}
	return refs, nil
}

// GetBranchStats returns the stats of a branch
func (c *GitClient) GetBranchStats(ctx context.Context, projectID string, repositoryID string, branchName string) (*GitBranchStats, error) {
	c.log.Debug("Getting stats")
	requestURL := c.repositoryURL(projectID, repositoryID) + "/stats/branches?name=" + branchName + "&api-version=6.0"
	stats := new(GitBranchStats)
	if err := c.http.getJSON(ctx, requestURL, stats); err != nil {
		return nil, fmt.Errorf("getting stats of branch %s: %w", branchName, err)
	}
	return stats, nil
}

// GetCommit returns a single commit. changeCount limits the number of changes included when positive.
func (c *GitClient) GetCommit(ctx context.Context, projectID string, repositoryID string, commitID string, changeCount int) (*GitCommit, error) {
	c.log.Debugf("Getting commit: %s", commitID)
	requestURL := c.repositoryURL(projectID, repositoryID) + "/commits/" + commitID + "?api-version=5.0"
	if changeCount > 0 {
		requestURL += "&changeCount=" + strconv.Itoa(changeCount)
	}
	commit := new(GitCommit)
	if err := c.http.getJSON(ctx, requestURL, commit); err != nil {
		return nil, fmt.Errorf("getting commit %s: %w", commitID, err)
	}
	return commit, nil
}

// GetCommitsOptions is the search criteria for GetCommits. Nil fields use the server default.
type GetCommitsOptions struct {
	ProjectID           string
	RepositoryID        string
	Skip                *int
	Top                 *int
	FromDate            *string
	ToDate              *string
	FromCommitID        *string
	ToCommitID          *string
	Author              *string
	User                *string
	ExcludeDeletes      *bool
	IncludeLinks        *bool
	IncludePushData     *bool
	IncludeUserImageURL *bool
	IncludeWorkItems    *bool
	ItemPath            *string
	ItemVersion         *string
	ItemVersionOptions  *GitVersionOptions
	ItemVersionType     *GitVersionType
}

// GetCommits searches the commits of a repository
func (c *GitClient) GetCommits(ctx context.Context, opts GetCommitsOptions) ([]GitCommit, error) {
	c.log.Debug("Getting commits")

	parameters := url.Values{}
	parameters.Set("api-version", "7.2-preview.2")
	setInt(parameters, "$skip", opts.Skip)
	setInt(parameters, "$top", opts.Top)
	setString(parameters, "fromDate", opts.FromDate)
	setString(parameters, "toDate", opts.ToDate)
	setString(parameters, "fromCommitId", opts.FromCommitID)
	setString(parameters, "toCommitId", opts.ToCommitID)
	setString(parameters, "author", opts.Author)
	setString(parameters, "user", opts.User)
	setBool(parameters, "excludeDeletes", opts.ExcludeDeletes)
	setBool(parameters, "includeLinks", opts.IncludeLinks)
	setBool(parameters, "includePushData", opts.IncludePushData)
	setBool(parameters, "includeUserImageUrl", opts.IncludeUserImageURL)
	setBool(parameters, "includeWorkItems", opts.IncludeWorkItems)
	setString(parameters, "itemPath", opts.ItemPath)
	setString(parameters, "itemVersion.version", opts.ItemVersion)
	if opts.ItemVersionOptions != nil {
		parameters.Set("itemVersion.versionOptions", string(*opts.ItemVersionOptions))
	}
	if opts.ItemVersionType != nil {
		parameters.Set("itemVersion.versionType", string(*opts.ItemVersionType))
	}

	requestURL := c.repositoryURL(opts.ProjectID, opts.RepositoryID) + "/commits?" + parameters.Encode()
	commits, err := getValue[GitCommit](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting commits: %w", err)
	}
	return commits, nil
}

// UpdateRefs applies a list of ref updates
func (c *GitClient) UpdateRefs(ctx context.Context, projectID string, repositoryID string, updates []GitRefUpdate) ([]GitRefUpdateResult, error) {
	c.log.Debug("Updating references")

	body := make([]GitRefUpdate, len(updates))
	for i, update := range updates {
		if update.OldObjectID == "" {
			update.OldObjectID = emptyObjectID
		}
		if update.NewObjectID == "" {
			update.NewObjectID = emptyObjectID
		}
		body[i] = update
	}

	requestURL := c.repositoryURL(projectID, repositoryID) + "/refs?api-version=5.0"
	response, err := c.http.Post(ctx, requestURL, body)
	if err != nil {
		return nil, err
	}
	results, err := decodeValue[GitRefUpdateResult](c.http, response)
	if err != nil {
		return nil, fmt.Errorf("updating refs: %w", err)
	}
	return results, nil
}

// DeleteBranch deletes a branch by pointing it at the empty object ID.
// branchName is the full name, such as refs/heads/my_branch.
func (c *GitClient) DeleteBranch(ctx context.Context, projectID string, repositoryID string, branchName string, objectID string) ([]GitRefUpdateResult, error) {
	return c.UpdateRefs(ctx, projectID, repositoryID, []GitRefUpdate{{Name: branchName, OldObjectID: objectID}})
}

// GetItemOptions are the arguments to GetItem. Nil fields use the server default.
type GetItemOptions struct {
	ProjectID              string
	RepositoryID           string
	Path                   string
	ScopePath              *string
	RecursionLevel         *RecursionType
	IncludeContentMetadata *bool
	LatestProcessedChange  *bool
	VersionOptions         *GitVersionOptions
	Version                *string
	VersionType            *GitVersionType
	IncludeContent         *bool
	ResolveLFS             *bool
}

// GetItem returns a file or folder
func (c *GitClient) GetItem(ctx context.Context, opts GetItemOptions) (*GitItem, error) {
	c.log.Debug("Getting item")

	parameters := url.Values{}
	parameters.Set("path", opts.Path)
	parameters.Set("api-version", "5.1")
	setString(parameters, "scopePath", opts.ScopePath)
	if opts.RecursionLevel != nil {
		parameters.Set("recursionLevel", string(*opts.RecursionLevel))
	}
	setBool(parameters, "includeContentMetadata", opts.IncludeContentMetadata)
	setBool(parameters, "latestProcessedChange", opts.LatestProcessedChange)
	if opts.VersionOptions != nil {
		parameters.Set("versionDescriptor.versionOptions", string(*opts.VersionOptions))
	}
	setString(parameters, "versionDescriptor.version", opts.Version)
	if opts.VersionType != nil {
		parameters.Set("versionDescriptor.versionType", string(*opts.VersionType))
	}
	setBool(parameters, "includeContent", opts.IncludeContent)
	setBool(parameters, "resolveLfs", opts.ResolveLFS)

	requestURL := c.repositoryURL(opts.ProjectID, opts.RepositoryID) + "/items?" + parameters.Encode()
	item := new(GitItem)
	if err := c.http.getJSON(ctx, requestURL, item); err != nil {
		return nil, fmt.Errorf("getting item %s: %w", opts.Path, err)
	}
	return item, nil
}

// GetBlobOptions are the arguments to GetBlob. Nil fields use the server default.
type GetBlobOptions struct {
	ProjectID    string
	RepositoryID string
	BlobID       string
	Format       *BlobFormat
	Download     *bool
	FileName     *string
	ResolveLFS   *bool
}

// GetBlob returns the raw content of a blob, in whichever format was requested
func (c *GitClient) GetBlob(ctx context.Context, opts GetBlobOptions) ([]byte, error) {
	c.log.Debug("Getting blob")

	parameters := url.Values{}
	parameters.Set("api-version", "5.1")
	if opts.Format != nil {
		parameters.Set("$format", string(*opts.Format))
	}
	setBool(parameters, "download", opts.Download)
	setString(parameters, "fileName", opts.FileName)
	setBool(parameters, "resolveLfs", opts.ResolveLFS)

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: opts.ProjectID, NoDefaultCollection: true}) +
		"/git/repositories/" + opts.RepositoryID + "/blobs/" + opts.BlobID + "?" + parameters.Encode()

	response, err := c.http.Get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	if err := c.http.ValidateResponse(response); err != nil {
		return nil, fmt.Errorf("getting blob %s: %w", opts.BlobID, err)
	}
	defer response.Body.Close()
	return io.ReadAll(response.Body)
}

// GetBlobs downloads a zip of several blobs. The output path must not already exist.
func (c *GitClient) GetBlobs(ctx context.Context, projectID string, repositoryID string, blobIDs []string, outputPath string) error {
	c.log.Debug("Getting blobs")

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID, NoDefaultCollection: true}) +
		"/git/repositories/" + repositoryID + "/blobs?api-version=5.1"

	if err := ensureNotExists(outputPath); err != nil {
		return err
	}

	response, err := c.http.Post(ctx, requestURL, blobIDs, WithHeader("Accept", "application/zip"))
	if err != nil {
		return err
	}
	return c.http.DownloadToFile(response, outputPath, nil)
}

func ensureNotExists(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return nil
}

func setString(parameters url.Values, key string, value *string) {
	if value != nil {
		parameters.Set(key, *value)
	}
}

func setInt(parameters url.Values, key string, value *int) {
	if value != nil {
		parameters.Set(key, strconv.Itoa(*value))
	}
}

func setBool(parameters url.Values, key string, value *bool) {
	if value != nil {
		parameters.Set(key, strconv.FormatBool(*value))
	}
}
