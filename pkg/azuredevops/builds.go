package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ogmaresca/simple-ado/pkg/collections"
)

// BuildQueryOrder is the order builds are returned in
type BuildQueryOrder string

// Build query orders
const (
	BuildOrderFinishTimeAscending  BuildQueryOrder = "finishTimeAscending"
	BuildOrderFinishTimeDescending BuildQueryOrder = "finishTimeDescending"
	BuildOrderQueueTimeAscending   BuildQueryOrder = "queueTimeAscending"
	BuildOrderQueueTimeDescending  BuildQueryOrder = "queueTimeDescending"
	BuildOrderStartTimeAscending   BuildQueryOrder = "startTimeAscending"
	BuildOrderStartTimeDescending  BuildQueryOrder = "startTimeDescending"
)

// Build is a queued, running, or completed build
type Build struct {
	ID            int          `json:"id"`
	BuildNumber   string       `json:"buildNumber"`
	Status        string       `json:"status"`
	Result        string       `json:"result"`
	QueueTime     string       `json:"queueTime"`
	StartTime     string       `json:"startTime"`
	FinishTime    string       `json:"finishTime"`
	URL           string       `json:"url"`
	Definition    Definition   `json:"definition"`
	Project       *ProjectRef  `json:"project"`
	SourceBranch  string       `json:"sourceBranch"`
	SourceVersion string       `json:"sourceVersion"`
	Reason        string       `json:"reason"`
	Parameters    string       `json:"parameters"`
	RequestedFor  *IdentityRef `json:"requestedFor"`
	RequestedBy   *IdentityRef `json:"requestedBy"`
	Links         Links        `json:"_links"`
}

// BuildArtifact is an artifact published by a build
type BuildArtifact struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Source   string `json:"source"`
	Resource struct {
		Type        string `json:"type"`
		Data        string `json:"data"`
		URL         string `json:"url"`
		DownloadURL string `json:"downloadUrl"`
	} `json:"resource"`
}

// RetentionLease stops a build from being deleted by retention policies
type RetentionLease struct {
	LeaseID         int    `json:"leaseId"`
	OwnerID         string `json:"ownerId"`
	RunID           int    `json:"runId"`
	DefinitionID    int    `json:"definitionId"`
	CreatedOn       string `json:"createdOn"`
	ValidUntil      string `json:"validUntil"`
	ProtectPipeline bool   `json:"protectPipeline"`
}

// BuildDefinition is a build pipeline definition
type BuildDefinition struct {
	Definition
	Path        string          `json:"path"`
	Type        string          `json:"type"`
	QueueStatus string          `json:"queueStatus"`
	Revision    int             `json:"revision"`
	URL         string          `json:"url"`
	Project     *ProjectRef     `json:"project"`
	Repository  json.RawMessage `json:"repository,omitempty"`
	Process     json.RawMessage `json:"process,omitempty"`
}

// BuildsClient wraps the build APIs
type BuildsClient struct {
	baseClient
}

// QueueBuildOptions are the arguments to QueueBuild
type QueueBuildOptions struct {
	ProjectID    string
	DefinitionID int
	SourceBranch string
	Variables    map[string]string
	// RequestingIdentity is the user the build is queued on behalf of
	RequestingIdentity *TeamFoundationID
}

// QueueBuild queues a new build
func (c *BuildsClient) QueueBuild(ctx context.Context, opts QueueBuildOptions) (*Build, error) {
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: opts.ProjectID}) + "/build/builds?api-version=4.1"

	variables := opts.Variables
	if variables == nil {
		variables = map[string]string{}
	}
	variableJSON, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("encoding build variables: %w", err)
	}

	c.log.Debugf("Queueing build (%d): %s", opts.DefinitionID, variableJSON)

	body := JSONObject{
		"parameters":   string(variableJSON),
		"definition":   JSONObject{"id": opts.DefinitionID},
		"sourceBranch": opts.SourceBranch,
	}
	if opts.RequestingIdentity != nil {
		body["requestedFor"] = JSONObject{"id": opts.RequestingIdentity.String()}
	}

	response, err := c.http.Post(ctx, requestURL, body)
	if err != nil {
		return nil, err
	}
	build := new(Build)
	if err := c.http.DecodeResponse(response, build); err != nil {
		return nil, fmt.Errorf("queueing build for definition %d: %w", opts.DefinitionID, err)
	}
	return build, nil
}

// GetBuild returns a single build
func (c *BuildsClient) GetBuild(ctx context.Context, projectID string, buildID int) (*Build, error) {
	requestURL := fmt.Sprintf("%s/build/builds/%d?api-version=4.1", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), buildID)
	build := new(Build)
	if err := c.http.getJSON(ctx, requestURL, build); err != nil {
		return nil, fmt.Errorf("getting build %d: %w", buildID, err)
	}
	return build, nil
}

// ListBuildsOptions are the arguments to ListBuilds
type ListBuildsOptions struct {
	ProjectID   string
	Definitions []int
	Order       BuildQueryOrder
}

// ListBuilds returns all builds, following continuation tokens
func (c *BuildsClient) ListBuilds(ctx context.Context, opts ListBuildsOptions) ([]Build, error) {
	parameters := url.Values{}
	parameters.Set("api-version", "4.1")
	if len(opts.Definitions) > 0 {
		parameters.Set("definitions", joinInts(opts.Definitions))
	}
	if opts.Order != "" {
		parameters.Set("queryOrder", string(opts.Order))
	}
	baseURL := c.http.APIEndpoint(Endpoint{ProjectID: opts.ProjectID}) + "/build/builds/?" + parameters.Encode()

	builds, err := getAllPages[Build](ctx, c.http, baseURL)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	return builds, nil
}

// ListArtifacts returns the artifacts published by a build
func (c *BuildsClient) ListArtifacts(ctx context.Context, projectID string, buildID int) ([]BuildArtifact, error) {
	requestURL := fmt.Sprintf("%s/build/builds/%d/artifacts?api-version=4.1", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), buildID)
	artifacts, err := getValue[BuildArtifact](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts of build %d: %w", buildID, err)
	}
	return artifacts, nil
}

// GetArtifact returns the details of a build artifact
func (c *BuildsClient) GetArtifact(ctx context.Context, projectID string, buildID int, artifactName string) (*BuildArtifact, error) {
	parameters := url.Values{}
	parameters.Set("artifactName", artifactName)
	parameters.Set("api-version", "4.1")
	requestURL := fmt.Sprintf("%s/build/builds/%d/artifacts?%s", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), buildID, parameters.Encode())

	c.log.Debugf("Fetching artifact %s from build %d...", artifactName, buildID)

	artifact := new(BuildArtifact)
	if err := c.http.getJSON(ctx, requestURL, artifact); err != nil {
		return nil, fmt.Errorf("getting artifact %s of build %d: %w", artifactName, buildID, err)
	}
	return artifact, nil
}

// maxArtifactRedirects is the most redirects DownloadArtifact follows
const maxArtifactRedirects = 10

// DownloadArtifact downloads a build artifact as a zip file.
// Redirects are followed manually so the credentials are only ever sent to visualstudio.com hosts.
func (c *BuildsClient) DownloadArtifact(ctx context.Context, projectID string, buildID int, artifactName string, outputPath string) error {
	parameters := url.Values{}
	parameters.Set("artifactName", artifactName)
	parameters.Set("$format", "zip")
	parameters.Set("api-version", "4.1")
	requestURL := fmt.Sprintf("%s/build/builds/%d/artifacts?%s", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), buildID, parameters.Encode())

	c.log.Debugf("Fetching artifact %s from build %d...", artifactName, buildID)

	response, err := c.http.Get(ctx, requestURL, WithoutRedirects())
	if err != nil {
		return err
	}

	for redirects := 0; isRedirect(response.StatusCode); redirects++ {
		location := response.Header.Get("Location")
		redirectErr := NewHTTPError(response)
		response.Body.Close()

		if redirects >= maxArtifactRedirects {
			return fmt.Errorf("%w: more than %d redirects downloading artifact %s", ErrInvalidResponse, maxArtifactRedirects, artifactName)
		}
		if location == "" {
			return fmt.Errorf("redirect without a location header: %w", redirectErr)
		}
		locationURL, err := url.Parse(location)
		if err != nil || !strings.HasSuffix(locationURL.Hostname(), ".visualstudio.com") {
			return fmt.Errorf("redirect to %q which is not on visualstudio.com: %w", location, redirectErr)
		}

		response, err = c.http.Get(ctx, location, WithoutRedirects())
		if err != nil {
			return err
		}
	}

	return c.http.DownloadToFile(response, outputPath, nil)
}

// GetLeases returns the retention leases of a build
func (c *BuildsClient) GetLeases(ctx context.Context, projectID string, buildID int) ([]RetentionLease, error) {
	requestURL := fmt.Sprintf("%s/build/builds/%d/leases?api-version=7.1-preview.1", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), buildID)

	c.log.Debugf("Fetching leases for build %d...", buildID)

	leases, err := getValue[RetentionLease](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting leases of build %d: %w", buildID, err)
	}
	return leases, nil
}

// DeleteLeases deletes retention leases. Duplicate IDs are only sent once.
func (c *BuildsClient) DeleteLeases(ctx context.Context, projectID string, leaseIDs ...int) error {
	if len(leaseIDs) == 0 {
		return fmt.Errorf("%w: no lease IDs to delete", ErrInvalidArgument)
	}

	ids := joinInts(collections.Unique(leaseIDs))

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/build/retention/leases?api-version=7.1-preview.2&ids=" + ids

	c.log.Debugf("Deleting leases '%s'...", ids)

	response, err := c.http.Delete(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return fmt.Errorf("deleting leases %s: %w", ids, err)
	}
	return nil
}

// ListDefinitions returns the build definitions of a project
func (c *BuildsClient) ListDefinitions(ctx context.Context, projectID string) ([]BuildDefinition, error) {
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/build/definitions?api-version=6.0"
	definitions, err := getValue[BuildDefinition](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing build definitions: %w", err)
	}
	return definitions, nil
}

// GetDefinition returns a single build definition
func (c *BuildsClient) GetDefinition(ctx context.Context, projectID string, definitionID int) (*BuildDefinition, error) {
	requestURL := fmt.Sprintf("%s/build/definitions/%d?api-version=6.0", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), definitionID)
	definition := new(BuildDefinition)
	if err := c.http.getJSON(ctx, requestURL, definition); err != nil {
		return nil, fmt.Errorf("getting build definition %d: %w", definitionID, err)
	}
	return definition, nil
}

// DeleteDefinition deletes a build definition and all of its builds
func (c *BuildsClient) DeleteDefinition(ctx context.Context, projectID string, definitionID int) error {
	requestURL := fmt.Sprintf("%s/build/definitions/%d?api-version=7.1-preview.7", c.http.APIEndpoint(Endpoint{ProjectID: projectID}), definitionID)
	response, err := c.http.Delete(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return fmt.Errorf("deleting build definition %d: %w", definitionID, err)
	}
	return nil
}

func isRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func joinInts(values []int) string {
	strs := make([]string, len(values))
	for i, value := range values {
		strs[i] = strconv.Itoa(value)
	}
	return strings.Join(strs, ",")
}
