package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Pipeline is a pipeline definition
type Pipeline struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Folder        string          `json:"folder"`
	Revision      int             `json:"revision"`
	URL           string          `json:"url"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
	Links         Links           `json:"_links,omitempty"`
}

// PipelineRun is a run of a pipeline
type PipelineRun struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Result       string `json:"result"`
	CreatedDate  string `json:"createdDate"`
	FinishedDate string `json:"finishedDate"`
	URL          string `json:"url"`
	Pipeline     struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Folder   string `json:"folder"`
		Revision int    `json:"revision"`
		URL      string `json:"url"`
	} `json:"pipeline"`
	Resources          json.RawMessage `json:"resources,omitempty"`
	TemplateParameters json.RawMessage `json:"templateParameters,omitempty"`
	Links              Links           `json:"_links,omitempty"`
}

type pipelinePage struct {
	Value             []Pipeline `json:"value"`
	HasMore           bool       `json:"hasMore"`
	ContinuationToken string     `json:"continuationToken"`
}

// PipelinesClient wraps the pipeline APIs
type PipelinesClient struct {
	baseClient
}

func (c *PipelinesClient) pipelineURL(projectID string, pipelineID int) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/pipelines/" + strconv.Itoa(pipelineID)
}

// ListPipelinesOptions are the arguments of ListPipelines
type ListPipelinesOptions struct {
	ProjectID string
	Top       int
	OrderBy   string
}

// ListPipelines returns all the pipelines in a project, following continuation tokens
func (c *PipelinesClient) ListPipelines(ctx context.Context, opts ListPipelinesOptions) ([]Pipeline, error) {
	parameters := url.Values{}
	parameters.Set("api-version", "7.1-preview.1")
	if opts.Top > 0 {
		parameters.Set("$top", strconv.Itoa(opts.Top))
	}
	if opts.OrderBy != "" {
		parameters.Set("orderBy", opts.OrderBy)
	}
	baseURL := c.http.APIEndpoint(Endpoint{ProjectID: opts.ProjectID}) + "/pipelines?" + parameters.Encode()

	var pipelines []Pipeline
	requestURL := baseURL
	for {
		page := new(pipelinePage)
		if err := c.http.getJSON(ctx, requestURL, page); err != nil {
			return nil, fmt.Errorf("listing pipelines: %w", err)
		}
		pipelines = append(pipelines, page.Value...)

		if !page.HasMore {
			return pipelines, nil
		}
		requestURL = baseURL + "&continuationToken=" + url.QueryEscape(page.ContinuationToken)
	}
}

func withPipelineVersion(requestURL string, pipelineVersion int) string {
	if pipelineVersion > 0 {
		return requestURL + "&pipelineVersion=" + strconv.Itoa(pipelineVersion)
	}
	return requestURL
}

// GetPipeline returns a pipeline, at a specific version when pipelineVersion is positive
func (c *PipelinesClient) GetPipeline(ctx context.Context, projectID string, pipelineID int, pipelineVersion int) (*Pipeline, error) {
	requestURL := withPipelineVersion(c.pipelineURL(projectID, pipelineID)+"?api-version=7.1-preview.1", pipelineVersion)
	pipeline := new(Pipeline)
	if err := c.http.getJSON(ctx, requestURL, pipeline); err != nil {
		return nil, fmt.Errorf("getting pipeline %d: %w", pipelineID, err)
	}
	return pipeline, nil
}

// Preview queues a dry run of the pipeline and returns the final YAML. An empty string means no YAML was returned.
func (c *PipelinesClient) Preview(ctx context.Context, projectID string, pipelineID int, pipelineVersion int) (string, error) {
	requestURL := withPipelineVersion(c.pipelineURL(projectID, pipelineID)+"/preview?api-version=7.1-preview.1", pipelineVersion)

	response, err := c.http.Post(ctx, requestURL, JSONObject{"previewRun": true})
	if err != nil {
		return "", err
	}
	preview := struct {
		FinalYaml string `json:"finalYaml"`
	}{}
	if err := c.http.DecodeResponse(response, &preview); err != nil {
		return "", fmt.Errorf("previewing pipeline %d: %w", pipelineID, err)
	}
	return preview.FinalYaml, nil
}

// ListRuns returns the top 10,000 runs of a pipeline
func (c *PipelinesClient) ListRuns(ctx context.Context, projectID string, pipelineID int) ([]PipelineRun, error) {
	requestURL := c.pipelineURL(projectID, pipelineID) + "/runs?api-version=6.0-preview.1"
	runs, err := getValue[PipelineRun](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing runs of pipeline %d: %w", pipelineID, err)
	}
	return runs, nil
}

// GetRun returns a single pipeline run
func (c *PipelinesClient) GetRun(ctx context.Context, projectID string, pipelineID int, runID int) (*PipelineRun, error) {
	requestURL := fmt.Sprintf("%s/runs/%d?api-version=6.0-preview.1", c.pipelineURL(projectID, pipelineID), runID)
	run := new(PipelineRun)
	if err := c.http.getJSON(ctx, requestURL, run); err != nil {
		return nil, fmt.Errorf("getting run %d of pipeline %d: %w", runID, pipelineID, err)
	}
	return run, nil
}
