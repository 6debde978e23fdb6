package azuredevops

import (
	"context"
	"fmt"
)

// WikiPage is a wiki page
type WikiPage struct {
	ID              int    `json:"id"`
	Path            string `json:"path"`
	Content         string `json:"content"`
	GitItemPath     string `json:"gitItemPath"`
	IsParentPage    bool   `json:"isParentPage"`
	Order           int    `json:"order"`
	RemoteURL       string `json:"remoteUrl"`
	URL             string `json:"url"`
	IsNonConformant bool   `json:"isNonConformant"`
}

// WikiClient wraps the wiki APIs
type WikiClient struct {
	baseClient
}

func (c *WikiClient) pageURL(projectID string, wikiID string, pageID string) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: projectID, NoDefaultCollection: true}) +
		"/wiki/wikis/" + wikiID + "/pages/" + pageID + "?api-version=6.1-preview.1"
}

// GetPageVersion returns the ETag of the current version of a page, which UpdatePage requires
func (c *WikiClient) GetPageVersion(ctx context.Context, projectID string, wikiID string, pageID string) (string, error) {
	c.log.Debugf("Get wiki page: %s", pageID)

	response, err := c.http.Get(ctx, c.pageURL(projectID, wikiID, pageID))
	if err != nil {
		return "", err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return "", fmt.Errorf("getting wiki page %s: %w", pageID, err)
	}

	etag := response.Header.Get("ETag")
	if etag == "" {
		return "", fmt.Errorf("%w: no ETag returned for wiki page %s", ErrInvalidResponse, pageID)
	}
	return etag, nil
}

// UpdatePage replaces the content of a page. currentVersion is the ETag from GetPageVersion.
func (c *WikiClient) UpdatePage(ctx context.Context, projectID string, wikiID string, pageID string, content string, currentVersion string) (*WikiPage, error) {
	c.log.Debugf("Updating wiki page: %s", pageID)

	response, err := c.http.Patch(ctx, c.pageURL(projectID, wikiID, pageID), JSONObject{"content": content},
		WithHeader("If-Match", currentVersion))
	if err != nil {
		return nil, err
	}
	page := new(WikiPage)
	if err := c.http.DecodeResponse(response, page); err != nil {
		return nil, fmt.Errorf("updating wiki page %s: %w", pageID, err)
	}
	return page, nil
}
