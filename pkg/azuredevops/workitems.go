package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// maxBatchRequests bounds a $batch call. The service documents 200 as its limit and
// rejects batches that reach it, so only fewer requests are sent.
const maxBatchRequests = 200

// WorkItemRelationType is the type of a link between a work item and another resource
type WorkItemRelationType string

// Work item relation types
const (
	RelationProducesFor   WorkItemRelationType = "System.LinkTypes.Remote.Dependency-Forward"
	RelationConsumesFrom  WorkItemRelationType = "System.LinkTypes.Remote.Dependency-Reverse"
	RelationDuplicate     WorkItemRelationType = "System.LinkTypes.Duplicate-Forward"
	RelationDuplicateOf   WorkItemRelationType = "System.LinkTypes.Duplicate-Reverse"
	RelationBlockedBy     WorkItemRelationType = "Microsoft.VSTS.BlockingLink-Forward"
	RelationBlocking      WorkItemRelationType = "Microsoft.VSTS.BlockingLink-Reverse"
	RelationReferencedBy  WorkItemRelationType = "Microsoft.VSTS.TestCase.SharedParameterReferencedBy-Forward"
	RelationReferences    WorkItemRelationType = "Microsoft.VSTS.TestCase.SharedParameterReferencedBy-Reverse"
	RelationTestedBy      WorkItemRelationType = "Microsoft.VSTS.Common.TestedBy-Forward"
	RelationTests         WorkItemRelationType = "Microsoft.VSTS.Common.TestedBy-Reverse"
	RelationTestCase      WorkItemRelationType = "Microsoft.VSTS.TestCase.SharedStepReferencedBy-Forward"
	RelationSharedSteps   WorkItemRelationType = "Microsoft.VSTS.TestCase.SharedStepReferencedBy-Reverse"
	RelationSuccessor     WorkItemRelationType = "System.LinkTypes.Dependency-Forward"
	RelationPredecessor   WorkItemRelationType = "System.LinkTypes.Dependency-Reverse"
	RelationChild         WorkItemRelationType = "System.LinkTypes.Hierarchy-Forward"
	RelationParent        WorkItemRelationType = "System.LinkTypes.Hierarchy-Reverse"
	RelationRemoteRelated WorkItemRelationType = "System.LinkTypes.Remote.Related"
	RelationRelated       WorkItemRelationType = "System.LinkTypes.Related"
	RelationAttachedFile  WorkItemRelationType = "AttachedFile"
	RelationHyperlink     WorkItemRelationType = "Hyperlink"
	RelationArtifactLink  WorkItemRelationType = "ArtifactLink"
)

// WorkItemRelation links a work item to another resource
type WorkItemRelation struct {
	Rel        WorkItemRelationType   `json:"rel"`
	URL        string                 `json:"url"`
	Attributes map[string]interface{} `json:"attributes"`
}

// WorkItem is a work item
type WorkItem struct {
	ID        int                    `json:"id"`
	Rev       int                    `json:"rev"`
	Fields    map[string]interface{} `json:"fields"`
	Relations []WorkItemRelation     `json:"relations,omitempty"`
	URL       string                 `json:"url"`
	Links     Links                  `json:"_links,omitempty"`
}

// WorkItemType is a type of work item supported by a project
type WorkItemType struct {
	Name          string `json:"name"`
	ReferenceName string `json:"referenceName"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	IsDisabled    bool   `json:"isDisabled"`
	URL           string `json:"url"`
}

// WorkItemReference references a work item in query results
type WorkItemReference struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// WorkItemQueryResult is the result of a WIQL query
type WorkItemQueryResult struct {
	QueryType       string `json:"queryType"`
	QueryResultType string `json:"queryResultType"`
	AsOf            string `json:"asOf"`
	Columns         []struct {
		ReferenceName string `json:"referenceName"`
		Name          string `json:"name"`
		URL           string `json:"url"`
	} `json:"columns"`
	WorkItems         []WorkItemReference `json:"workItems"`
	WorkItemRelations []struct {
		Rel    string             `json:"rel"`
		Source *WorkItemReference `json:"source"`
		Target *WorkItemReference `json:"target"`
	} `json:"workItemRelations,omitempty"`
}

// WorkItemDelete is the record of a deleted work item
type WorkItemDelete struct {
	ID          int    `json:"id"`
	Code        int    `json:"code"`
	DeletedBy   string `json:"deletedBy"`
	DeletedDate string `json:"deletedDate"`
	Name        string `json:"name"`
	Project     string `json:"project"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}

// AttachmentReference is an uploaded attachment
type AttachmentReference struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// BatchRequest is a single request of a $batch call
type BatchRequest struct {
	Method  string            `json:"method"`
	URI     string            `json:"uri"`
	Headers map[string]string `json:"headers"`
	Body    interface{}       `json:"body,omitempty"`
}

// NewDeleteBatchRequest returns a DELETE batch request. The content type defaults to JSON patch.
func NewDeleteBatchRequest(uri string, headers map[string]string) BatchRequest {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, exists := headers["Content-Type"]; !exists {
		headers["Content-Type"] = contentTypeJSONPatch
	}
	return BatchRequest{Method: http.MethodDelete, URI: uri, Headers: headers}
}

// BatchResponse is the response of a single request of a $batch call
type BatchResponse struct {
	Code    int               `json:"code"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// WorkItemUpdateOptions are the flags accepted by every work item update
type WorkItemUpdateOptions struct {
	BypassRules          bool
	SuppressNotification bool
}

func (o WorkItemUpdateOptions) query() string {
	return "?bypassRules=" + strconv.FormatBool(o.BypassRules) +
		"&suppressNotifications=" + strconv.FormatBool(o.SuppressNotification) +
		"&api-version=4.1"
}

// WorkItemsClient wraps the work item tracking APIs
type WorkItemsClient struct {
	baseClient
}

func (c *WorkItemsClient) workItemURL(projectID string, identifier string) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/wit/workitems/" + identifier
}

// Get returns a work item with all of its fields and relations
func (c *WorkItemsClient) Get(ctx context.Context, projectID string, id int) (*WorkItem, error) {
	c.log.Debugf("Getting work item: %d", id)
	requestURL := c.workItemURL(projectID, strconv.Itoa(id)) + "?api-version=4.1&$expand=all"
	workItem := new(WorkItem)
	if err := c.http.getJSON(ctx, requestURL, workItem); err != nil {
		return nil, fmt.Errorf("getting work item %d: %w", id, err)
	}
	return workItem, nil
}

// List returns several work items with all of their fields and relations
func (c *WorkItemsClient) List(ctx context.Context, projectID string, ids []int) ([]WorkItem, error) {
	idList := joinInts(ids)
	c.log.Debugf("Getting work items: %s", idList)
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/wit/workitems?api-version=4.1&ids=" + idList + "&$expand=all"
	workItems, err := getValue[WorkItem](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting work items %s: %w", idList, err)
	}
	return workItems, nil
}

// GetWorkItemTypes returns the work item types of a project
func (c *WorkItemsClient) GetWorkItemTypes(ctx context.Context, projectID string) ([]WorkItemType, error) {
	c.log.Debug("Getting work item types")
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/wit/workitemtypes?api-version=4.1"
	types, err := getValue[WorkItemType](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting work item types: %w", err)
	}
	return types, nil
}

func (c *WorkItemsClient) patch(ctx context.Context, projectID string, identifier string, operations []PatchOperation, opts WorkItemUpdateOptions) (*WorkItem, error) {
	requestURL := c.workItemURL(projectID, identifier) + opts.query()
	response, err := c.http.PatchOperations(ctx, requestURL, operations)
	if err != nil {
		return nil, err
	}
	workItem := new(WorkItem)
	if err := c.http.DecodeResponse(response, workItem); err != nil {
		return nil, fmt.Errorf("updating work item %s: %w", identifier, err)
	}
	return workItem, nil
}

// AddProperty adds a field value to a work item. field is a patch path such as /fields/System.Title.
func (c *WorkItemsClient) AddProperty(ctx context.Context, projectID string, id int, field string, value string, opts WorkItemUpdateOptions) (*WorkItem, error) {
	c.log.Debugf("Add field '%s' to ticket %d", field, id)
	return c.patch(ctx, projectID, strconv.Itoa(id), []PatchOperation{AddOperation(field, value)}, opts)
}

func relationOperation(relationType WorkItemRelationType, target string) PatchOperation {
	return AddOperation("/relations/-", WorkItemRelation{
		Rel:        relationType,
		URL:        target,
		Attributes: map[string]interface{}{"comment": ""},
	})
}

// AddAttachment uploads a file and attaches it to a work item. fileName defaults to the base name of the path.
func (c *WorkItemsClient) AddAttachment(ctx context.Context, projectID string, id int, path string, fileName string, opts WorkItemUpdateOptions) (*WorkItem, error) {
	c.log.Debugf("Adding attachment to %d: %s", id, path)

	if fileName == "" {
		fileName = filepath.Base(path)
	}
	fileName = strings.ReplaceAll(fileName, "#", "_")

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/wit/attachments?fileName=" + url.QueryEscape(fileName) + "&api-version=1.0"
	response, err := c.http.PostFile(ctx, requestURL, path)
	if err != nil {
		return nil, err
	}
	attachment := new(AttachmentReference)
	if err := c.http.DecodeResponse(response, attachment); err != nil {
		return nil, fmt.Errorf("uploading attachment %s: %w", fileName, err)
	}
	if attachment.URL == "" {
		return nil, fmt.Errorf("%w: failed to get url from attachment upload of %s", ErrInvalidResponse, fileName)
	}

	return c.patch(ctx, projectID, strconv.Itoa(id), []PatchOperation{relationOperation(RelationAttachedFile, attachment.URL)}, opts)
}

func (c *WorkItemsClient) addLink(ctx context.Context, projectID string, parentID int, target string, relationType WorkItemRelationType, opts WorkItemUpdateOptions) (*WorkItem, error) {
	c.log.Debugf("Adding link %d -> %s (%s)", parentID, target, relationType)
	return c.patch(ctx, projectID, strconv.Itoa(parentID), []PatchOperation{relationOperation(relationType, target)}, opts)
}

// LinkTickets links two work items
func (c *WorkItemsClient) LinkTickets(ctx context.Context, projectID string, parentID int, childID int, relationType WorkItemRelationType, opts WorkItemUpdateOptions) (*WorkItem, error) {
	childURL := c.http.APIEndpoint(Endpoint{}) + "/wit/workitems/" + strconv.Itoa(childID)
	return c.addLink(ctx, projectID, parentID, childURL, relationType, opts)
}

// AddHyperlink adds a hyperlink to a work item
func (c *WorkItemsClient) AddHyperlink(ctx context.Context, projectID string, id int, hyperlink string, opts WorkItemUpdateOptions) (*WorkItem, error) {
	return c.addLink(ctx, projectID, id, hyperlink, RelationHyperlink, opts)
}

// Create creates a work item of the given type from add operations
func (c *WorkItemsClient) Create(ctx context.Context, projectID string, itemType string, operations []PatchOperation, opts WorkItemUpdateOptions) (*WorkItem, error) {
	c.log.Debugf("Creating a new %s", itemType)

	requestURL := c.workItemURL(projectID, "$"+itemType) + opts.query()
	response, err := c.http.PostOperations(ctx, requestURL, operations)
	if err != nil {
		return nil, err
	}
	workItem := new(WorkItem)
	if err := c.http.DecodeResponse(response, workItem); err != nil {
		return nil, fmt.Errorf("creating %s: %w", itemType, err)
	}
	return workItem, nil
}

// Update applies patch operations to a work item
func (c *WorkItemsClient) Update(ctx context.Context, projectID string, id int, operations []PatchOperation, opts WorkItemUpdateOptions) (*WorkItem, error) {
	c.log.Debugf("Updating %d", id)
	return c.patch(ctx, projectID, strconv.Itoa(id), operations, opts)
}

// ExecuteQuery runs a WIQL query
func (c *WorkItemsClient) ExecuteQuery(ctx context.Context, projectID string, query string) (*WorkItemQueryResult, error) {
	c.log.Debugf("Executing query: %s", query)

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/wit/wiql?api-version=4.1"
	response, err := c.http.Post(ctx, requestURL, JSONObject{"query": query})
	if err != nil {
		return nil, err
	}
	result := new(WorkItemQueryResult)
	if err := c.http.DecodeResponse(response, result); err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// ExecuteQueryByID runs a saved query
func (c *WorkItemsClient) ExecuteQueryByID(ctx context.Context, projectID string, queryID string) (*WorkItemQueryResult, error) {
	c.log.Debugf("Executing query with id: %s", queryID)

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/wit/wiql/" + queryID + "?api-version=4.1"
	result := new(WorkItemQueryResult)
	if err := c.http.getJSON(ctx, requestURL, result); err != nil {
		return nil, fmt.Errorf("executing query %s: %w", queryID, err)
	}
	return result, nil
}

// Delete deletes a work item, permanently if permanent is set.
// The delete record is returned when Azure Devops sends one, otherwise nil.
func (c *WorkItemsClient) Delete(ctx context.Context, projectID string, id int, permanent bool, suppressNotifications bool) (*WorkItemDelete, error) {
	c.log.Debugf("Deleting %d", id)

	requestURL := c.workItemURL(projectID, strconv.Itoa(id)) +
		"?suppressNotifications=" + strconv.FormatBool(suppressNotifications) +
		"&destroy=" + strconv.FormatBool(permanent) +
		"&api-version=4.1"

	response, err := c.http.Delete(ctx, requestURL, WithHeader("Content-Type", contentTypeJSONPatch))
	if err != nil {
		return nil, err
	}

	switch response.StatusCode {
	case http.StatusNoContent:
		return nil, c.http.CheckResponse(response)
	case http.StatusOK:
		deleted := new(WorkItemDelete)
		if err := c.http.DecodeResponse(response, deleted); err != nil {
			return nil, fmt.Errorf("deleting work item %d: %w", id, err)
		}
		return deleted, nil
	default:
		defer response.Body.Close()
		return nil, fmt.Errorf("failed to delete work item %d: %w", id, NewHTTPError(response))
	}
}

// Batch runs fewer than 200 requests in a single call
func (c *WorkItemsClient) Batch(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error) {
	if len(requests) >= maxBatchRequests {
		return nil, fmt.Errorf("%w: batches must have fewer than %d operations, got %d", ErrInvalidArgument, maxBatchRequests, len(requests))
	}

	c.log.Debug("Running batch operation")

	requestURL := c.http.APIEndpoint(Endpoint{}) + "/wit/$batch"
	response, err := c.http.Post(ctx, requestURL, requests)
	if err != nil {
		return nil, err
	}
	responses, err := decodeValue[BatchResponse](c.http, response)
	if err != nil {
		return nil, fmt.Errorf("running batch: %w", err)
	}
	return responses, nil
}

// Tracked wraps a work item so its fields can be read and patched directly
func (c *WorkItemsClient) Tracked(projectID string, workItem *WorkItem) *TrackedWorkItem {
	return &TrackedWorkItem{
		client:    c,
		projectID: projectID,
		item:      workItem,
	}
}

// TrackedWorkItem is a work item that refreshes itself when a field is missing and patches fields in place
type TrackedWorkItem struct {
	client    *WorkItemsClient
	projectID string
	item      *WorkItem
}

// ID returns the work item ID
func (w *TrackedWorkItem) ID() int {
	return w.item.ID
}

// Data returns the current work item
func (w *TrackedWorkItem) Data() *WorkItem {
	return w.item
}

// Field returns a field value, refreshing the work item once if the field is missing
func (w *TrackedWorkItem) Field(ctx context.Context, field WorkItemField) (interface{}, error) {
	if value, exists := w.item.Fields[string(field)]; exists {
		return value, nil
	}

	w.client.log.Debugf("Field '%s' not found, refreshing work item %d", field, w.item.ID)
	if err := w.Refresh(ctx); err != nil {
		return nil, err
	}

	if value, exists := w.item.Fields[string(field)]; exists {
		return value, nil
	}
	return nil, fmt.Errorf("%w: field '%s' not found in work item %d", ErrMissingValue, field, w.item.ID)
}

// Refresh reloads the work item
func (w *TrackedWorkItem) Refresh(ctx context.Context) error {
	if w.item.ID == 0 {
		return fmt.Errorf("%w: cannot refresh a work item without an ID", ErrInvalidArgument)
	}
	workItem, err := w.client.Get(ctx, w.projectID, w.item.ID)
	if err != nil {
		return err
	}
	w.item = workItem
	return nil
}

// Patch replaces a field value and keeps the updated work item
func (w *TrackedWorkItem) Patch(ctx context.Context, field WorkItemField, value interface{}, opts WorkItemUpdateOptions) error {
	if w.item.ID == 0 {
		return fmt.Errorf("%w: cannot patch a work item without an ID", ErrInvalidArgument)
	}

	path := string(field)
	if !strings.HasPrefix(path, "/") {
		path = "/fields/" + path
	}

	workItem, err := w.client.Update(ctx, w.projectID, w.item.ID, []PatchOperation{ReplaceOperation(path, value)}, opts)
	if err != nil {
		return err
	}
	w.item = workItem
	return nil
}

func (w *TrackedWorkItem) String() string {
	workItemType, exists := w.item.Fields[string(FieldWorkItemType)]
	if !exists {
		workItemType = "Unknown"
	}
	return fmt.Sprintf("WorkItem(id=%d, type=%v)", w.item.ID, workItemType)
}

// MarshalJSON returns the wrapped work item
func (w *TrackedWorkItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.item)
}
