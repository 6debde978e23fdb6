package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// AlertSeverity is the minimum severity component governance alerts on
type AlertSeverity int

// Alert severities
const (
	AlertSeverityLow AlertSeverity = iota
	AlertSeverityMedium
	AlertSeverityHigh
	AlertSeverityCritical
)

var alertSeverityNames = []string{"low", "medium", "high", "critical"}

func (s AlertSeverity) String() string {
	if s < AlertSeverityLow || int(s) >= len(alertSeverityNames) {
		return strconv.Itoa(int(s))
	}
	return alertSeverityNames[s]
}

// ParseAlertSeverity accepts either the numeric value or the name of a severity
func ParseAlertSeverity(value string) (AlertSeverity, error) {
	if number, err := strconv.Atoi(value); err == nil {
		if number < int(AlertSeverityLow) || number > int(AlertSeverityCritical) {
			return 0, fmt.Errorf("%w: unknown alert severity %d", ErrInvalidArgument, number)
		}
		return AlertSeverity(number), nil
	}
	for i, name := range alertSeverityNames {
		if strings.EqualFold(name, value) {
			return AlertSeverity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown alert severity %q", ErrInvalidArgument, value)
}

// UnmarshalJSON accepts numbers and names
func (s *AlertSeverity) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	severity, err := ParseAlertSeverity(value)
	if err != nil {
		return err
	}
	*s = severity
	return nil
}

// GovernedRepository is a repository tracked by component governance
type GovernedRepository struct {
	ID                  int             `json:"id"`
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	URL                 string          `json:"url"`
	CreatedDate         string          `json:"createdDate"`
	RepositoryMetadata  JSONObject      `json:"repositoryMetadata,omitempty"`
	PolicyReferences    json.RawMessage `json:"policyReferences,omitempty"`
	ProjectReference    JSONObject      `json:"projectReference,omitempty"`
	ComponentGovernance JSONObject      `json:"componentGovernance,omitempty"`
}

// GovernedBranch is a branch of a governed repository
type GovernedBranch struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsTracked bool   `json:"isTracked"`
	URL       string `json:"url"`
}

// GovernanceAlert is a component governance alert
type GovernanceAlert struct {
	AlertID   int        `json:"alertId"`
	AlertType string     `json:"alertType"`
	Title     string     `json:"title"`
	Severity  JSONObject `json:"severity,omitempty"`
	Component JSONObject `json:"component,omitempty"`
	State     string     `json:"state"`
	URL       string     `json:"url"`
}

// AlertSettings are the alert settings of a governed repository. They are kept as a raw document so that
// fields this client does not know about survive a round trip.
type AlertSettings map[string]json.RawMessage

// ShowBanner returns whether the warning banner is shown in the repository view
func (s AlertSettings) ShowBanner() (bool, error) {
	var show bool
	if err := s.field("showRepositoryWarningBanner", &show); err != nil {
		return false, err
	}
	return show, nil
}

// MinimumAlertSeverity returns the minimum severity alerted on
func (s AlertSettings) MinimumAlertSeverity() (AlertSeverity, error) {
	var severity AlertSeverity
	if err := s.field("minimumAlertSeverity", &severity); err != nil {
		return 0, err
	}
	return severity, nil
}

func (s AlertSettings) field(name string, out interface{}) error {
	raw, exists := s[name]
	if !exists {
		return fmt.Errorf("%w: alert settings have no %s", ErrMissingValue, name)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: alert settings %s: %s", ErrInvalidResponse, name, err.Error())
	}
	return nil
}

func (s AlertSettings) set(name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s[name] = raw
	return nil
}

// WorkItemTemplateRow sets a field on work items created for alerts
type WorkItemTemplateRow struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

// WorkItemSettings are the arguments to SetWorkItemSettings
type WorkItemSettings struct {
	CreateForSecurityAlerts bool
	CreateForLegalAlerts    bool
	AreaPath                string
	WorkItemType            string
	// ExtraFields replace the template rows when set
	ExtraFields []WorkItemTemplateRow
}

// GovernanceClient wraps the component governance APIs
type GovernanceClient struct {
	baseClient
}

func (c *GovernanceClient) repositoriesURL(projectID string) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: projectID, Subdomain: "governance", NoDefaultCollection: true}) +
		"/ComponentGovernance/GovernedRepositories"
}

func (c *GovernanceClient) repositoryURL(projectID string, governedRepositoryID string) string {
	return c.repositoriesURL(projectID) + "/" + governedRepositoryID
}

// GetGovernedRepositories returns the governed repositories of a project
func (c *GovernanceClient) GetGovernedRepositories(ctx context.Context, projectID string) ([]GovernedRepository, error) {
	requestURL := c.repositoriesURL(projectID) + "?api-version=6.1-preview.1"
	repositories, err := getValue[GovernedRepository](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting governed repositories: %w", err)
	}
	return repositories, nil
}

// GetGovernedRepository returns a governed repository
func (c *GovernanceClient) GetGovernedRepository(ctx context.Context, projectID string, governedRepositoryID string) (*GovernedRepository, error) {
	requestURL := c.repositoryURL(projectID, governedRepositoryID) + "?api-version=6.1-preview.1"
	repository := new(GovernedRepository)
	if err := c.http.getJSON(ctx, requestURL, repository); err != nil {
		return nil, fmt.Errorf("getting governed repository %s: %w", governedRepositoryID, err)
	}
	return repository, nil
}

// DeleteGovernedRepository stops governing a repository
func (c *GovernanceClient) DeleteGovernedRepository(ctx context.Context, projectID string, governedRepositoryID string) error {
	requestURL := c.repositoryURL(projectID, governedRepositoryID) + "?api-version=6.1-preview.1"
	response, err := c.http.Delete(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return fmt.Errorf("deleting governed repository %s: %w", governedRepositoryID, err)
	}
	return nil
}

// RemovePolicy removes a policy reference from a governed repository
func (c *GovernanceClient) RemovePolicy(ctx context.Context, projectID string, governedRepositoryID string, policyID string) error {
	requestURL := c.repositoryURL(projectID, governedRepositoryID) + "/policyreferences/" + policyID + "?api-version=5.1-preview.1"
	response, err := c.http.Delete(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return fmt.Errorf("removing policy %s from %s: %w", policyID, governedRepositoryID, err)
	}
	return nil
}

func (c *GovernanceClient) alertSettingsURL(projectID string, governedRepositoryID string) string {
	return c.repositoryURL(projectID, governedRepositoryID) + "/AlertSettings?api-version=5.0-preview.2"
}

// GetAlertSettings returns the alert settings of a governed repository
func (c *GovernanceClient) GetAlertSettings(ctx context.Context, projectID string, governedRepositoryID string) (AlertSettings, error) {
	settings := AlertSettings{}
	if err := c.http.getJSON(ctx, c.alertSettingsURL(projectID, governedRepositoryID), &settings); err != nil {
		return nil, fmt.Errorf("getting alert settings of %s: %w", governedRepositoryID, err)
	}
	return settings, nil
}

// SetAlertSettings replaces the alert settings of a governed repository
func (c *GovernanceClient) SetAlertSettings(ctx context.Context, projectID string, governedRepositoryID string, settings AlertSettings) error {
	response, err := c.http.Put(ctx, c.alertSettingsURL(projectID, governedRepositoryID), settings)
	if err != nil {
		return err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return fmt.Errorf("setting alert settings of %s: %w", governedRepositoryID, err)
	}
	return nil
}

// updateAlertSettings reads the alert settings, applies update, and writes them back
func (c *GovernanceClient) updateAlertSettings(ctx context.Context, projectID string, governedRepositoryID string, update func(AlertSettings) error) error {
	settings, err := c.GetAlertSettings(ctx, projectID, governedRepositoryID)
	if err != nil {
		return err
	}
	if err := update(settings); err != nil {
		return err
	}
	return c.SetAlertSettings(ctx, projectID, governedRepositoryID, settings)
}

// GetShowBannerInRepoView returns whether the warning banner is shown in the repository view
func (c *GovernanceClient) GetShowBannerInRepoView(ctx context.Context, projectID string, governedRepositoryID string) (bool, error) {
	settings, err := c.GetAlertSettings(ctx, projectID, governedRepositoryID)
	if err != nil {
		return false, err
	}
	return settings.ShowBanner()
}

// SetShowBannerInRepoView sets whether the warning banner is shown in the repository view
func (c *GovernanceClient) SetShowBannerInRepoView(ctx context.Context, projectID string, governedRepositoryID string, show bool) error {
	return c.updateAlertSettings(ctx, projectID, governedRepositoryID, func(settings AlertSettings) error {
		return settings.set("showRepositoryWarningBanner", show)
	})
}

// GetMinimumAlertSeverity returns the minimum severity alerted on
func (c *GovernanceClient) GetMinimumAlertSeverity(ctx context.Context, projectID string, governedRepositoryID string) (AlertSeverity, error) {
	settings, err := c.GetAlertSettings(ctx, projectID, governedRepositoryID)
	if err != nil {
		return 0, err
	}
	return settings.MinimumAlertSeverity()
}

// SetMinimumAlertSeverity sets the minimum severity alerted on
func (c *GovernanceClient) SetMinimumAlertSeverity(ctx context.Context, projectID string, governedRepositoryID string, severity AlertSeverity) error {
	return c.updateAlertSettings(ctx, projectID, governedRepositoryID, func(settings AlertSettings) error {
		return settings.set("minimumAlertSeverity", int(severity))
	})
}

// SetWorkItemSettings configures the work items created for alerts
func (c *GovernanceClient) SetWorkItemSettings(ctx context.Context, projectID string, governedRepositoryID string, workItemSettings WorkItemSettings) error {
	return c.updateAlertSettings(ctx, projectID, governedRepositoryID, func(settings AlertSettings) error {
		current := JSONObject{}
		if raw, exists := settings["workItemSettings"]; exists {
			if err := json.Unmarshal(raw, &current); err != nil {
				return fmt.Errorf("%w: work item settings: %s", ErrInvalidResponse, err.Error())
			}
		}
		current["areaPath"] = workItemSettings.AreaPath
		current["legalAlertWorkItemCreationEnabled"] = workItemSettings.CreateForLegalAlerts
		current["securityAlertWorkItemCreationEnabled"] = workItemSettings.CreateForSecurityAlerts
		current["workItemType"] = workItemSettings.WorkItemType
		if len(workItemSettings.ExtraFields) > 0 {
			current["workItemTemplateRows"] = workItemSettings.ExtraFields
		}
		return settings.set("workItemSettings", current)
	})
}

// GetBranches returns the branches of a governed repository. The paging of this API is undocumented,
// so only the first 99999 branches are returned.
func (c *GovernanceClient) GetBranches(ctx context.Context, projectID string, governedRepositoryID string, trackedOnly bool) ([]GovernedBranch, error) {
	parameters := url.Values{}
	parameters.Set("top", "99999")
	parameters.Set("isTracked", strconv.FormatBool(trackedOnly))
	requestURL := c.repositoryURL(projectID, governedRepositoryID) + "/Branches?" + parameters.Encode()

	branches, err := getValue[GovernedBranch](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting branches of %s: %w", governedRepositoryID, err)
	}
	return branches, nil
}

// GetAlertsOptions are the arguments to GetAlerts
type GetAlertsOptions struct {
	ProjectID                      string
	GovernedRepositoryID           string
	BranchName                     string
	IncludeHistory                 bool
	IncludeDevelopmentDependencies bool
}

// GetAlerts returns the alerts on a branch of a governed repository
func (c *GovernanceClient) GetAlerts(ctx context.Context, opts GetAlertsOptions) ([]GovernanceAlert, error) {
	parameters := url.Values{}
	parameters.Set("includeHistory", strconv.FormatBool(opts.IncludeHistory))
	parameters.Set("includeDevelopmentDependencies", strconv.FormatBool(opts.IncludeDevelopmentDependencies))
	requestURL := c.repositoryURL(opts.ProjectID, opts.GovernedRepositoryID) +
		"/Branches/" + opts.BranchName + "/Alerts?" + parameters.Encode()

	alerts, err := getValue[GovernanceAlert](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting alerts of %s on %s: %w", opts.GovernedRepositoryID, opts.BranchName, err)
	}
	return alerts, nil
}
