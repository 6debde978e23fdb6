package azuredevops

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// GitPermissionsNamespace is the security namespace of git repositories
const GitPermissionsNamespace = "2e9eb7ed-3c0a-47d4-87c1-0ffdd275fd87"

const identityDescriptorPrefix = "Microsoft.TeamFoundation.Identity;"

// BranchPermission is a bit of the git permission set
type BranchPermission int

// Git branch permissions
const (
	PermissionAdminister BranchPermission = 1 << iota
	PermissionRead
	PermissionContribute
	PermissionForcePush
	PermissionCreateBranch
	PermissionCreateTag
	PermissionManageNotes
	PermissionBypassPushPolicies
	PermissionCreateRepository
	PermissionDeleteRepository
	PermissionRenameRepository
	PermissionEditPolicies
	PermissionRemoveOthersLocks
	PermissionManagePermissions
	PermissionContributeToPullRequests
	PermissionBypassPullRequestPolicies
)

// PermissionLevel is the value of a permission
type PermissionLevel int

// Permission levels
const (
	PermissionNotSet PermissionLevel = iota
	PermissionAllow
	PermissionDeny
)

// BranchPolicy is the type ID of a branch policy
type BranchPolicy string

// Branch policy types
const (
	PolicyApprovalCount     BranchPolicy = "fa4e907d-c16b-4a4c-9dfa-4906e5d171dd"
	PolicyBuild             BranchPolicy = "0609b952-1397-4640-95ec-e00a01b2c241"
	PolicyCaseEnforcement   BranchPolicy = "7ed39669-655c-494e-b4a0-a08b4da0fcce"
	PolicyMaximumBlobSize   BranchPolicy = "2e26e725-8201-4edd-8bf5-978563c34a80"
	PolicyMergeStrategy     BranchPolicy = "fa4e907d-c16b-4a4c-9dfa-4916e5d171ab"
	PolicyRequiredReviewers BranchPolicy = "fd2167ab-b0be-447a-8ec8-39368250530e"
	PolicyStatusCheck       BranchPolicy = "cbdc66da-9728-4af8-aada-9a5a32e4a226"
	PolicyWorkItem          BranchPolicy = "40e92b44-2fe1-4dd6-b3d8-74a9c21d0c6e"
)

// PolicyApplicability controls when a status check policy applies
type PolicyApplicability int

// Policy applicabilities
const (
	ApplyByDefault PolicyApplicability = iota
	ApplyConditionally
)

func (a PolicyApplicability) value() interface{} {
	if a == ApplyConditionally {
		return 1
	}
	return nil
}

// PolicyType identifies the type of a policy configuration
type PolicyType struct {
	ID          BranchPolicy `json:"id"`
	DisplayName string       `json:"displayName,omitempty"`
	URL         string       `json:"url,omitempty"`
}

// PolicyConfiguration is a policy applied to a scope
type PolicyConfiguration struct {
	ID          int          `json:"id,omitempty"`
	Type        PolicyType   `json:"type"`
	Revision    int          `json:"revision"`
	IsDeleted   bool         `json:"isDeleted"`
	IsBlocking  bool         `json:"isBlocking"`
	IsEnabled   bool         `json:"isEnabled"`
	Settings    JSONObject   `json:"settings"`
	CreatedBy   *IdentityRef `json:"createdBy,omitempty"`
	CreatedDate string       `json:"createdDate,omitempty"`
	URL         string       `json:"url,omitempty"`
}

// PolicyScope is the branch a policy applies to
type PolicyScope struct {
	RepositoryID string `json:"repositoryId"`
	RefName      string `json:"refName"`
	MatchKind    string `json:"matchKind"`
}

func branchScope(repositoryID string, branch string, matchKind string) []PolicyScope {
	return []PolicyScope{{RepositoryID: repositoryID, RefName: "refs/heads/" + branch, MatchKind: matchKind}}
}

// SecurityNamespace is a security namespace
type SecurityNamespace struct {
	NamespaceID        string           `json:"namespaceId"`
	Name               string           `json:"name"`
	DisplayName        string           `json:"displayName"`
	SeparatorValue     string           `json:"separatorValue"`
	ElementLength      int              `json:"elementLength"`
	WritePermission    int              `json:"writePermission"`
	ReadPermission     int              `json:"readPermission"`
	DataspaceCategory  string           `json:"dataspaceCategory"`
	StructureValue     int              `json:"structureValue"`
	ExtensionType      string           `json:"extensionType"`
	IsRemotable        bool             `json:"isRemotable"`
	UseTokenTranslator bool             `json:"useTokenTranslator"`
	SystemBitMask      int              `json:"systemBitMask"`
	Actions            []SecurityAction `json:"actions"`
}

// SecurityAction is a permission bit of a namespace
type SecurityAction struct {
	Bit         int    `json:"bit"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	NamespaceID string `json:"namespaceId"`
}

// AccessControlEntry grants and denies permissions to a descriptor
type AccessControlEntry struct {
	Descriptor string `json:"descriptor"`
	Allow      int    `json:"allow"`
	Deny       int    `json:"deny"`
}

// AccessControlList is the set of entries for a token
type AccessControlList struct {
	InheritPermissions bool                          `json:"inheritPermissions"`
	Token              string                        `json:"token"`
	AcesDictionary     map[string]AccessControlEntry `json:"acesDictionary"`
}

// PermissionsDisplay is the permission set of an identity on a token
type PermissionsDisplay struct {
	DescriptorIdentityType string       `json:"descriptorIdentityType"`
	DescriptorIdentifier   string       `json:"descriptorIdentifier"`
	CanEditPermissions     bool         `json:"canEditPermissions"`
	Permissions            []JSONObject `json:"permissions"`
}

// SecurityClient wraps the policy and security APIs, including the undocumented internal ones
type SecurityClient struct {
	baseClient
}

func (c *SecurityClient) policiesURL(projectID string) string {
	return c.http.APIEndpoint(Endpoint{ProjectID: projectID}) + "/policy/Configurations"
}

// GetPolicies returns the policy configurations of a project
func (c *SecurityClient) GetPolicies(ctx context.Context, projectID string) ([]PolicyConfiguration, error) {
	policies, err := getValue[PolicyConfiguration](ctx, c.http, c.policiesURL(projectID)+"?api-version=5.0")
	if err != nil {
		return nil, fmt.Errorf("getting policies: %w", err)
	}
	return policies, nil
}

// DeletePolicy deletes a policy configuration
func (c *SecurityClient) DeletePolicy(ctx context.Context, projectID string, policyID int) error {
	requestURL := c.policiesURL(projectID) + "/" + strconv.Itoa(policyID) + "?api-version=6.0"
	response, err := c.http.Delete(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := c.http.CheckResponse(response); err != nil {
		return fmt.Errorf("deleting policy %d: %w", policyID, err)
	}
	return nil
}

func (c *SecurityClient) createPolicy(ctx context.Context, projectID string, policy PolicyConfiguration) (*PolicyConfiguration, error) {
	c.log.Debugf("Creating policy %s", policy.Type.ID)

	response, err := c.http.Post(ctx, c.policiesURL(projectID)+"?api-version=5.0", policy)
	if err != nil {
		return nil, err
	}
	created := new(PolicyConfiguration)
	if err := c.http.DecodeResponse(response, created); err != nil {
		return nil, fmt.Errorf("creating policy %s: %w", policy.Type.ID, err)
	}
	return created, nil
}

// BranchRef identifies a branch of a repository
type BranchRef struct {
	ProjectID    string
	RepositoryID string
	// Branch is the name without refs/heads/
	Branch string
}

// StatusCheckPolicyOptions are the arguments to AddBranchStatusCheckPolicy
type StatusCheckPolicyOptions struct {
	BranchRef
	StatusName               string
	StatusGenre              string
	IsBlocking               bool
	IsEnabled                bool
	RequiredStatusAuthorID   *string
	DefaultDisplayName       *string
	InvalidateOnSourceUpdate bool
	FilenameFilter           []string
	Applicability            PolicyApplicability
}

// DefaultStatusCheckPolicyOptions returns blocking, enabled options that invalidate on source updates
func DefaultStatusCheckPolicyOptions(branch BranchRef, statusName string, statusGenre string) StatusCheckPolicyOptions {
	return StatusCheckPolicyOptions{
		BranchRef:                branch,
		StatusName:               statusName,
		StatusGenre:              statusGenre,
		IsBlocking:               true,
		IsEnabled:                true,
		InvalidateOnSourceUpdate: true,
	}
}

// AddBranchStatusCheckPolicy requires a status to be posted before pull requests to a branch complete
func (c *SecurityClient) AddBranchStatusCheckPolicy(ctx context.Context, opts StatusCheckPolicyOptions) (*PolicyConfiguration, error) {
	settings := JSONObject{
		"authorId":                 opts.RequiredStatusAuthorID,
		"defaultDisplayName":       opts.DefaultDisplayName,
		"invalidateOnSourceUpdate": opts.InvalidateOnSourceUpdate,
		"policyApplicability":      opts.Applicability.value(),
		"statusName":               opts.StatusName,
		"statusGenre":              opts.StatusGenre,
		"scope":                    branchScope(opts.RepositoryID, opts.Branch, "Exact"),
	}
	if len(opts.FilenameFilter) > 0 {
		settings["filenamePatterns"] = opts.FilenameFilter
	}
	return c.createPolicy(ctx, opts.ProjectID, PolicyConfiguration{
		Type:       PolicyType{ID: PolicyStatusCheck},
		Revision:   1,
		IsBlocking: opts.IsBlocking,
		IsEnabled:  opts.IsEnabled,
		Settings:   settings,
	})
}

// AddBranchBuildPolicy requires a build to succeed before pull requests to a branch complete.
// A nil buildExpiration means the build result expires immediately when the source branch changes.
func (c *SecurityClient) AddBranchBuildPolicy(ctx context.Context, branch BranchRef, buildDefinitionID int, buildExpiration *int) (*PolicyConfiguration, error) {
	validDuration := 0
	if buildExpiration != nil {
		validDuration = *buildExpiration
	}
	return c.createPolicy(ctx, branch.ProjectID, PolicyConfiguration{
		Type:       PolicyType{ID: PolicyBuild},
		Revision:   1,
		IsBlocking: true,
		IsEnabled:  true,
		Settings: JSONObject{
			"buildDefinitionId":       buildDefinitionID,
			"displayName":             nil,
			"queueOnSourceUpdateOnly": buildExpiration != nil,
			"manualQueueOnly":         false,
			"validDuration":           validDuration,
			"scope":                   branchScope(branch.RepositoryID, branch.Branch, "Exact"),
		},
	})
}

// AddBranchRequiredReviewersPolicy adds required reviewers to pull requests to a branch
func (c *SecurityClient) AddBranchRequiredReviewersPolicy(ctx context.Context, branch BranchRef, identities []TeamFoundationID) (*PolicyConfiguration, error) {
	return c.createPolicy(ctx, branch.ProjectID, PolicyConfiguration{
		Type:       PolicyType{ID: PolicyRequiredReviewers},
		Revision:   1,
		IsBlocking: true,
		IsEnabled:  true,
		Settings: JSONObject{
			"requiredReviewerIds":     identities,
			"filenamePatterns":        []string{},
			"addedFilesOnly":          false,
			"ignoreIfSourceIsInScope": false,
			"message":                 nil,
			"scope":                   branchScope(branch.RepositoryID, branch.Branch, "Exact"),
		},
	})
}

// ApprovalCountPolicyOptions are the arguments to SetBranchApprovalCountPolicy
type ApprovalCountPolicyOptions struct {
	BranchRef
	MinimumApproverCount int
	CreatorVoteCounts    bool
	ResetOnSourcePush    bool
}

// SetBranchApprovalCountPolicy sets the minimum number of approvals for pull requests to a branch
func (c *SecurityClient) SetBranchApprovalCountPolicy(ctx context.Context, opts ApprovalCountPolicyOptions) (*PolicyConfiguration, error) {
	return c.createPolicy(ctx, opts.ProjectID, PolicyConfiguration{
		Type:       PolicyType{ID: PolicyApprovalCount},
		Revision:   2,
		IsBlocking: true,
		IsEnabled:  true,
		Settings: JSONObject{
			"minimumApproverCount": opts.MinimumApproverCount,
			"creatorVoteCounts":    opts.CreatorVoteCounts,
			"resetOnSourcePush":    opts.ResetOnSourcePush,
			"scope":                branchScope(opts.RepositoryID, opts.Branch, "exact"),
		},
	})
}

// SetBranchWorkItemPolicy sets whether pull requests to a branch need linked work items
func (c *SecurityClient) SetBranchWorkItemPolicy(ctx context.Context, branch BranchRef, required bool) (*PolicyConfiguration, error) {
	return c.createPolicy(ctx, branch.ProjectID, PolicyConfiguration{
		Type:       PolicyType{ID: PolicyWorkItem},
		Revision:   2,
		IsBlocking: required,
		IsEnabled:  true,
		Settings: JSONObject{
			"scope": branchScope(branch.RepositoryID, branch.Branch, "Exact"),
		},
	})
}

type permissionUpdate struct {
	PermissionID  PermissionLevel  `json:"PermissionId"`
	PermissionBit BranchPermission `json:"PermissionBit"`
	NamespaceID   string           `json:"NamespaceId"`
	Token         string           `json:"Token"`
}

type permissionPackage struct {
	IsRemovingIdentity     bool               `json:"IsRemovingIdentity"`
	TeamFoundationID       TeamFoundationID   `json:"TeamFoundationId"`
	DescriptorIdentityType string             `json:"DescriptorIdentityType"`
	DescriptorIdentifier   string             `json:"DescriptorIdentifier"`
	PermissionSetID        string             `json:"PermissionSetId"`
	PermissionSetToken     string             `json:"PermissionSetToken"`
	RefreshIdentities      bool               `json:"RefreshIdentities"`
	Updates                []permissionUpdate `json:"Updates"`
	TokenDisplayName       *string            `json:"TokenDisplayName"`
}

// SetBranchPermissions sets permissions of an identity on a branch
func (c *SecurityClient) SetBranchPermissions(ctx context.Context, branch BranchRef, identity TeamFoundationID, permissions map[BranchPermission]PermissionLevel) (JSONObject, error) {
	display, err := c.GetPermissions(ctx, branch, identity)
	if err != nil {
		return nil, err
	}
	if display.DescriptorIdentityType == "" || display.DescriptorIdentifier == "" {
		return nil, fmt.Errorf("%w: could not determine descriptor info for %s", ErrInvalidResponse, identity)
	}

	bits := make([]BranchPermission, 0, len(permissions))
	for bit := range permissions {
		bits = append(bits, bit)
	}
	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })

	updatesToken := GenerateUpdatesToken(branch.ProjectID, branch.RepositoryID, branch.Branch)
	updates := make([]permissionUpdate, 0, len(bits))
	for _, bit := range bits {
		updates = append(updates, permissionUpdate{
			PermissionID:  permissions[bit],
			PermissionBit: bit,
			NamespaceID:   GitPermissionsNamespace,
			Token:         updatesToken,
		})
	}

	updatePackage, err := json.Marshal(permissionPackage{
		TeamFoundationID:       identity,
		DescriptorIdentityType: display.DescriptorIdentityType,
		DescriptorIdentifier:   display.DescriptorIdentifier,
		PermissionSetID:        GitPermissionsNamespace,
		PermissionSetToken:     permissionSetToken(branch),
		Updates:                updates,
	})
	if err != nil {
		return nil, err
	}

	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: branch.ProjectID, Internal: true}) + "/_security/ManagePermissions?__v=5"
	response, err := c.http.Post(ctx, requestURL, JSONObject{"updatePackage": string(updatePackage)})
	if err != nil {
		return nil, err
	}
	result := JSONObject{}
	if err := c.http.DecodeResponse(response, &result); err != nil {
		return nil, fmt.Errorf("setting permissions of %s on %s: %w", identity, branch.Branch, err)
	}
	return result, nil
}

// GetPermissions returns the permissions of an identity on a branch
func (c *SecurityClient) GetPermissions(ctx context.Context, branch BranchRef, identity TeamFoundationID) (*PermissionsDisplay, error) {
	parameters := url.Values{}
	parameters.Set("tfid", identity.String())
	parameters.Set("permissionSetId", GitPermissionsNamespace)
	parameters.Set("permissionSetToken", permissionSetToken(branch))
	parameters.Set("__v", "5")
	requestURL := c.http.APIEndpoint(Endpoint{ProjectID: branch.ProjectID, Internal: true}) +
		"/_security/DisplayPermissions?" + parameters.Encode()

	display := new(PermissionsDisplay)
	if err := c.http.getJSON(ctx, requestURL, display); err != nil {
		return nil, fmt.Errorf("getting permissions of %s on %s: %w", identity, branch.Branch, err)
	}
	return display, nil
}

// permissionSetToken is the token for reading identity details and writing permissions
func permissionSetToken(branch BranchRef) string {
	return "repoV2/" + branch.ProjectID + "/" + branch.RepositoryID + "/refs^heads^" + strings.ReplaceAll(branch.Branch, "/", "^") + "/"
}

// GenerateUpdatesToken returns the token for updating permissions. repositoryID and branchName are optional,
// but a branch requires a repository. Each segment of the branch is hex encoded UTF-16LE.
func GenerateUpdatesToken(projectID string, repositoryID string, branchName string) string {
	token := "repoV2/" + projectID + "/"
	if repositoryID == "" {
		return token
	}
	token += repositoryID + "/"
	if branchName == "" {
		return token
	}

	segments := strings.Split(branchName, "/")
	for i, segment := range segments {
		segments[i] = encodeUTF16LEHex(segment)
	}
	return token + "refs/heads/" + strings.Join(segments, "/") + "/"
}

func encodeUTF16LEHex(s string) string {
	units := utf16.Encode([]rune(s))
	encoded := make([]byte, 0, len(units)*2)
	for _, unit := range units {
		encoded = append(encoded, byte(unit), byte(unit>>8))
	}
	return hex.EncodeToString(encoded)
}

// QueryNamespaces returns a security namespace. localOnly is omitted when nil.
func (c *SecurityClient) QueryNamespaces(ctx context.Context, namespaceID string, localOnly *bool) ([]SecurityNamespace, error) {
	requestURL := c.http.APIEndpoint(Endpoint{}) + "/securitynamespaces/" + namespaceID + "?api-version=7.1-preview.1"
	if localOnly != nil {
		requestURL += "&localOnly=" + strconv.FormatBool(*localOnly)
	}

	namespaces, err := getValue[SecurityNamespace](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("querying namespace %s: %w", namespaceID, err)
	}
	return namespaces, nil
}

// QueryAccessControlLists returns the access control lists of a namespace, optionally filtered by
// identity descriptors and a token. Descriptors are prefixed with the identity descriptor type if needed.
func (c *SecurityClient) QueryAccessControlLists(ctx context.Context, namespaceID string, descriptors []string, token string) ([]AccessControlList, error) {
	requestURL := c.http.APIEndpoint(Endpoint{}) + "/accesscontrollists/" + namespaceID + "?api-version=7.1-preview.1"
	if len(descriptors) > 0 {
		prefixed := make([]string, len(descriptors))
		for i, descriptor := range descriptors {
			if !strings.HasPrefix(descriptor, identityDescriptorPrefix) {
				descriptor = identityDescriptorPrefix + descriptor
			}
			prefixed[i] = descriptor
		}
		requestURL += "&descriptors=" + strings.Join(prefixed, ",")
	}
	if token != "" {
		requestURL += "&token=" + token
	}

	acls, err := getValue[AccessControlList](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("querying access control lists of %s: %w", namespaceID, err)
	}
	return acls, nil
}
