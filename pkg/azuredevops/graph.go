package azuredevops

import (
	"context"
	"fmt"
)

// GraphDescriptor is the response of the descriptor and storage key APIs
type GraphDescriptor struct {
	Value string `json:"value"`
	Links Links  `json:"_links,omitempty"`
}

// GraphSubject is a user or group in the graph
type GraphSubject struct {
	SubjectKind   string `json:"subjectKind"`
	Descriptor    string `json:"descriptor"`
	DisplayName   string `json:"displayName"`
	PrincipalName string `json:"principalName"`
	MailAddress   string `json:"mailAddress"`
	Origin        string `json:"origin"`
	OriginID      string `json:"originId"`
	Domain        string `json:"domain"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Links         Links  `json:"_links,omitempty"`
}

// GraphMembership links a member to the container it belongs to
type GraphMembership struct {
	ContainerDescriptor string `json:"containerDescriptor"`
	MemberDescriptor    string `json:"memberDescriptor"`
	Links               Links  `json:"_links,omitempty"`
}

type subjectLookupKey struct {
	Descriptor string `json:"descriptor"`
}

// GraphClient wraps the graph APIs
type GraphClient struct {
	baseClient
}

// GetScopeDescriptors returns the scope descriptor of a storage key
func (c *GraphClient) GetScopeDescriptors(ctx context.Context, storageKey string) (*GraphDescriptor, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/descriptors/" + storageKey + "/?api-version=6.0-preview.1"
	descriptor := new(GraphDescriptor)
	if err := c.http.getJSON(ctx, requestURL, descriptor); err != nil {
		return nil, fmt.Errorf("getting scope descriptor of %s: %w", storageKey, err)
	}
	return descriptor, nil
}

// GetStorageKey returns the storage key of a subject descriptor
func (c *GraphClient) GetStorageKey(ctx context.Context, subjectDescriptor string) (*GraphDescriptor, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/storagekeys/" + subjectDescriptor + "/?api-version=6.0-preview.1"
	storageKey := new(GraphDescriptor)
	if err := c.http.getJSON(ctx, requestURL, storageKey); err != nil {
		return nil, fmt.Errorf("getting storage key of %s: %w", subjectDescriptor, err)
	}
	return storageKey, nil
}

// LookupSubjects resolves subject descriptors. The result is keyed by descriptor.
func (c *GraphClient) LookupSubjects(ctx context.Context, subjectDescriptors []string) (map[string]GraphSubject, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/subjectlookup/?api-version=6.0-preview.1"

	keys := make([]subjectLookupKey, 0, len(subjectDescriptors))
	for _, descriptor := range subjectDescriptors {
		keys = append(keys, subjectLookupKey{Descriptor: descriptor})
	}

	response, err := c.http.Post(ctx, requestURL, JSONObject{"lookupKeys": keys})
	if err != nil {
		return nil, err
	}
	subjects := map[string]GraphSubject{}
	if err := c.http.extractValue(response, &subjects); err != nil {
		return nil, fmt.Errorf("looking up %d subjects: %w", len(subjectDescriptors), err)
	}
	return subjects, nil
}

// ListGroups returns the groups of the organization, optionally restricted to a scope
func (c *GraphClient) ListGroups(ctx context.Context, scopeDescriptor string) ([]GraphSubject, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/groups?api-version=5.1-preview.1"
	if scopeDescriptor != "" {
		requestURL += "&scopeDescriptor=" + scopeDescriptor
	}

	groups, err := getAllPages[GraphSubject](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}

// GetGroup returns a group by descriptor
func (c *GraphClient) GetGroup(ctx context.Context, descriptor string) (*GraphSubject, error) {
	return c.getSubject(ctx, "groups", descriptor, "5.1-preview.1")
}

// GetUser returns a user by descriptor
func (c *GraphClient) GetUser(ctx context.Context, descriptor string) (*GraphSubject, error) {
	return c.getSubject(ctx, "users", descriptor, "5.1-preview.1")
}

func (c *GraphClient) getSubject(ctx context.Context, kind string, descriptor string, apiVersion string) (*GraphSubject, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/" + kind + "/" + descriptor + "?api-version=" + apiVersion
	subject := new(GraphSubject)
	if err := c.http.getJSON(ctx, requestURL, subject); err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", kind, descriptor, err)
	}
	return subject, nil
}

// GetUsers returns the first page of users of the organization
func (c *GraphClient) GetUsers(ctx context.Context) ([]GraphSubject, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/users?api-version=6.0-preview.1"
	users, err := getValue[GraphSubject](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("getting users: %w", err)
	}
	return users, nil
}

// ListUsersInContainer returns the memberships of a container, following continuation tokens
func (c *GraphClient) ListUsersInContainer(ctx context.Context, scopeDescriptor string) ([]GraphMembership, error) {
	requestURL := c.http.GraphEndpoint() + "/graph/Memberships/" + scopeDescriptor + "?api-version=7.1-preview.1&direction=down"

	memberships, err := getAllPages[GraphMembership](ctx, c.http, requestURL)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", scopeDescriptor, err)
	}
	return memberships, nil
}
