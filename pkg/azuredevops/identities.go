package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// TeamFoundationID is the unique ID of an identity
type TeamFoundationID uuid.UUID

// ParseTeamFoundationID parses a team foundation ID
func ParseTeamFoundationID(s string) (TeamFoundationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TeamFoundationID{}, fmt.Errorf("%w: invalid team foundation ID %q: %s", ErrInvalidArgument, s, err.Error())
	}
	return TeamFoundationID(id), nil
}

func (id TeamFoundationID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText implements encoding.TextMarshaler
func (id TeamFoundationID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *TeamFoundationID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

// Identity is an identity search result
type Identity struct {
	ID                  TeamFoundationID           `json:"id"`
	Descriptor          string                     `json:"descriptor"`
	SubjectDescriptor   string                     `json:"subjectDescriptor"`
	ProviderDisplayName string                     `json:"providerDisplayName"`
	IsActive            bool                       `json:"isActive"`
	IsContainer         bool                       `json:"isContainer"`
	Properties          map[string]json.RawMessage `json:"properties"`
	ResourceVersion     int                        `json:"resourceVersion"`
	MetaTypeID          int                        `json:"metaTypeId"`
}

// IdentitiesClient wraps the identity APIs
type IdentitiesClient struct {
	baseClient
}

func searchIdentities(ctx context.Context, c *HTTPClient, identity string) ([]Identity, error) {
	requestURL := c.GraphEndpoint() + "/identities?searchFilter=General&filterValue=" + url.QueryEscape(identity) +
		"&queryMembership=None&api-version=6.0"
	identities, err := getValue[Identity](ctx, c, requestURL)
	if err != nil {
		return nil, fmt.Errorf("searching identity %q: %w", identity, err)
	}
	return identities, nil
}

func resolveTeamFoundationID(ctx context.Context, c *HTTPClient, identity string) (TeamFoundationID, error) {
	results, err := searchIdentities(ctx, c, identity)
	if err != nil {
		return TeamFoundationID{}, err
	}
	if len(results) == 0 {
		return TeamFoundationID{}, fmt.Errorf("%w: %s", ErrIdentityNotFound, identity)
	} else if len(results) > 1 {
		return TeamFoundationID{}, fmt.Errorf("%w matching '%s'", ErrAmbiguousIdentity, identity)
	}
	return results[0].ID, nil
}

// Search returns the identities matching a display name, email, or account name
func (c *IdentitiesClient) Search(ctx context.Context, identity string) ([]Identity, error) {
	c.log.Debugf("Searching identity: %s", identity)
	return searchIdentities(ctx, c.http, identity)
}

// GetTeamFoundationID resolves an identity to its team foundation ID. Exactly one identity must match.
func (c *IdentitiesClient) GetTeamFoundationID(ctx context.Context, identity string) (TeamFoundationID, error) {
	return resolveTeamFoundationID(ctx, c.http, identity)
}

// UserClient wraps the user APIs
type UserClient struct {
	baseClient
}

// GetTeamFoundationID resolves a user to their team foundation ID. Exactly one identity must match.
func (c *UserClient) GetTeamFoundationID(ctx context.Context, identity string) (TeamFoundationID, error) {
	c.log.Debugf("Resolving user: %s", identity)
	return resolveTeamFoundationID(ctx, c.http, identity)
}
