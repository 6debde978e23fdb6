package azuredevops

import "encoding/json"

// Definition is the base type for Azure Devops responses
type Definition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IdentityRef is how users and groups are referenced in the Azure Devops API
type IdentityRef struct {
	DisplayName string `json:"displayName"`
	URL         string `json:"url,omitempty"`
	ID          string `json:"id"`
	UniqueName  string `json:"uniqueName,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Descriptor  string `json:"descriptor,omitempty"`
	IsContainer bool   `json:"isContainer,omitempty"`
}

// ProjectRef references a team project
type ProjectRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	State       string `json:"state,omitempty"`
	Revision    int    `json:"revision,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

// APIError is returned when an error occurs in the API, such as an invalid ID being used.
type APIError struct {
	ID             string          `json:"$id,omitempty"`
	InnerException json.RawMessage `json:"innerException,omitempty"`
	Message        string          `json:"message"`
	TypeName       string          `json:"typeName"`
	TypeKey        string          `json:"typeKey"`
	ErrorCode      int             `json:"errorCode"`
	EventID        int             `json:"eventId"`
}

// JSONObject is an untyped JSON object, used for endpoints whose payloads are too loosely defined to type
type JSONObject = map[string]interface{}

// Links holds the _links of a resource
type Links map[string]struct {
	Href string `json:"href"`
}
