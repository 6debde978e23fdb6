package azuredevops

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Comment thread properties
const (
	PropertySupportsMarkdown = "Microsoft.TeamFoundation.Discussion.SupportsMarkdown"

	// PropertyCommentIdentifier marks threads created by this client so they can be found and cleaned up later
	PropertyCommentIdentifier = "3533F9EC-9336-4290-85F7-6A6A51AD1861"
)

// commentEndOffset is used as the end of a comment location since the line length is unknown
const commentEndOffset = 9999

// CommentStatus is the status of a comment thread
type CommentStatus int

// Comment statuses
const (
	CommentStatusUnknown CommentStatus = iota
	CommentStatusActive
	CommentStatusFixed
	CommentStatusWontFix
	CommentStatusClosed
	CommentStatusByDesign
	CommentStatusPending
)

var commentStatusNames = map[string]CommentStatus{
	"unknown":  CommentStatusUnknown,
	"active":   CommentStatusActive,
	"fixed":    CommentStatusFixed,
	"wontfix":  CommentStatusWontFix,
	"closed":   CommentStatusClosed,
	"bydesign": CommentStatusByDesign,
	"pending":  CommentStatusPending,
}

// UnmarshalJSON accepts both the numeric and the named forms of a status
func (s *CommentStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		status, exists := commentStatusNames[strings.ToLower(name)]
		if !exists {
			return fmt.Errorf("unknown comment status %q", name)
		}
		*s = status
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid comment status %s", data)
	}
	*s = CommentStatus(value)
	return nil
}

// CommentPropertyValue is the request form of a thread property
type CommentPropertyValue struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// CommentStringProperty returns a string thread property
func CommentStringProperty(value string) CommentPropertyValue {
	return CommentPropertyValue{Type: PropertyTypeString, Value: value}
}

// CommentIntProperty returns an integer thread property
func CommentIntProperty(value int) CommentPropertyValue {
	return CommentPropertyValue{Type: PropertyTypeInt32, Value: value}
}

// CommentBoolProperty returns a boolean thread property, which Azure Devops stores as an integer
func CommentBoolProperty(value bool) CommentPropertyValue {
	if value {
		return CommentIntProperty(1)
	}
	return CommentIntProperty(0)
}

// CommentPosition is a line and offset in a file
type CommentPosition struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// CommentLocation is where a comment is placed in a pull request
type CommentLocation struct {
	FilePath string
	Line     int
	// StartIndex is the offset on the line the comment starts at
	StartIndex int
}

// NewCommentLocation returns a location, prefixing the file path with / if needed
func NewCommentLocation(filePath string, line int, startIndex int) CommentLocation {
	if !strings.HasPrefix(filePath, "/") {
		filePath = "/" + filePath
	}
	return CommentLocation{FilePath: filePath, Line: line, StartIndex: startIndex}
}

// ThreadContext is the API representation of a comment location
type ThreadContext struct {
	FilePath       string           `json:"filePath"`
	LeftFileStart  *CommentPosition `json:"leftFileStart"`
	LeftFileEnd    *CommentPosition `json:"leftFileEnd"`
	RightFileStart *CommentPosition `json:"rightFileStart"`
	RightFileEnd   *CommentPosition `json:"rightFileEnd"`
}

func (l CommentLocation) threadContext() *ThreadContext {
	filePath := l.FilePath
	if !strings.HasPrefix(filePath, "/") {
		filePath = "/" + filePath
	}
	return &ThreadContext{
		FilePath:       filePath,
		RightFileStart: &CommentPosition{Line: l.Line, Offset: l.StartIndex},
		RightFileEnd:   &CommentPosition{Line: l.Line, Offset: commentEndOffset},
	}
}

// NewComment is a comment to create
type NewComment struct {
	Content  string
	Location *CommentLocation
	// ParentID is 0 for a root comment
	ParentID int
}

type commentRequest struct {
	ParentCommentID int    `json:"parentCommentId"`
	Content         string `json:"content"`
	CommentType     int    `json:"commentType"`
}

func (c NewComment) representation() commentRequest {
	return commentRequest{ParentCommentID: c.ParentID, Content: c.Content, CommentType: 1}
}

// Comment is a comment in a thread
type Comment struct {
	ID              int             `json:"id"`
	ParentCommentID int             `json:"parentCommentId"`
	Author          *IdentityRef    `json:"author"`
	Content         string          `json:"content"`
	PublishedDate   string          `json:"publishedDate"`
	LastUpdatedDate string          `json:"lastUpdatedDate"`
	CommentType     json.RawMessage `json:"commentType"`
	IsDeleted       bool            `json:"isDeleted"`
}

// Thread is a comment thread on a pull request
type Thread struct {
	ID              int                      `json:"id"`
	PublishedDate   string                   `json:"publishedDate"`
	LastUpdatedDate string                   `json:"lastUpdatedDate"`
	Comments        []Comment                `json:"comments"`
	Status          CommentStatus            `json:"status"`
	ThreadContext   *ThreadContext           `json:"threadContext"`
	Properties      map[string]PropertyValue `json:"properties"`
	IsDeleted       bool                     `json:"isDeleted"`

	// hasProperties is false when the response had no properties key at all
	hasProperties bool
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Thread) UnmarshalJSON(data []byte) error {
	type thread Thread
	if err := json.Unmarshal(data, (*thread)(t)); err != nil {
		return err
	}
	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, t.hasProperties = keys["properties"]
	return nil
}

// matchesIdentifier returns true if the thread's comment identifier property equals identifier.
// Threads whose first comment is deleted never match.
func (t *Thread) matchesIdentifier(identifier string) (bool, error) {
	if len(t.Comments) > 0 && t.Comments[0].IsDeleted {
		return false, nil
	}
	if !t.hasProperties {
		return false, fmt.Errorf("%w: could not find properties in thread %d", ErrInvalidResponse, t.ID)
	}
	property, exists := t.Properties[PropertyCommentIdentifier]
	if !exists {
		return false, nil
	}
	value, ok := property.Value.(string)
	return ok && value == identifier, nil
}
