package azuredevops_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
)

func TestPropertyValueMarshal(t *testing.T) {
	encoded, err := json.Marshal(map[string]azuredevops.PropertyValue{
		"name":    azuredevops.StringProperty("value"),
		"count":   azuredevops.IntProperty(3),
		"updated": azuredevops.DateTimeProperty(time.Date(2024, 5, 6, 7, 8, 9, 50000000, time.UTC)),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": {"$type": "System.String", "$value": "value"},
		"count": {"$type": "System.Int32", "$value": 3},
		"updated": {"$type": "System.DateTime", "$value": "2024-05-06T07:08:09.05Z"}
	}`, string(encoded))
}

func TestPropertyValueUnmarshal(t *testing.T) {
	var properties map[string]azuredevops.PropertyValue
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": {"$type": "System.String", "$value": "value"},
		"count": {"$type": "System.Int32", "$value": 3},
		"updated": {"$type": "System.DateTime", "$value": "2024-05-06T07:08:09.05Z"},
		"flag": {"$type": "System.Boolean", "$value": true}
	}`), &properties))

	assert.Equal(t, "value", properties["name"].Value)
	assert.Equal(t, 3, properties["count"].Value)
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 50000000, time.UTC), properties["updated"].Value)
	assert.Equal(t, json.RawMessage("true"), properties["flag"].Value)
}

func TestPropertyValueUnmarshalInvalid(t *testing.T) {
	var property azuredevops.PropertyValue
	assert.Error(t, json.Unmarshal([]byte(`{"$type": "System.Int32", "$value": "three"}`), &property))
	assert.Error(t, json.Unmarshal([]byte(`{"$type": "System.DateTime", "$value": "yesterday"}`), &property))
}

func TestCommentStatusUnmarshal(t *testing.T) {
	var statuses []azuredevops.CommentStatus
	require.NoError(t, json.Unmarshal([]byte(`["active", "WontFix", 4]`), &statuses))
	assert.Equal(t, []azuredevops.CommentStatus{
		azuredevops.CommentStatusActive,
		azuredevops.CommentStatusWontFix,
		azuredevops.CommentStatusClosed,
	}, statuses)

	var status azuredevops.CommentStatus
	assert.Error(t, json.Unmarshal([]byte(`"resolved"`), &status))
}

func TestCommentProperties(t *testing.T) {
	assert.Equal(t, azuredevops.CommentIntProperty(1), azuredevops.CommentBoolProperty(true))
	assert.Equal(t, azuredevops.CommentIntProperty(0), azuredevops.CommentBoolProperty(false))
	assert.Equal(t, "/src/main.go", azuredevops.NewCommentLocation("src/main.go", 3, 1).FilePath)
}
