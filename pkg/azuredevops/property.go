package azuredevops

import (
	"encoding/json"
	"fmt"
	"time"
)

// Property value types
const (
	PropertyTypeString   = "System.String"
	PropertyTypeInt32    = "System.Int32"
	PropertyTypeDateTime = "System.DateTime"
)

// PropertyValue is a typed property value, serialized as {"$type": ..., "$value": ...}.
// Value is a string, int, or time.Time for the known types and the raw JSON otherwise.
type PropertyValue struct {
	Type  string
	Value interface{}
}

// StringProperty returns a System.String property value
func StringProperty(value string) PropertyValue {
	return PropertyValue{Type: PropertyTypeString, Value: value}
}

// IntProperty returns a System.Int32 property value
func IntProperty(value int) PropertyValue {
	return PropertyValue{Type: PropertyTypeInt32, Value: value}
}

// DateTimeProperty returns a System.DateTime property value
func DateTimeProperty(value time.Time) PropertyValue {
	return PropertyValue{Type: PropertyTypeDateTime, Value: value}
}

// formatPropertyTime formats with hundredths of a second, the precision Azure Devops round trips
func formatPropertyTime(value time.Time) string {
	return fmt.Sprintf("%s.%02dZ", value.UTC().Format("2006-01-02T15:04:05"), value.Nanosecond()/10000000)
}

// MarshalJSON implements json.Marshaler
func (p PropertyValue) MarshalJSON() ([]byte, error) {
	value := p.Value
	if t, ok := value.(time.Time); ok {
		value = formatPropertyTime(t)
	}
	return json.Marshal(struct {
		Type  string      `json:"$type"`
		Value interface{} `json:"$value"`
	}{p.Type, value})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PropertyValue) UnmarshalJSON(data []byte) error {
	raw := struct {
		Type  string          `json:"$type"`
		Value json.RawMessage `json:"$value"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Type = raw.Type
	switch raw.Type {
	case PropertyTypeString:
		var value string
		if err := json.Unmarshal(raw.Value, &value); err != nil {
			return fmt.Errorf("decoding %s property: %w", raw.Type, err)
		}
		p.Value = value
	case PropertyTypeInt32:
		var value int
		if err := json.Unmarshal(raw.Value, &value); err != nil {
			return fmt.Errorf("decoding %s property: %w", raw.Type, err)
		}
		p.Value = value
	case PropertyTypeDateTime:
		var value string
		if err := json.Unmarshal(raw.Value, &value); err != nil {
			return fmt.Errorf("decoding %s property: %w", raw.Type, err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return fmt.Errorf("decoding %s property: %w", raw.Type, err)
		}
		p.Value = parsed
	default:
		p.Value = raw.Value
	}
	return nil
}
