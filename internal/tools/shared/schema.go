package shared

import "github.com/mark3labs/mcp-go/mcp"

// Integer narrows a number property to JSON Schema "integer"
func Integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// IntegerEnum restricts a number property to the listed values
func IntegerEnum(values ...int) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
		schema["enum"] = values
	}
}

// WithRequiredObject adds a required object property whose own keys are
// partly required. mcp.Required cannot express both on one property.
func WithRequiredObject(name, description string, properties map[string]any, requiredKeys ...string) mcp.ToolOption {
	return func(t *mcp.Tool) {
		schema := map[string]any{
			"type":        "object",
			"description": description,
			"properties":  properties,
		}
		if len(requiredKeys) > 0 {
			schema["required"] = requiredKeys
		}
		t.InputSchema.Properties[name] = schema
		t.InputSchema.Required = append(t.InputSchema.Required, name)
	}
}

// StringProperty builds a nested string property schema
func StringProperty(description string, minLength int) map[string]any {
	prop := map[string]any{
		"type":        "string",
		"description": description,
	}
	if minLength > 0 {
		prop["minLength"] = minLength
	}
	return prop
}

// BigIntegerProperty builds a nested property accepting a JSON integer or a digit string
func BigIntegerProperty(description string) map[string]any {
	return map[string]any{
		"description": description,
		"anyOf": []map[string]any{
			{"type": "integer", "minimum": 0},
			{"type": "string", "pattern": "^[0-9]+$"},
		},
	}
}
