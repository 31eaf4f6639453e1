package jsonschema

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// ConvertMap normalizes a decoded JSON Schema node into the canonical IR.
// It handles both draft-07 boolean exclusive bounds and 2020-12 numeric
// ones.
func ConvertMap(node map[string]any) (schema.Schema, error) {
	return convert(node, "#")
}

func convert(node map[string]any, at string) (schema.Schema, error) {
	out := schema.Schema{
		Type:        readType(node),
		Format:      readString(node, "format"),
		Title:       readString(node, "title"),
		Description: readString(node, "description"),
		Default:     node["default"],
		Pattern:     readString(node, "pattern"),
	}

	if raw, ok := node["enum"].([]any); ok && len(raw) > 0 {
		out.Enum = append([]any(nil), raw...)
	}

	if raw, ok := node["required"].([]any); ok {
		for _, entry := range raw {
			name, ok := entry.(string)
			if !ok {
				return schema.Schema{}, fmt.Errorf("jsonschema: non-string required entry at %s", at)
			}
			out.Required = append(out.Required, name)
		}
	}

	if raw, ok := node["properties"].(map[string]any); ok {
		out.Properties = make(map[string]schema.Schema, len(raw))
		for name, child := range raw {
			childNode, ok := child.(map[string]any)
			if !ok {
				return schema.Schema{}, fmt.Errorf("jsonschema: property %q at %s is not an object", name, at)
			}
			converted, err := convert(childNode, at+"/properties/"+name)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Properties[name] = converted
		}
	}

	if raw, ok := node["items"].(map[string]any); ok {
		converted, err := convert(raw, at+"/items")
		if err != nil {
			return schema.Schema{}, err
		}
		out.Items = &converted
	}

	switch extra := node["additionalProperties"].(type) {
	case bool:
		out.AdditionalProperties = schema.Bool(extra)
	case map[string]any:
		// A schema-valued additionalProperties admits extra keys.
		out.AdditionalProperties = schema.Bool(true)
	}

	out.Minimum = readNumber(node, "minimum")
	out.Maximum = readNumber(node, "maximum")

	switch exclusive := node["exclusiveMinimum"].(type) {
	case bool:
		out.ExclusiveMinimum = exclusive
	default:
		if bound := toNumber(exclusive); bound != nil {
			out.Minimum = bound
			out.ExclusiveMinimum = true
		}
	}
	switch exclusive := node["exclusiveMaximum"].(type) {
	case bool:
		out.ExclusiveMaximum = exclusive
	default:
		if bound := toNumber(exclusive); bound != nil {
			out.Maximum = bound
			out.ExclusiveMaximum = true
		}
	}

	out.MinLength = readInt(node, "minLength")
	out.MaxLength = readInt(node, "maxLength")
	return out, nil
}

// readType accepts both a single type name and a 2020-12 type list, picking
// the first non-null entry.
func readType(node map[string]any) string {
	switch raw := node["type"].(type) {
	case string:
		return raw
	case []any:
		for _, entry := range raw {
			if name, ok := entry.(string); ok && name != "null" {
				return name
			}
		}
	}
	return ""
}

func readString(node map[string]any, key string) string {
	value, _ := node[key].(string)
	return value
}

func readNumber(node map[string]any, key string) *float64 {
	return toNumber(node[key])
}

func toNumber(value any) *float64 {
	switch n := value.(type) {
	case float64:
		return schema.Float(n)
	case int:
		return schema.Float(float64(n))
	case int64:
		return schema.Float(float64(n))
	default:
		return nil
	}
}

func readInt(node map[string]any, key string) *int {
	switch n := node[key].(type) {
	case float64:
		return schema.Int(int(n))
	case int:
		return schema.Int(n)
	case int64:
		return schema.Int(int(n))
	default:
		return nil
	}
}
