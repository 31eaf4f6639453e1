package schema

// Defaults derives the fully-populated default-value tree for an object
// schema. Every declared property receives a value: the declared default when
// present, else a type-appropriate zero value. Declared defaults are deep
// copied so callers never alias the schema metadata.
func Defaults(s Schema) map[string]any {
	out := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		out[name] = DefaultValue(prop)
	}
	return out
}

// DefaultValue returns the default for a single schema node.
func DefaultValue(s Schema) any {
	if s.Default != nil {
		return cloneValue(s.Default)
	}
	switch s.Type {
	case TypeString:
		return ""
	case TypeBoolean:
		return false
	case TypeNumber:
		return float64(0)
	case TypeInteger:
		return int64(0)
	case TypeArray:
		return []any{}
	case TypeObject:
		return Defaults(s)
	default:
		return nil
	}
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
