package schema

// Constraint carries the client-side hinting metadata for one field. The
// JSON tags match the attribute names a browser form layer expects.
type Constraint struct {
	Required  bool     `json:"required,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minlength,omitempty"`
	MaxLength *int     `json:"maxlength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Format    string   `json:"format,omitempty"`
}

// Empty reports whether the constraint carries no hints at all.
func (c Constraint) Empty() bool {
	return !c.Required && c.Min == nil && c.Max == nil &&
		c.MinLength == nil && c.MaxLength == nil && c.Pattern == "" && c.Format == ""
}

// Constraints mirrors the object shape of the schema: values are either
// Constraint leaves or nested Constraints. The tree is derived once from the
// metadata and never mutated by the pipeline.
type Constraints map[string]any

// DeriveConstraints walks an object schema and collects the sparse hint tree.
// Fields without any hints are omitted entirely.
func DeriveConstraints(s Schema) Constraints {
	out := Constraints{}
	for name, prop := range s.Properties {
		if node := constraintNode(prop, s.IsRequired(name)); node != nil {
			out[name] = node
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func constraintNode(s Schema, required bool) any {
	switch s.Type {
	case TypeObject:
		nested := DeriveConstraints(s)
		if len(nested) == 0 {
			return nil
		}
		return nested
	case TypeArray:
		// Array hints describe the entries; required-ness carries over from
		// the field itself.
		if s.Items != nil {
			return constraintNode(*s.Items, required)
		}
		if !required {
			return nil
		}
		return Constraint{Required: true}
	default:
		c := Constraint{
			Required:  required,
			Min:       s.Minimum,
			Max:       s.Maximum,
			MinLength: s.MinLength,
			MaxLength: s.MaxLength,
			Pattern:   s.Pattern,
			Format:    s.Format,
		}
		if c.Empty() {
			return nil
		}
		return c
	}
}
