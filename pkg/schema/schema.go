// Package schema defines the canonical metadata representation shared by all
// validation backends: a JSON-Schema-like tree describing field types,
// defaults, required keys, nesting, and the additional-properties policy.
// Adapters normalize their native schema language into this IR; the
// reconciliation pipeline consumes only the IR.
package schema

import "sort"

// Type names recognised by the IR. Date is a convenience classification for
// string fields carrying a date/date-time format.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is one node of the metadata tree. Every field reachable from the
// root carries at most one default and one type classification.
type Schema struct {
	Type        string
	Format      string
	Title       string
	Description string
	Default     any
	Enum        []any
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	// AdditionalProperties governs key filtering during reconciliation.
	// nil means "not declared" and is treated as false when the node
	// declares properties, and as true when it declares none (see
	// Permissive).
	AdditionalProperties *bool
	Minimum              *float64
	Maximum              *float64
	ExclusiveMinimum     bool
	ExclusiveMaximum     bool
	MinLength            *int
	MaxLength            *int
	Pattern              string
}

// IsRequired reports whether name appears in the node's required list.
func (s Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// Property returns the declared schema for a child key.
func (s Schema) Property(name string) (Schema, bool) {
	child, ok := s.Properties[name]
	return child, ok
}

// PropertyNames returns the declared keys in sorted order.
func (s Schema) PropertyNames() []string {
	if len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Permissive reports whether extra keys survive reconciliation at this node.
// An object that declares no properties at all is treated as permissive so a
// misconfigured schema never silently discards user data.
func (s Schema) Permissive() bool {
	if s.AdditionalProperties != nil {
		return *s.AdditionalProperties
	}
	return len(s.Properties) == 0
}

// IsDate reports whether the node is a string field carrying a date format.
func (s Schema) IsDate() bool {
	if s.Type != TypeString && s.Type != "" {
		return false
	}
	return s.Format == "date" || s.Format == "date-time"
}

// Bool is a convenience for building *bool literals in schema declarations.
func Bool(v bool) *bool { return &v }

// Float is a convenience for building *float64 bound declarations.
func Float(v float64) *float64 { return &v }

// Int is a convenience for building *int length declarations.
func Int(v int) *int { return &v }
