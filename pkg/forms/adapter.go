package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Issue is one validation failure produced by an adapter. Path uses the
// canonical dotted/bracketed syntax ("items[2].price"); an empty path
// addresses the form itself.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of one validation call. Data carries the adapter's
// normalized echo of the record when Success is true.
type Result struct {
	Success bool
	Data    Record
	Issues  []Issue
}

// Adapter is the uniform capability contract every validation backend
// satisfies. Implementations must be stateless per call so different forms
// can validate concurrently; any schema compilation caching must be safe
// under concurrent reads.
type Adapter interface {
	// Name labels the backend for diagnostics. The pipeline never branches
	// on it.
	Name() string
	// Defaults returns the fully-populated default-value tree.
	Defaults() Record
	// Schema exposes the canonical metadata used for key filtering and
	// input coercion.
	Schema() schema.Schema
	// Constraints returns the client hinting tree derived from the schema.
	Constraints() schema.Constraints
	// Validate checks a record. It reports data problems through the
	// Result, never through the error return; the error is reserved for
	// adapter malfunction.
	Validate(ctx context.Context, record Record) (Result, error)
}

// ValidateFunc adapts a plain function to the validation step, used both by
// backends and by callers that short-circuit the generic validator with a
// custom one.
type ValidateFunc func(ctx context.Context, record Record) (Result, error)

// AdapterOption configures a SchemaAdapter.
type AdapterOption func(*SchemaAdapter)

// WithValidator overrides the adapter's validation function.
func WithValidator(fn ValidateFunc) AdapterOption {
	return func(a *SchemaAdapter) {
		a.validate = fn
	}
}

// SchemaAdapter is the shared backend base: it derives defaults and
// constraints from the canonical schema once at construction and delegates
// validation to the supplied function. Backends wrap their native schema
// language into a schema.Schema and build one of these.
type SchemaAdapter struct {
	name        string
	schema      schema.Schema
	defaults    Record
	constraints schema.Constraints
	validate    ValidateFunc
}

// NewSchemaAdapter builds an adapter from canonical schema metadata.
// Malformed metadata is a setup-time failure; validation calls never fail on
// schema problems afterwards.
func NewSchemaAdapter(name string, s schema.Schema, opts ...AdapterOption) (*SchemaAdapter, error) {
	if name == "" {
		return nil, errors.New("forms: adapter name is required")
	}
	if err := checkSchema(s, ""); err != nil {
		return nil, fmt.Errorf("forms: adapter %q: %w", name, err)
	}

	adapter := &SchemaAdapter{
		name:        name,
		schema:      s,
		defaults:    Record(schema.Defaults(s)),
		constraints: schema.DeriveConstraints(s),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.validate == nil {
		return nil, fmt.Errorf("forms: adapter %q: validator is required", name)
	}
	return adapter, nil
}

// Name implements Adapter.
func (a *SchemaAdapter) Name() string { return a.name }

// Defaults implements Adapter. The tree is cloned so callers cannot corrupt
// the adapter's cached copy.
func (a *SchemaAdapter) Defaults() Record { return a.defaults.Clone() }

// Schema implements Adapter.
func (a *SchemaAdapter) Schema() schema.Schema { return a.schema }

// Constraints implements Adapter.
func (a *SchemaAdapter) Constraints() schema.Constraints { return a.constraints }

// Validate implements Adapter.
func (a *SchemaAdapter) Validate(ctx context.Context, record Record) (Result, error) {
	return a.validate(ctx, record)
}

var knownTypes = map[string]struct{}{
	"":                 {},
	schema.TypeString:  {},
	schema.TypeNumber:  {},
	schema.TypeInteger: {},
	schema.TypeBoolean: {},
	schema.TypeArray:   {},
	schema.TypeObject:  {},
}

func checkSchema(s schema.Schema, at string) error {
	if _, ok := knownTypes[s.Type]; !ok {
		return fmt.Errorf("unknown type %q at %q", s.Type, rootedPath(at))
	}
	for _, req := range s.Required {
		if req == "" {
			return fmt.Errorf("empty required entry at %q", rootedPath(at))
		}
	}
	for name, prop := range s.Properties {
		if name == "" {
			return fmt.Errorf("empty property name at %q", rootedPath(at))
		}
		child := at + "." + name
		if at == "" {
			child = name
		}
		if err := checkSchema(prop, child); err != nil {
			return err
		}
	}
	if s.Items != nil {
		if err := checkSchema(*s.Items, at+"[]"); err != nil {
			return err
		}
	}
	return nil
}

func rootedPath(at string) string {
	if at == "" {
		return "$"
	}
	return at
}
