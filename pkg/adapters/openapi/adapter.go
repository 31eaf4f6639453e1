// Package openapi wraps the request-body schema of an OpenAPI 3 operation
// behind the validation adapter contract, using kin-openapi for parsing.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/internal/validate"
	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// AdapterName labels the backend for diagnostics.
const AdapterName = "openapi"

// Option configures adapter construction.
type Option func(*config)

type config struct {
	validator    forms.ValidateFunc
	externalRefs bool
}

// WithValidator short-circuits the generic validator with a custom one.
func WithValidator(fn forms.ValidateFunc) Option {
	return func(c *config) {
		c.validator = fn
	}
}

// WithExternalRefs allows the loader to resolve references outside the
// document.
func WithExternalRefs() Option {
	return func(c *config) {
		c.externalRefs = true
	}
}

// FromBytes loads an OpenAPI document and builds an adapter for the request
// body of the operation identified by operationID. Operations without an id
// are addressed as "method:path" in lower case, e.g. "post:/users".
func FromBytes(ctx context.Context, raw []byte, operationID string, opts ...Option) (forms.Adapter, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return nil, errors.New("openapi: operation id is required")
	}
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	operation, ok := findOperation(spec, operationID)
	if !ok {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	requestSchema := extractRequestSchema(operation.RequestBody)
	if requestSchema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	converted := convertSchema(requestSchema)
	if cfg.validator == nil {
		fn, err := validate.New(converted)
		if err != nil {
			return nil, fmt.Errorf("openapi: %w", err)
		}
		cfg.validator = fn
	}
	return forms.NewSchemaAdapter(AdapterName, converted, forms.WithValidator(cfg.validator))
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, bool) {
	if spec.Paths == nil {
		return nil, false
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if id == operationID {
				return operation, true
			}
		}
	}
	return nil, false
}

func extractRequestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

func convertSchema(ref *openapi3.SchemaRef) schema.Schema {
	if ref == nil || ref.Value == nil {
		return schema.Schema{}
	}
	src := ref.Value
	out := schema.Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
	}

	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = convertSchema(property)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		out.Items = &items
	}

	if src.AdditionalProperties.Has != nil {
		out.AdditionalProperties = schema.Bool(*src.AdditionalProperties.Has)
	} else if src.AdditionalProperties.Schema != nil {
		out.AdditionalProperties = schema.Bool(true)
	}

	if src.Min != nil {
		out.Minimum = schema.Float(*src.Min)
	}
	if src.Max != nil {
		out.Maximum = schema.Float(*src.Max)
	}
	out.ExclusiveMinimum = src.ExclusiveMin
	out.ExclusiveMaximum = src.ExclusiveMax
	if src.MinLength != 0 {
		out.MinLength = schema.Int(int(src.MinLength))
	}
	if src.MaxLength != nil {
		out.MaxLength = schema.Int(int(*src.MaxLength))
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, name := range types.Slice() {
		if name != "null" {
			return name
		}
	}
	return ""
}
