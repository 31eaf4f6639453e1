// Package jsonschema wraps JSON Schema documents (JSON or YAML encoded)
// behind the validation adapter contract.
package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/internal/validate"
	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// AdapterName labels the backend for diagnostics.
const AdapterName = "jsonschema"

// Option configures adapter construction.
type Option func(*config)

type config struct {
	name      string
	validator forms.ValidateFunc
}

// WithName overrides the diagnostic label, used by backends that reuse this
// package's conversion.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithValidator short-circuits the generic validator with a custom one.
func WithValidator(fn forms.ValidateFunc) Option {
	return func(c *config) {
		c.validator = fn
	}
}

// FromBytes parses a raw JSON Schema document, JSON or YAML encoded, and
// returns an adapter for it. Malformed documents fail here, at setup time.
func FromBytes(raw []byte, opts ...Option) (forms.Adapter, error) {
	payload, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}
	if err := validateDialect(payload); err != nil {
		return nil, err
	}
	s, err := ConvertMap(payload)
	if err != nil {
		return nil, err
	}
	return FromSchema(s, opts...)
}

// FromDocument is FromBytes over a wrapped schema document.
func FromDocument(doc schema.Document, opts ...Option) (forms.Adapter, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("jsonschema: empty document")
	}
	adapter, err := FromBytes(raw, opts...)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: document %q: %w", doc.Location(), err)
	}
	return adapter, nil
}

// FromSchema builds an adapter directly from canonical metadata.
func FromSchema(s schema.Schema, opts ...Option) (forms.Adapter, error) {
	cfg := config{name: AdapterName}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.validator == nil {
		fn, err := validate.New(s)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: %w", err)
		}
		cfg.validator = fn
	}
	return forms.NewSchemaAdapter(cfg.name, s, forms.WithValidator(cfg.validator))
}

func parseDocument(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}

	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("jsonschema: parse schema: %w", err)
		}
		return payload, nil
	}

	var payload map[string]any
	if err := yaml.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("jsonschema: parse yaml schema: %w", err)
	}
	if payload == nil {
		return nil, errors.New("jsonschema: schema is empty")
	}
	return payload, nil
}

func validateDialect(payload map[string]any) error {
	raw, _ := payload["$schema"].(string)
	value := strings.TrimSpace(strings.TrimSuffix(raw, "#"))
	if value == "" {
		// Schemas without an explicit dialect are accepted as-is.
		return nil
	}
	switch value {
	case "https://json-schema.org/draft/2020-12/schema",
		"http://json-schema.org/draft/2020-12/schema",
		"https://json-schema.org/draft-07/schema",
		"http://json-schema.org/draft-07/schema":
		return nil
	default:
		return fmt.Errorf("jsonschema: unsupported $schema %q", raw)
	}
}
