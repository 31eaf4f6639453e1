// Package structtag derives a validation adapter from a plain Go struct: the
// struct is reflected into JSON Schema (honouring json and jsonschema tags)
// and reuses the jsonschema backend's conversion.
package structtag

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	invopop "github.com/invopop/jsonschema"

	adapterjsonschema "github.com/goliatone/go-formstate/pkg/adapters/jsonschema"
	"github.com/goliatone/go-formstate/pkg/forms"
)

// AdapterName labels the backend for diagnostics.
const AdapterName = "structtag"

// Option configures adapter construction.
type Option func(*config)

type config struct {
	validator forms.ValidateFunc
}

// WithValidator short-circuits the generic validator with a custom one.
func WithValidator(fn forms.ValidateFunc) Option {
	return func(c *config) {
		c.validator = fn
	}
}

// FromStruct reflects model into JSON Schema and wraps it behind the adapter
// contract. Field types, required-ness, and jsonschema tag metadata
// (minLength, pattern, format, default, ...) all carry over.
func FromStruct(model any, opts ...Option) (forms.Adapter, error) {
	if model == nil {
		return nil, errors.New("structtag: model is required")
	}
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	reflector := &invopop.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	reflected := reflector.Reflect(model)
	raw, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("structtag: encode reflected schema: %w", err)
	}

	jsOpts := []adapterjsonschema.Option{adapterjsonschema.WithName(AdapterName)}
	if cfg.validator != nil {
		jsOpts = append(jsOpts, adapterjsonschema.WithValidator(cfg.validator))
	}
	adapter, err := adapterjsonschema.FromBytes(raw, jsOpts...)
	if err != nil {
		return nil, fmt.Errorf("structtag: %w", err)
	}
	return adapter, nil
}
