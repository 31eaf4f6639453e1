// Package formstate validates and reconciles form submissions for
// server-rendered web applications: raw input is normalized, validated
// through a pluggable schema adapter, merged with schema defaults, and
// returned as a serializable validated form that carries field-level and
// form-level errors at arbitrary nested paths.
//
// The root package re-exports the common entry points; the pipeline itself
// lives in pkg/forms, with one adapter package per schema backend under
// pkg/adapters.
package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Form is the validated-form object produced by the pipeline.
type Form = forms.Form

// Record is the keyed working representation of form data.
type Record = forms.Record

// ErrorTree holds field errors mirroring the data shape.
type ErrorTree = forms.ErrorTree

// Issue is one validation failure with a path and message.
type Issue = forms.Issue

// Adapter is the capability contract a validation backend satisfies.
type Adapter = forms.Adapter

// Response is the framework-facing success/failure wrapper around a form.
type Response = forms.Response

// Constraints is the schema-derived client hinting tree.
type Constraints = schema.Constraints

// Option configures SuperValidate; see pkg/forms for the full set.
type Option = forms.Option

// MutateOption configures SetError and Message.
type MutateOption = forms.MutateOption

// SuperValidate runs the full normalization/validation/reconciliation
// pipeline against any supported input source.
func SuperValidate(ctx context.Context, source any, adapter Adapter, opts ...Option) (*Form, error) {
	return forms.SuperValidate(ctx, source, adapter, opts...)
}

// SetError attaches an error message at a nested path and invalidates the
// form.
func SetError(form *Form, path, message string, opts ...MutateOption) (*Response, error) {
	return forms.SetError(form, path, message, opts...)
}

// SetErrors attaches an ordered message sequence at a nested path.
func SetErrors(form *Form, path string, messages []string, opts ...MutateOption) (*Response, error) {
	return forms.SetErrors(form, path, messages, opts...)
}

// Message attaches an out-of-band payload to the form, flipping validity for
// error statuses.
func Message(form *Form, payload any, opts ...MutateOption) (*Response, error) {
	return forms.Message(form, payload, opts...)
}
