// Package forms implements the validation and form-state reconciliation
// pipeline: it normalizes raw input (requests, query parameters, partial
// records) into a keyed record, runs it through a pluggable validation
// adapter, reconciles the outcome against schema defaults, and produces a
// serializable validated form that rendering layers and client-side
// consumers share.
package forms

import (
	"github.com/goliatone/go-formstate/pkg/pathutil"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Record is the working representation of form data at every pipeline stage.
// It may be partial or carry extraneous keys until reconciliation applies the
// schema's additional-properties policy.
type Record map[string]any

// Clone deep-copies the record so the form owns its data exclusively.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = cloneAny(value)
	}
	return out
}

func cloneAny(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneAny(item)
		}
		return out
	case Record:
		return map[string]any(v.Clone())
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return v
	}
}

// merge overlays data onto base key-by-key: maps merge recursively, every
// other value from data wins, and base keys absent from data survive. Arrays
// replace wholesale; there is no element-wise merge.
func merge(base, data map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(data))
	for key, value := range base {
		out[key] = cloneAny(value)
	}
	for key, value := range data {
		baseMap, baseIsMap := out[key].(map[string]any)
		dataMap, dataIsMap := asStringMap(value)
		if baseIsMap && dataIsMap {
			out[key] = merge(baseMap, dataMap)
			continue
		}
		out[key] = cloneAny(value)
	}
	return out
}

func asStringMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Record:
		return v, true
	default:
		return nil, false
	}
}

// Form is the pipeline's output: the reconciled data, the error tree, and the
// client hinting metadata, serializable as one JSON payload. A form is owned
// by a single call chain; callers must serialize mutation calls against one
// instance.
type Form struct {
	ID          string             `json:"id,omitempty"`
	Valid       bool               `json:"valid"`
	Posted      bool               `json:"posted"`
	Data        Record             `json:"data"`
	Errors      ErrorTree          `json:"errors"`
	Constraints schema.Constraints `json:"constraints,omitempty"`
	Message     any                `json:"message,omitempty"`
}

// ValueAt reads a nested value from the form data at a dotted/bracketed
// path. Reads never create intermediate containers.
func (f *Form) ValueAt(path string) (any, bool, error) {
	parsed, err := pathutil.Parse(path)
	if err != nil {
		return nil, false, err
	}
	if f.Data == nil {
		return nil, false, nil
	}
	value, ok := pathutil.Get(map[string]any(f.Data), parsed)
	return value, ok, nil
}

// SetValue writes a nested value into the form data, creating intermediate
// objects and arrays on demand.
func (f *Form) SetValue(path string, value any) error {
	if f.Data == nil {
		f.Data = Record{}
	}
	return pathutil.SetString(map[string]any(f.Data), path, value)
}
