package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// SuperValidate runs the full pipeline: normalize the source, merge with the
// adapter's defaults, validate, and assemble the validated form. The source
// may be nil (fresh form), an *http.Request, url.Values, a *url.URL, or a
// partial record; see ParseRequest for the classification rules.
//
// Fresh forms (absent or empty input without WithErrors/WithStrict) skip
// validation entirely so a first render never shows "field required" noise:
// the result carries the defaults, an empty error tree, and Valid=false.
func SuperValidate(ctx context.Context, source any, adapter Adapter, opts ...Option) (*Form, error) {
	if ctx == nil {
		return nil, errors.New("forms: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if adapter == nil {
		return nil, errors.New("forms: adapter is required")
	}
	cfg := newOptions(opts)

	parsed, err := ParseRequest(ctx, source, adapter.Schema(), opts...)
	if err != nil {
		return nil, err
	}

	// Error inclusion: explicit option > strict mode > "the source carried
	// data". Validating absent input should not surface errors on first
	// render.
	addErrors := len(parsed.Data) > 0
	if cfg.strict {
		addErrors = true
	}
	if cfg.errors != nil {
		addErrors = *cfg.errors
	}

	defaults := adapter.Defaults()
	var working Record
	if cfg.strict {
		working = parsed.Data.Clone()
		if working == nil {
			working = Record{}
		}
	} else {
		working = Record(merge(defaults, parsed.Data))
	}

	valid := false
	var issues []Issue
	output := working
	if len(parsed.Data) > 0 || addErrors {
		result, err := adapter.Validate(ctx, working)
		if err != nil {
			return nil, fmt.Errorf("forms: adapter %q: validate: %w", adapter.Name(), err)
		}
		valid = result.Success
		issues = result.Issues
		if result.Success && result.Data != nil {
			output = result.Data
		}
	}

	data := filterKeys(output, adapter.Schema(), defaults)

	errorTree := ErrorTree{}
	if !valid && addErrors && len(issues) > 0 {
		errorTree, err = MapIssues(issues)
		if err != nil {
			return nil, err
		}
	}

	return &Form{
		ID:          resolveID(cfg, parsed),
		Valid:       valid,
		Posted:      parsed.Posted,
		Data:        data,
		Errors:      errorTree,
		Constraints: adapter.Constraints(),
	}, nil
}

// filterKeys applies the additional-properties policy per object level: a
// closed node keeps exactly its declared keys (from data, else defaults), a
// permissive node keeps everything and back-fills defaults only for keys
// entirely absent.
func filterKeys(data Record, s schema.Schema, defaults Record) Record {
	if data == nil {
		data = Record{}
	}

	if s.Permissive() {
		out := data.Clone()
		for key, def := range defaults {
			if _, ok := out[key]; !ok {
				out[key] = cloneAny(def)
			}
		}
		return filterNested(out, s)
	}

	out := Record{}
	for name := range s.Properties {
		if value, ok := data[name]; ok {
			out[name] = cloneAny(value)
			continue
		}
		if def, ok := defaults[name]; ok {
			out[name] = cloneAny(def)
		}
	}
	return filterNested(out, s)
}

func filterNested(data Record, s schema.Schema) Record {
	for name, prop := range s.Properties {
		if prop.Type != schema.TypeObject {
			continue
		}
		child, ok := data[name].(map[string]any)
		if !ok {
			continue
		}
		childDefaults, _ := asStringMap(schema.DefaultValue(prop))
		data[name] = map[string]any(filterKeys(Record(child), prop, Record(childDefaults)))
	}
	return data
}

// resolveID picks the form identifier: explicit option > id parsed from the
// input > generated for non-posted forms > empty for posted requests without
// one. The id is assigned once and never regenerated by mutation calls.
func resolveID(cfg options, parsed Parsed) string {
	if cfg.idSet {
		return cfg.id
	}
	if parsed.ID != "" {
		return parsed.ID
	}
	if !parsed.Posted {
		return cfg.generator.FormID()
	}
	return ""
}
