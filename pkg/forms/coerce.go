package forms

import (
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/goliatone/go-formstate/pkg/pathutil"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// dateOnlyLayout accepts plain <input type="date"> submissions alongside
// full RFC 3339 timestamps.
const dateOnlyLayout = "2006-01-02"

// coerceValues converts a form-encoded or query-string multimap into a
// nested record. Keys are interpreted as dotted/bracketed paths; values are
// coerced by the schema type declared at that path. Values that fail
// coercion pass through as raw strings so the validator reports them instead
// of a silent default.
func coerceValues(values url.Values, s schema.Schema, sanitizer Sanitizer) (Record, string, error) {
	if len(values) == 0 {
		return nil, "", nil
	}

	data := Record{}
	id := ""
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if key == FormIDField {
			id = vals[0]
			continue
		}

		path, err := pathutil.Parse(key)
		if err != nil || path[0].IsIndex {
			// A key that is not a well-formed path, or that starts with an
			// index and so has no field to attach to, is kept as one opaque
			// key so permissive schemas do not lose data.
			data[key] = coerceScalar(vals[0], schema.Schema{}, sanitizer)
			continue
		}

		node, known := schemaAt(s, path)
		value := coerceField(vals, node, known, sanitizer)
		if value == nil {
			continue
		}
		if len(path) == 1 {
			data[path[0].Key] = value
			continue
		}
		if err := pathutil.Set(map[string]any(data), path, value); err != nil {
			return nil, "", err
		}
	}
	if len(data) == 0 {
		return Record{}, id, nil
	}
	return data, id, nil
}

func coerceField(vals []string, node schema.Schema, known bool, sanitizer Sanitizer) any {
	if known && node.Type == schema.TypeArray {
		item := schema.Schema{}
		if node.Items != nil {
			item = *node.Items
		}
		out := make([]any, 0, len(vals))
		for _, raw := range vals {
			out = append(out, coerceScalar(raw, item, sanitizer))
		}
		return out
	}
	return coerceScalar(vals[0], node, sanitizer)
}

func coerceScalar(raw string, node schema.Schema, sanitizer Sanitizer) any {
	switch {
	case node.Type == schema.TypeBoolean:
		switch raw {
		case "true", "on", "1":
			return true
		case "false", "0", "":
			return false
		}
		return raw

	case node.Type == schema.TypeNumber:
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable number
		// and neither survives JSON encoding, so they fail coercion.
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil &&
			!math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
			return parsed
		}
		return raw

	case node.Type == schema.TypeInteger:
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return parsed
		}
		return raw

	case node.IsDate():
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(dateOnlyLayout, raw); err == nil {
			return parsed
		}
		return raw

	default:
		if sanitizer != nil {
			return sanitizer.Sanitize(raw)
		}
		return raw
	}
}

// schemaAt walks the metadata tree following a parsed path: key segments
// descend into properties, index segments into array items.
func schemaAt(s schema.Schema, path pathutil.Path) (schema.Schema, bool) {
	cur := s
	for _, seg := range path {
		if seg.IsIndex {
			if cur.Items == nil {
				return schema.Schema{}, false
			}
			cur = *cur.Items
			continue
		}
		child, ok := cur.Property(seg.Key)
		if !ok {
			return schema.Schema{}, false
		}
		cur = child
	}
	return cur, true
}

// backfillBooleans sets declared boolean fields absent from a submitted form
// body to false, matching how browsers omit unchecked checkboxes.
func backfillBooleans(data Record, s schema.Schema) {
	for name, prop := range s.Properties {
		switch prop.Type {
		case schema.TypeBoolean:
			if _, ok := data[name]; !ok {
				data[name] = false
			}
		case schema.TypeObject:
			if nested, ok := data[name].(map[string]any); ok {
				backfillBooleans(Record(nested), prop)
			}
		}
	}
}
