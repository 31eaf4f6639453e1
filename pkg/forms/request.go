package forms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// FormIDField is the reserved hidden-field name carrying the form
// identifier. It is extracted as the id and stripped from the data before
// validation, so several forms on one page validate independently.
const FormIDField = "__form_id"

const maxMultipartMemory = 32 << 20 // 32 MB

// Parsed is the normalizer's output. Data is nil when no input was supplied
// at all; an empty submitted body yields an empty, non-nil record with
// Posted set.
type Parsed struct {
	Data   Record
	ID     string
	Posted bool
}

// Input sources are classified into an explicit tagged union before
// normalization instead of probing shapes along the way.
type sourceKind int

const (
	sourceEmpty sourceKind = iota
	sourceRequest
	sourceValues
	sourceRecord
)

type classified struct {
	kind    sourceKind
	request *http.Request
	values  url.Values
	record  map[string]any
}

func classifySource(source any) (classified, error) {
	switch src := source.(type) {
	case nil:
		return classified{kind: sourceEmpty}, nil
	case *http.Request:
		if src == nil {
			return classified{kind: sourceEmpty}, nil
		}
		return classified{kind: sourceRequest, request: src}, nil
	case url.Values:
		return classified{kind: sourceValues, values: src}, nil
	case *url.URL:
		if src == nil {
			return classified{kind: sourceEmpty}, nil
		}
		return classified{kind: sourceValues, values: src.Query()}, nil
	case Record:
		if src == nil {
			return classified{kind: sourceEmpty}, nil
		}
		return classified{kind: sourceRecord, record: src}, nil
	case map[string]any:
		if src == nil {
			return classified{kind: sourceEmpty}, nil
		}
		return classified{kind: sourceRecord, record: src}, nil
	default:
		return classified{}, fmt.Errorf("forms: unsupported input source %T", source)
	}
}

// ParseRequest normalizes a polymorphic input source into a keyed record,
// applying the schema's type coercion hints to form-encoded and query
// values. Posted reports whether the source was an actual submitted body;
// plain partial records and URL queries are not posted, even when non-empty.
func ParseRequest(ctx context.Context, source any, s schema.Schema, opts ...Option) (Parsed, error) {
	if err := ctx.Err(); err != nil {
		return Parsed{}, err
	}
	cfg := newOptions(opts)

	cls, err := classifySource(source)
	if err != nil {
		return Parsed{}, err
	}

	switch cls.kind {
	case sourceEmpty:
		return Parsed{}, nil

	case sourceRecord:
		data := Record(cls.record).Clone()
		id := extractID(data)
		sanitizeRecord(data, cfg.sanitizer)
		return Parsed{Data: data, ID: id, Posted: false}, nil

	case sourceValues:
		data, id, err := coerceValues(cls.values, s, cfg.sanitizer)
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Data: data, ID: id, Posted: false}, nil

	default:
		return parseHTTPRequest(cls.request, s, cfg)
	}
}

func parseHTTPRequest(r *http.Request, s schema.Schema, cfg options) (Parsed, error) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		data, id, err := coerceValues(r.URL.Query(), s, cfg.sanitizer)
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Data: data, ID: id, Posted: false}, nil
	}

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		return parseJSONBody(r, cfg)

	case strings.Contains(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return Parsed{}, fmt.Errorf("forms: parse multipart body: %w", err)
		}
		return parseFormPairs(url.Values(r.MultipartForm.Value), s, cfg)

	default:
		if err := r.ParseForm(); err != nil {
			return Parsed{}, fmt.Errorf("forms: parse form body: %w", err)
		}
		return parseFormPairs(r.PostForm, s, cfg)
	}
}

func parseJSONBody(r *http.Request, cfg options) (Parsed, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return Parsed{}, fmt.Errorf("forms: read request body: %w", err)
	}

	data := Record{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return Parsed{}, fmt.Errorf("forms: decode json body: %w", err)
		}
	}

	id := extractID(data)
	sanitizeRecord(data, cfg.sanitizer)
	return Parsed{Data: data, ID: id, Posted: true}, nil
}

func parseFormPairs(values url.Values, s schema.Schema, cfg options) (Parsed, error) {
	data, id, err := coerceValues(values, s, cfg.sanitizer)
	if err != nil {
		return Parsed{}, err
	}
	if data == nil {
		data = Record{}
	}
	if len(data) > 0 {
		// Checkbox semantics: a submitted form omits unchecked booleans.
		backfillBooleans(data, s)
	}
	return Parsed{Data: data, ID: id, Posted: true}, nil
}

func extractID(data Record) string {
	if data == nil {
		return ""
	}
	raw, ok := data[FormIDField]
	if !ok {
		return ""
	}
	delete(data, FormIDField)
	id, _ := raw.(string)
	return id
}

func sanitizeRecord(data Record, sanitizer Sanitizer) {
	if sanitizer == nil || data == nil {
		return
	}
	sanitizeMap(data, sanitizer)
}

func sanitizeMap(node map[string]any, sanitizer Sanitizer) {
	for key, value := range node {
		node[key] = sanitizeValue(value, sanitizer)
	}
}

func sanitizeValue(value any, sanitizer Sanitizer) any {
	switch v := value.(type) {
	case string:
		return sanitizer.Sanitize(v)
	case map[string]any:
		sanitizeMap(v, sanitizer)
		return v
	case []any:
		for i, item := range v {
			v[i] = sanitizeValue(item, sanitizer)
		}
		return v
	default:
		return value
	}
}
