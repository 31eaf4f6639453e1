// Package validate implements the generic record validator shared by the
// built-in adapter backends: it walks a record against the canonical schema
// metadata and reports issues with dotted/bracketed paths.
package validate

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Issue codes reported alongside the human-readable messages.
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
)

// New compiles a validator for the given schema. Pattern compilation happens
// once here so the returned function is pure and safe for concurrent use;
// a malformed pattern is a setup-time failure.
func New(s schema.Schema) (forms.ValidateFunc, error) {
	patterns := map[string]*regexp.Regexp{}
	if err := compilePatterns(s, patterns); err != nil {
		return nil, err
	}

	return func(ctx context.Context, record forms.Record) (forms.Result, error) {
		if err := ctx.Err(); err != nil {
			return forms.Result{}, err
		}
		v := &validator{patterns: patterns}
		v.checkObject(record, s, "")
		if len(v.issues) > 0 {
			return forms.Result{Issues: v.issues}, nil
		}
		return forms.Result{Success: true, Data: record.Clone()}, nil
	}, nil
}

func compilePatterns(s schema.Schema, out map[string]*regexp.Regexp) error {
	if s.Pattern != "" {
		if _, ok := out[s.Pattern]; !ok {
			compiled, err := regexp.Compile(s.Pattern)
			if err != nil {
				return fmt.Errorf("validate: pattern %q: %w", s.Pattern, err)
			}
			out[s.Pattern] = compiled
		}
	}
	for _, prop := range s.Properties {
		if err := compilePatterns(prop, out); err != nil {
			return err
		}
	}
	if s.Items != nil {
		return compilePatterns(*s.Items, out)
	}
	return nil
}

type validator struct {
	patterns map[string]*regexp.Regexp
	issues   []forms.Issue
}

func (v *validator) report(path, code, format string, args ...any) {
	v.issues = append(v.issues, forms.Issue{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) checkObject(value map[string]any, s schema.Schema, at string) {
	for _, name := range s.PropertyNames() {
		prop := s.Properties[name]
		path := childPath(at, name)

		child, present := value[name]
		if !present || child == nil {
			if s.IsRequired(name) {
				v.report(path, CodeRequired, "The %s field is required.", name)
			}
			continue
		}
		v.checkValue(child, prop, path, name)
	}
}

func (v *validator) checkValue(value any, s schema.Schema, at, label string) {
	switch s.Type {
	case schema.TypeString:
		v.checkString(value, s, at, label)
	case schema.TypeNumber:
		number, ok := asNumber(value)
		if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
			v.report(at, CodeInvalidType, "The %s must be a number.", label)
			return
		}
		v.checkBounds(number, s, at, label)
	case schema.TypeInteger:
		number, ok := asInteger(value)
		if !ok {
			v.report(at, CodeInvalidType, "The %s must be an integer.", label)
			return
		}
		v.checkBounds(float64(number), s, at, label)
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			v.report(at, CodeInvalidType, "The %s field must be true or false.", label)
			return
		}
	case schema.TypeArray:
		items, ok := value.([]any)
		if !ok {
			v.report(at, CodeInvalidType, "The %s must be a list.", label)
			return
		}
		if s.Items != nil {
			for i, item := range items {
				if item == nil {
					continue
				}
				v.checkValue(item, *s.Items, fmt.Sprintf("%s[%d]", at, i), label)
			}
		}
	case schema.TypeObject:
		child, ok := asObject(value)
		if !ok {
			v.report(at, CodeInvalidType, "The %s must be an object.", label)
			return
		}
		v.checkObject(child, s, at)
	}

	v.checkEnum(value, s, at, label)
}

func (v *validator) checkString(value any, s schema.Schema, at, label string) {
	if s.IsDate() {
		v.checkDate(value, at, label)
		return
	}
	str, ok := value.(string)
	if !ok {
		v.report(at, CodeInvalidType, "The %s must be a string.", label)
		return
	}

	length := utf8.RuneCountInString(str)
	if s.MinLength != nil && length < *s.MinLength {
		v.report(at, CodeTooShort, "The %s must be at least %d characters.", label, *s.MinLength)
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		v.report(at, CodeTooLong, "The %s may not be greater than %d characters.", label, *s.MaxLength)
	}
	if s.Pattern != "" {
		if compiled, ok := v.patterns[s.Pattern]; ok && !compiled.MatchString(str) {
			v.report(at, CodePattern, "The %s format is invalid.", label)
		}
	}
	v.checkFormat(str, s.Format, at, label)
}

func (v *validator) checkFormat(str, format, at, label string) {
	switch format {
	case "":
		return
	case "email":
		if _, err := mail.ParseAddress(str); err != nil {
			v.report(at, CodeInvalidFormat, "The %s must be a valid email address.", label)
		}
	case "uri", "url":
		if _, err := url.ParseRequestURI(str); err != nil {
			v.report(at, CodeInvalidFormat, "The %s must be a valid URL.", label)
		}
	case "uuid":
		if _, err := uuid.Parse(str); err != nil {
			v.report(at, CodeInvalidFormat, "The %s must be a valid UUID.", label)
		}
	}
}

func (v *validator) checkDate(value any, at, label string) {
	switch d := value.(type) {
	case time.Time:
		return
	case string:
		if _, err := time.Parse(time.RFC3339, d); err == nil {
			return
		}
		if _, err := time.Parse("2006-01-02", d); err == nil {
			return
		}
		v.report(at, CodeInvalidFormat, "The %s must be a valid date.", label)
	default:
		v.report(at, CodeInvalidType, "The %s must be a date.", label)
	}
}

func (v *validator) checkBounds(number float64, s schema.Schema, at, label string) {
	if s.Minimum != nil {
		failed := number < *s.Minimum || (s.ExclusiveMinimum && number == *s.Minimum)
		if failed {
			v.report(at, CodeTooSmall, "The %s must be at least %s.", label, formatBound(*s.Minimum))
		}
	}
	if s.Maximum != nil {
		failed := number > *s.Maximum || (s.ExclusiveMaximum && number == *s.Maximum)
		if failed {
			v.report(at, CodeTooBig, "The %s may not be greater than %s.", label, formatBound(*s.Maximum))
		}
	}
}

func (v *validator) checkEnum(value any, s schema.Schema, at, label string) {
	if len(s.Enum) == 0 {
		return
	}
	for _, allowed := range s.Enum {
		if reflect.DeepEqual(value, allowed) {
			return
		}
		if equalNumbers(value, allowed) {
			return
		}
	}
	v.report(at, CodeInvalidEnum, "The selected %s is invalid.", label)
}

func childPath(at, name string) string {
	if at == "" {
		return name
	}
	return at + "." + name
}

func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInteger(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func asObject(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case forms.Record:
		return m, true
	default:
		return nil, false
	}
}

func equalNumbers(a, b any) bool {
	left, ok := asNumber(a)
	if !ok {
		return false
	}
	right, ok := asNumber(b)
	if !ok {
		return false
	}
	return left == right
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}
