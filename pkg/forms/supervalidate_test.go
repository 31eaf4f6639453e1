package forms_test

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/internal/validate"
	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func accountSchema(permissive bool) schema.Schema {
	return schema.Schema{
		Type:                 schema.TypeObject,
		Required:             []string{"email"},
		AdditionalProperties: schema.Bool(permissive),
		Properties: map[string]schema.Schema{
			"name":  {Type: schema.TypeString, Default: "Hello world!"},
			"email": {Type: schema.TypeString, Format: "email"},
		},
	}
}

func newAccountAdapter(t *testing.T, permissive bool) forms.Adapter {
	t.Helper()
	s := accountSchema(permissive)
	fn, err := validate.New(s)
	if err != nil {
		t.Fatalf("validate.New returned error: %v", err)
	}
	adapter, err := forms.NewSchemaAdapter("test", s, forms.WithValidator(fn))
	if err != nil {
		t.Fatalf("NewSchemaAdapter returned error: %v", err)
	}
	return adapter
}

func fixedID(id string) forms.Option {
	return forms.WithIDGenerator(forms.IDGeneratorFunc(func() string { return id }))
}

func TestSuperValidateFreshFormUsesDefaults(t *testing.T) {
	adapter := newAccountAdapter(t, false)

	form, err := forms.SuperValidate(context.Background(), nil, adapter, fixedID("fresh1"))
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}

	if form.Valid {
		t.Fatal("fresh form should not be valid before any submission")
	}
	if form.Posted {
		t.Fatal("fresh form should not be posted")
	}
	if len(form.Errors) != 0 {
		t.Fatalf("fresh form should carry no errors, got %v", form.Errors)
	}
	if form.ID != "fresh1" {
		t.Fatalf("form id = %q, want generated fresh1", form.ID)
	}

	want := forms.Record{"name": "Hello world!", "email": ""}
	if diff := cmp.Diff(want, form.Data); diff != "" {
		t.Fatalf("fresh form data mismatch (-want +got):\n%s", diff)
	}
}

func TestSuperValidateRoundTripOnValidInput(t *testing.T) {
	adapter := newAccountAdapter(t, false)
	input := forms.Record{"name": "Ada", "email": "ada@example.com"}

	form, err := forms.SuperValidate(context.Background(), input, adapter, fixedID("rt"))
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}

	if !form.Valid {
		t.Fatalf("valid input should validate, errors: %v", form.Errors)
	}
	if len(form.Errors) != 0 {
		t.Fatalf("valid form should carry no errors, got %v", form.Errors)
	}
	if diff := cmp.Diff(input, form.Data); diff != "" {
		t.Fatalf("data should echo the input (-want +got):\n%s", diff)
	}
}

func TestSuperValidateAdditionalPropertiesEnforcement(t *testing.T) {
	adapter := newAccountAdapter(t, false)
	input := forms.Record{"name": "Ada", "email": "ada@example.com", "foo": "bar"}

	form, err := forms.SuperValidate(context.Background(), input, adapter)
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if _, ok := form.Data["foo"]; ok {
		t.Fatalf("additionalProperties:false should strip extra keys, got %v", form.Data)
	}
}

func TestSuperValidateAdditionalPropertiesPassthrough(t *testing.T) {
	adapter := newAccountAdapter(t, true)
	input := forms.Record{"name": "Ada", "email": "ada@example.com", "foo": "bar"}

	form, err := forms.SuperValidate(context.Background(), input, adapter)
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if form.Data["foo"] != "bar" {
		t.Fatalf("additionalProperties:true should keep extra keys, got %v", form.Data)
	}
	// Defaults back-fill only keys entirely absent from the input.
	if form.Data["name"] != "Ada" {
		t.Fatalf("input value should win over the default, got %v", form.Data["name"])
	}
}

func TestSuperValidatePostedInvalidSubmission(t *testing.T) {
	adapter := newAccountAdapter(t, false)

	r := httptest.NewRequest("POST", "/account", strings.NewReader("name=&email=not-an-email"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := forms.SuperValidate(context.Background(), r, adapter)
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}

	if form.Valid {
		t.Fatal("submission with a malformed email should not validate")
	}
	if !form.Posted {
		t.Fatal("request-derived input should be posted")
	}
	if form.ID != "" {
		t.Fatalf("posted request without an id should keep it empty, got %q", form.ID)
	}
	// The user-supplied empty string survives; defaults never replace
	// submitted values, valid or not.
	if form.Data["name"] != "" {
		t.Fatalf("data.name = %v, want empty string", form.Data["name"])
	}

	messages, err := form.Errors.At("email")
	if err != nil {
		t.Fatalf("Errors.At returned error: %v", err)
	}
	if len(messages) == 0 {
		t.Fatalf("expected a format violation on email, errors: %v", form.Errors)
	}
}

func TestSuperValidateEmptyPostedBody(t *testing.T) {
	adapter := newAccountAdapter(t, false)

	r := httptest.NewRequest("POST", "/account", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := forms.SuperValidate(context.Background(), r, adapter)
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if !form.Posted {
		t.Fatal("an empty submitted body is still posted")
	}
	if len(form.Errors) != 0 {
		t.Fatalf("empty submission should not surface errors by default, got %v", form.Errors)
	}
	want := forms.Record{"name": "Hello world!", "email": ""}
	if diff := cmp.Diff(want, form.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSuperValidateStrictDetectsMissingRequired(t *testing.T) {
	adapter := newAccountAdapter(t, false)

	form, err := forms.SuperValidate(context.Background(), forms.Record{"name": "Ada"}, adapter, forms.WithStrict())
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if form.Valid {
		t.Fatal("strict validation should fail when a required field is missing")
	}
	messages, err := form.Errors.At("email")
	if err != nil {
		t.Fatalf("Errors.At returned error: %v", err)
	}
	if len(messages) == 0 {
		t.Fatalf("expected a required error on email, errors: %v", form.Errors)
	}
}

func TestSuperValidateWithErrorsForcesInclusion(t *testing.T) {
	adapter := newAccountAdapter(t, false)

	form, err := forms.SuperValidate(context.Background(), nil, adapter, forms.WithErrors(true))
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if form.Valid {
		t.Fatal("forced validation of the defaults should fail on the empty email")
	}
	messages, err := form.Errors.At("email")
	if err != nil {
		t.Fatalf("Errors.At returned error: %v", err)
	}
	if len(messages) == 0 {
		t.Fatalf("expected errors to be included, got %v", form.Errors)
	}
}

func TestSuperValidateIDResolution(t *testing.T) {
	adapter := newAccountAdapter(t, false)
	ctx := context.Background()

	// Explicit id wins over everything.
	form, err := forms.SuperValidate(ctx, forms.Record{forms.FormIDField: "parsed"}, adapter, forms.WithID("explicit"))
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if form.ID != "explicit" {
		t.Fatalf("form id = %q, want explicit", form.ID)
	}

	// The id embedded in the input is next, and is stripped from the data.
	form, err = forms.SuperValidate(ctx, forms.Record{forms.FormIDField: "parsed"}, adapter)
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	if form.ID != "parsed" {
		t.Fatalf("form id = %q, want parsed", form.ID)
	}
	if _, ok := form.Data[forms.FormIDField]; ok {
		t.Fatal("the reserved id field should be stripped from the data")
	}
}

func TestSuperValidateRejectsNonFiniteNumbers(t *testing.T) {
	s := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"price": {Type: schema.TypeNumber, Minimum: schema.Float(0)},
		},
	}
	fn, err := validate.New(s)
	if err != nil {
		t.Fatalf("validate.New returned error: %v", err)
	}
	adapter, err := forms.NewSchemaAdapter("test", s, forms.WithValidator(fn))
	if err != nil {
		t.Fatalf("NewSchemaAdapter returned error: %v", err)
	}

	for _, raw := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		form, err := forms.SuperValidate(context.Background(), url.Values{"price": {raw}}, adapter)
		if err != nil {
			t.Fatalf("SuperValidate(%q) returned error: %v", raw, err)
		}
		if form.Valid {
			t.Fatalf("a non-finite price %q must not validate", raw)
		}
		// The raw string survives so the data stays JSON-encodable and the
		// user sees what they typed.
		if form.Data["price"] != raw {
			t.Fatalf("data.price = %v (%T), want the raw string %q", form.Data["price"], form.Data["price"], raw)
		}
		messages, err := form.Errors.At("price")
		if err != nil {
			t.Fatalf("Errors.At returned error: %v", err)
		}
		if len(messages) == 0 {
			t.Fatalf("expected a type error on price for %q, errors: %v", raw, form.Errors)
		}
		if _, err := json.Marshal(form); err != nil {
			t.Fatalf("form with input %q failed to encode: %v", raw, err)
		}
	}
}

func TestSuperValidateDoesNotAliasDefaults(t *testing.T) {
	adapter := newAccountAdapter(t, false)

	form, err := forms.SuperValidate(context.Background(), nil, adapter)
	if err != nil {
		t.Fatalf("SuperValidate returned error: %v", err)
	}
	form.Data["name"] = "mutated"

	if adapter.Defaults()["name"] != "Hello world!" {
		t.Fatal("mutating form data leaked into the adapter defaults")
	}
}
