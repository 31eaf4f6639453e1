package forms_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/forms"
)

func validForm() *forms.Form {
	return &forms.Form{
		ID:    "f1",
		Valid: true,
		Data:  forms.Record{"email": "ada@example.com"},
	}
}

func TestSetErrorInvalidatesAndWraps(t *testing.T) {
	form := validForm()

	response, err := forms.SetError(form, "email", "already taken")
	if err != nil {
		t.Fatalf("SetError returned error: %v", err)
	}

	if form.Valid {
		t.Fatal("SetError must flip the form invalid")
	}
	if !response.Failure || response.Status != 400 {
		t.Fatalf("response = {status:%d failure:%v}, want 400 failure", response.Status, response.Failure)
	}
	messages, err := form.Errors.At("email")
	if err != nil {
		t.Fatalf("Errors.At returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"already taken"}, messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrorAppendsThenOverwrites(t *testing.T) {
	form := validForm()

	if _, err := forms.SetError(form, "email", "first"); err != nil {
		t.Fatalf("SetError returned error: %v", err)
	}
	if _, err := forms.SetError(form, "email", "second"); err != nil {
		t.Fatalf("SetError returned error: %v", err)
	}
	messages, _ := form.Errors.At("email")
	if diff := cmp.Diff([]string{"first", "second"}, messages); diff != "" {
		t.Fatalf("append order mismatch (-want +got):\n%s", diff)
	}

	if _, err := forms.SetError(form, "email", "only", forms.WithOverwrite()); err != nil {
		t.Fatalf("SetError returned error: %v", err)
	}
	messages, _ = form.Errors.At("email")
	if diff := cmp.Diff([]string{"only"}, messages); diff != "" {
		t.Fatalf("overwrite mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrorEmptyPathTargetsForm(t *testing.T) {
	form := validForm()

	if _, err := forms.SetError(form, "", "form-level failure"); err != nil {
		t.Fatalf("SetError returned error: %v", err)
	}
	messages, _ := form.Errors.At("")
	if diff := cmp.Diff([]string{"form-level failure"}, messages); diff != "" {
		t.Fatalf("root messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrorStatusRange(t *testing.T) {
	form := validForm()

	response, err := forms.SetError(form, "email", "gone", forms.WithStatus(422))
	if err != nil {
		t.Fatalf("SetError returned error: %v", err)
	}
	if response.Status != 422 {
		t.Fatalf("status = %d, want 422", response.Status)
	}

	_, err = forms.SetError(validForm(), "email", "nope", forms.WithStatus(200))
	var rangeErr *forms.StatusRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected StatusRangeError, got %v", err)
	}
	if rangeErr.Status != 200 {
		t.Fatalf("rejected status = %d, want 200", rangeErr.Status)
	}
}

func TestMessageSuccessStatusKeepsValidity(t *testing.T) {
	form := validForm()

	response, err := forms.Message(form, "saved", forms.WithStatus(201))
	if err != nil {
		t.Fatalf("Message returned error: %v", err)
	}
	if !form.Valid {
		t.Fatal("a success status must not flip validity")
	}
	if response.Failure || response.Status != 201 {
		t.Fatalf("response = {status:%d failure:%v}, want 201 success", response.Status, response.Failure)
	}
	if form.Message != "saved" {
		t.Fatalf("message = %v, want saved", form.Message)
	}
}

func TestMessageErrorStatusInvalidates(t *testing.T) {
	form := validForm()

	response, err := forms.Message(form, "rejected upstream", forms.WithStatus(422))
	if err != nil {
		t.Fatalf("Message returned error: %v", err)
	}
	if form.Valid {
		t.Fatal("an error status must flip validity")
	}
	if !response.Failure || response.Status != 422 {
		t.Fatalf("response = {status:%d failure:%v}, want 422 failure", response.Status, response.Failure)
	}
}

func TestMessageRejectsRedirectRange(t *testing.T) {
	form := validForm()

	_, err := forms.Message(form, "moved", forms.WithStatus(399))
	var rangeErr *forms.StatusRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected StatusRangeError, got %v", err)
	}
	if form.Message != nil {
		t.Fatal("a rejected status must not attach the payload")
	}
	if !form.Valid {
		t.Fatal("a rejected status must not flip validity")
	}
}

func TestMessageWithoutStatusFollowsValidity(t *testing.T) {
	form := validForm()
	response, err := forms.Message(form, "hello")
	if err != nil {
		t.Fatalf("Message returned error: %v", err)
	}
	if response.Failure || response.Status != 200 {
		t.Fatalf("response = {status:%d failure:%v}, want 200 success", response.Status, response.Failure)
	}

	form.Valid = false
	response, err = forms.Message(form, "still broken")
	if err != nil {
		t.Fatalf("Message returned error: %v", err)
	}
	if !response.Failure || response.Status != 400 {
		t.Fatalf("response = {status:%d failure:%v}, want 400 failure", response.Status, response.Failure)
	}
}

func TestSetErrorsRejectsEmptyMessages(t *testing.T) {
	for _, messages := range [][]string{nil, {}} {
		form := validForm()

		if _, err := forms.SetErrors(form, "email", messages); err == nil {
			t.Fatal("an empty message list should be rejected")
		}
		// Absence means "no error": a rejected call must leave the form
		// untouched.
		if !form.Valid {
			t.Fatal("a rejected call must not flip validity")
		}
		if form.Errors != nil {
			t.Fatalf("a rejected call must not install error nodes, got %v", form.Errors)
		}
	}
}

func TestMutationsRequireForm(t *testing.T) {
	if _, err := forms.SetError(nil, "x", "y"); err == nil {
		t.Fatal("SetError should reject a nil form")
	}
	if _, err := forms.Message(nil, "y"); err == nil {
		t.Fatal("Message should reject a nil form")
	}
}
