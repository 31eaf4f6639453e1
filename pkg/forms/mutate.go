package forms

import (
	"errors"
	"fmt"
	"net/http"
)

// Response is the caller-facing wrapper handed to the framework
// collaborator, which turns it into a transport-level response. Failure
// marks validation failures surfaced with an HTTP status; a bare success
// wrapper carries the form unchanged.
type Response struct {
	Status  int   `json:"status"`
	Failure bool  `json:"failure"`
	Form    *Form `json:"form"`
}

// Fail wraps a form as a failure response with the given status.
func Fail(status int, form *Form) *Response {
	return &Response{Status: status, Failure: true, Form: form}
}

// OK wraps a form as a success response.
func OK(form *Form) *Response {
	return &Response{Status: http.StatusOK, Form: form}
}

// StatusRangeError reports a status code outside the range a call accepts.
type StatusRangeError struct {
	Status int
	Reason string
}

func (e *StatusRangeError) Error() string {
	return fmt.Sprintf("forms: status %d rejected: %s", e.Status, e.Reason)
}

type mutateOptions struct {
	overwrite bool
	status    int
	statusSet bool
}

// MutateOption configures SetError and Message.
type MutateOption func(*mutateOptions)

// WithOverwrite replaces any existing messages at the node instead of
// appending.
func WithOverwrite() MutateOption {
	return func(o *mutateOptions) {
		o.overwrite = true
	}
}

// WithStatus sets the HTTP status carried by the returned response.
func WithStatus(status int) MutateOption {
	return func(o *mutateOptions) {
		o.status = status
		o.statusSet = true
	}
}

// SetError attaches one error message at a dotted/bracketed path and flips
// the form invalid. An empty path attaches the message to the form itself.
func SetError(form *Form, path, message string, opts ...MutateOption) (*Response, error) {
	return SetErrors(form, path, []string{message}, opts...)
}

// SetErrors attaches an ordered sequence of messages at path. The default
// status is 400; values outside 400-599 are rejected. The form is always
// flipped invalid, regardless of path or prior state.
func SetErrors(form *Form, path string, messages []string, opts ...MutateOption) (*Response, error) {
	if form == nil {
		return nil, errors.New("forms: form is required")
	}
	if len(messages) == 0 {
		// The error tree is sparse: absence means "no error", so an empty
		// message list must not install a node or flip validity.
		return nil, errors.New("forms: at least one message is required")
	}
	cfg := mutateOptions{status: http.StatusBadRequest}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.status < 400 || cfg.status > 599 {
		return nil, &StatusRangeError{Status: cfg.status, Reason: "error status must be in 400-599"}
	}

	if form.Errors == nil {
		form.Errors = ErrorTree{}
	}
	if err := form.Errors.add(path, messages, cfg.overwrite); err != nil {
		return nil, err
	}
	form.Valid = false
	return Fail(cfg.status, form), nil
}

// Message attaches an out-of-band payload (for example a user-facing notice)
// to the form. A status of 400 or above flips the form invalid; success and
// informational statuses leave validity untouched. Redirect-range statuses
// (300-399) are rejected: a failure cannot be signalled with a success code,
// and a message response must not redirect.
func Message(form *Form, payload any, opts ...MutateOption) (*Response, error) {
	if form == nil {
		return nil, errors.New("forms: form is required")
	}
	cfg := mutateOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.statusSet {
		if cfg.status < 100 || cfg.status > 599 {
			return nil, &StatusRangeError{Status: cfg.status, Reason: "status must be in 100-599"}
		}
		if cfg.status >= 300 && cfg.status < 400 {
			return nil, &StatusRangeError{Status: cfg.status, Reason: "cannot signal failure with a success code"}
		}
	}

	form.Message = payload
	if cfg.statusSet && cfg.status >= 400 {
		form.Valid = false
	}

	if form.Valid {
		response := OK(form)
		if cfg.statusSet {
			response.Status = cfg.status
		}
		return response, nil
	}

	status := http.StatusBadRequest
	if cfg.statusSet && cfg.status >= 400 {
		status = cfg.status
	}
	return Fail(status, form), nil
}
