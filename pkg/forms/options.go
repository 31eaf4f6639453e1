package forms

// Sanitizer cleans untrusted string input before validation. A
// *bluemonday.Policy satisfies the interface directly.
type Sanitizer interface {
	Sanitize(string) string
}

type options struct {
	id        string
	idSet     bool
	errors    *bool
	strict    bool
	generator IDGenerator
	sanitizer Sanitizer
}

// Option customises SuperValidate and ParseRequest behaviour.
type Option func(*options)

// WithID pins the form identifier, taking priority over any id carried by
// the input.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
		o.idSet = true
	}
}

// WithErrors forces error inclusion on or off, overriding the default
// policy (errors surface whenever the source carried data).
func WithErrors(include bool) Option {
	return func(o *options) {
		o.errors = &include
	}
}

// WithStrict skips the default overlay before validation so truly-missing
// required fields are detected, and always surfaces errors.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithIDGenerator substitutes the identifier source used when a fresh form
// needs an id. Useful for deterministic tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.generator = gen
		}
	}
}

// WithSanitizer runs every string input value through the policy during
// normalization.
func WithSanitizer(s Sanitizer) Option {
	return func(o *options) {
		o.sanitizer = s
	}
}

func newOptions(opts []Option) options {
	cfg := options{generator: defaultIDGenerator()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
