package forms

import "github.com/google/uuid"

// IDGenerator produces identifiers for forms initialised without one. It is
// an injected capability so tests can substitute a deterministic source.
type IDGenerator interface {
	FormID() string
}

// IDGeneratorFunc adapts a plain function to the IDGenerator capability.
type IDGeneratorFunc func() string

// FormID implements IDGenerator.
func (fn IDGeneratorFunc) FormID() string { return fn() }

// defaultIDLength keeps generated ids short enough for hidden form fields
// while staying unique per page.
const defaultIDLength = 8

func defaultIDGenerator() IDGenerator {
	return IDGeneratorFunc(func() string {
		id := uuid.NewString()
		return id[:defaultIDLength]
	})
}
