package fuzzy

import (
	"errors"
	"fmt"
)

var (
	// ErrInputOutOfRange matches any *InputOutOfRangeError via errors.Is
	ErrInputOutOfRange = errors.New("fuzzy: input out of range")

	// ErrDegenerateInference is returned when no rule fires and the aggregate
	// output set is empty, which leaves the centroid undefined
	ErrDegenerateInference = errors.New("fuzzy: no rule fired, centroid undefined")

	// ErrUnknownVariable is returned for references to variables the system does not define
	ErrUnknownVariable = errors.New("fuzzy: unknown variable")

	// ErrUnknownTerm is returned for references to terms a variable does not define
	ErrUnknownTerm = errors.New("fuzzy: unknown term")

	// ErrMissingInput is returned when a crisp value for an input variable is not supplied
	ErrMissingInput = errors.New("fuzzy: missing input")
)

// InputOutOfRangeError reports a crisp input outside its variable's universe.
type InputOutOfRangeError struct {
	Variable string
	Value    float64
	Min      float64
	Max      float64
}

func (e *InputOutOfRangeError) Error() string {
	return fmt.Sprintf("fuzzy: %s=%v outside [%v, %v]", e.Variable, e.Value, e.Min, e.Max)
}

func (e *InputOutOfRangeError) Is(target error) bool {
	return target == ErrInputOutOfRange
}
