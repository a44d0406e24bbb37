package types

import (
	"errors"
	"fmt"
)

// ErrInsufficientInput matches any *InsufficientInputError via errors.Is.
var ErrInsufficientInput = errors.New("insufficient input")

// InsufficientInputError reports a call made with fewer records than the
// operation needs.
type InsufficientInputError struct {
	Operation string
	Got       int
	Min       int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("%s: need at least %d records, got %d", e.Operation, e.Min, e.Got)
}

func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

// RequireRecords returns an *InsufficientInputError when n < min.
func RequireRecords(op string, n, min int) error {
	if n < min {
		return &InsufficientInputError{Operation: op, Got: n, Min: min}
	}
	return nil
}
