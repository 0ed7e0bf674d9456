package cashbook

import (
	"errors"
	"fmt"
)

// ErrValidation is matched (errors.Is) by every *ValidationError.
var ErrValidation = errors.New("invalid input")

// ValidationError reports a user input rejected before any change is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// ErrNoStore is returned by snapshot operations of a book opened without a
// snapshot.Store.
var ErrNoStore = errors.New("no snapshot store")
