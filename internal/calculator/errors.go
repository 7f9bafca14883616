package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the single error kind returned by the calculator.
// Every failure satisfies errors.Is(err, ErrInvalidInput).
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries the human-readable reason for an ErrInvalidInput.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is makes ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
