package pricing

import (
	"errors"
	"fmt"
)

// The calling layer must distinguish "bad user input" from "programming
// bug": the former becomes an inline form message, the latter gets logged.
// Both kinds below are returned, never panicked, and neither is fatal.
var (
	// ErrInvalidInput marks caller-supplied parameters violating a
	// precondition (zero adults, negative traveler counts).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced departure month or add-on that does
	// not exist in the provided collections.
	ErrNotFound = errors.New("not found")
)

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
