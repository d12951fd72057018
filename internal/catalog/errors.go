package catalog

import "errors"

var (
	// ErrTourNotFound is returned when a tour id is not in the store.
	ErrTourNotFound = errors.New("tour not found")
	// ErrInvalidTour is returned by NewStore for records violating catalog
	// invariants (duplicate id, negative price, rating out of range).
	ErrInvalidTour = errors.New("invalid tour record")
)
