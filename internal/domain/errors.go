package domain

import "errors"

// Domain errors represent error conditions in the practice picker domain.
// These errors can be checked with errors.Is.
var (
	// ErrNameRequired is returned when a routine is created or updated with a
	// blank name.
	ErrNameRequired = errors.New("practicepicker: name is required")

	// ErrMalformedSnapshot is returned when persisted data is not an object
	// holding both "routines" and "next_id".
	ErrMalformedSnapshot = errors.New("practicepicker: malformed snapshot")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("practicepicker: invalid configuration")
)
