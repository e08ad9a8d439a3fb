package app

import "errors"

// Error kinds the HTTP layer maps to status codes. Service methods
// wrap these with the offending detail.
var (
	// ErrInvalidInput marks a request the caller can fix.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks an operation the tournament state forbids,
	// such as balancing with fewer than two pairs.
	ErrConflict = errors.New("conflict with current state")
)
