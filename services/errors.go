package services

import "errors"

// Sentinel errors mapped to HTTP status codes by the controllers. Callers wrap
// them with context via fmt.Errorf and %w.
var (
	// ErrInvalidInput marks validation failures: out-of-range durations,
	// malformed object ids, unknown timezone names.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks lookups that resolve to nothing the caller owns.
	ErrNotFound = errors.New("not found")
)
