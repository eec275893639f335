package store

import "errors"

// Sentinel errors returned by store operations. Callers classify them with
// errors.Is and map them to HTTP statuses at the API boundary.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as a double booking.
	ErrConflict = errors.New("conflict")

	// ErrForbidden indicates the caller does not own the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates the request violates a capacity or input rule.
	ErrValidation = errors.New("invalid request")
)
