// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the write collides with an existing row (e.g., a second review of the same recipe).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates failed authentication: missing/invalid/expired token or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated caller acting on a row it does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")
)
