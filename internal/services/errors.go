package services

import "errors"

// Error taxonomy surfaced to handlers. Data-layer failures are mapped to
// the nearest category; anything unmatched is treated as internal.
var (
	// ErrNotFound covers nonexistent ids and other users' resources.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers duplicate connection requests and invalid
	// state transitions.
	ErrConflict = errors.New("conflict")

	// ErrForbidden covers operations on resources the caller is not a
	// party to.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated covers missing, invalid and expired sessions.
	// Callers cannot distinguish the three.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidSession is the single client-facing error for every
	// identity provider failure, whatever the underlying cause.
	ErrInvalidSession = errors.New("invalid session")

	// ErrValidation covers malformed request input.
	ErrValidation = errors.New("invalid input")
)
