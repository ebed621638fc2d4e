package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSessionNotFound indicates a requested terminal session could not be found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed indicates the terminal session was already discarded.
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidSpeed indicates a non-positive reveal interval.
	ErrInvalidSpeed = errors.New("speed must be positive")
	// ErrInvalidDelay indicates a negative reveal delay.
	ErrInvalidDelay = errors.New("delay must not be negative")
	// ErrEmptyText indicates a reveal request without text.
	ErrEmptyText = errors.New("text is required")
	// ErrInvalidMode indicates an unknown reveal mode.
	ErrInvalidMode = errors.New("invalid reveal mode")
	// ErrTooManySessions indicates the session limit was reached.
	ErrTooManySessions = errors.New("too many sessions")
)
