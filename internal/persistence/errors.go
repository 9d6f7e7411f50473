package persistence

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is available to callers that want to turn an absent lookup
	// into an error. Repositories report absence with a false found flag.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConstraintViolation is returned when a create collides with an
	// existing primary key or unique value.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrMalformedInput is returned when an entity fails structural validation.
	ErrMalformedInput = errors.New("persistence: malformed input")
	// ErrUnknownField is returned when a field name is outside the queryable set.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrMalformedInput)
	// ErrInternalLock is returned when the connection guard could not complete
	// a scoped acquisition because the holder panicked.
	ErrInternalLock = errors.New("persistence: internal lock error")
	// ErrClosed is returned by operations issued after the store was closed.
	ErrClosed = errors.New("persistence: store closed")
)

// ErrorKind maps persistence errors to a stable label for structured logs.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrInternalLock):
		return "internal_lock"
	case errors.Is(err, ErrClosed):
		return "closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "storage"
}
