package errors

import (
	"errors"
	"fmt"
)

// Common error types for the OAuth2 client
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Authorization errors
	ErrNotFound = errors.New("not found")

	// General errors
	ErrInternal = errors.New("internal error")
)

// StatusError carries the HTTP status returned by an upstream provider
// endpoint so the boundary layer can surface it unchanged.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upstream status %d", e.Status)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Err.Error())
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError wraps err with the upstream HTTP status that produced it.
func NewStatusError(status int, err error) *StatusError {
	return &StatusError{Status: status, Err: err}
}

// HTTPStatus returns the upstream status carried by err, or fallback when
// err carries none.
func HTTPStatus(err error, fallback int) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return fallback
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
