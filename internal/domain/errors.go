package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a task or request fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when a request carries no credential.
	ErrUnauthorized = errors.New("missing auth")

	// ErrDependency is matched by every DependencyError.
	ErrDependency = errors.New("dependency failure")

	// ErrMalformedMessage is returned when a pushed payload cannot be decoded
	// into a Task. It is never surfaced to the queue transport.
	ErrMalformedMessage = errors.New("malformed message")
)

// DependencyError reports a failed call to an external collaborator such as
// the queue, the secret store or the token signer.
type DependencyError struct {
	// Op names the failed operation, e.g. "Pub/Sub publish".
	Op  string
	Err error
}

// NewDependencyError wraps err as a DependencyError for the given operation.
func NewDependencyError(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}

func (e *DependencyError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDependency, so callers can classify the
// error without a type assertion.
func (e *DependencyError) Is(target error) bool {
	return target == ErrDependency
}

// NewValidationError returns an error for field that matches ErrValidation.
func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, message)
}
