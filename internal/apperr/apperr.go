// Package apperr defines the error taxonomy shared across the service.
// Components fail fast with one of these kinds; handlers translate them to
// HTTP responses. Match with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an unknown session id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks an operation not valid for the session's
	// current stage or status.
	ErrInvalidState = errors.New("invalid state")
	// ErrGeneration marks a failed or timed-out generation collaborator call.
	ErrGeneration = errors.New("generation failed")
	// ErrEmptyContent marks an export request with nothing to export.
	ErrEmptyContent = errors.New("empty content")
	// ErrStorage marks a persistence collaborator failure.
	ErrStorage = errors.New("storage error")
)

// InvalidInput wraps ErrInvalidInput with a formatted detail message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with a formatted detail message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidState wraps ErrInvalidState with a formatted detail message.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Generation wraps a collaborator failure, keeping the cause in the chain.
func Generation(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrGeneration, fmt.Sprintf(format, args...), cause)
}

// Storage wraps a persistence failure, keeping the cause in the chain.
func Storage(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, fmt.Sprintf(format, args...), cause)
}
