// Package service provides application-level services for managing
// learning experiences, users, and derived domain analytics.
package service

import (
	"errors"
	"fmt"

	"github.com/lorepath/insight-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrExperienceNotFound indicates the requested experience record
	// does not exist. Maps to HTTP 404.
	ErrExperienceNotFound = errors.New("experience not found")

	// ErrExperienceExists indicates a record with the same ID is already
	// stored. Maps to HTTP 409.
	ErrExperienceExists = errors.New("experience already exists")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists indicates the email is already registered.
	ErrEmailExists = errors.New("email already registered")
)

// ValidationFailedError carries the accumulated validation messages for
// a record that failed kernel validation. The API layer serializes the
// embedded result back to the client.
type ValidationFailedError struct {
	Result domain.ValidationResult
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("experience validation failed with %d error(s)", len(e.Result.Errors))
}

// ExperienceServiceError wraps unexpected errors from the experience
// service with operation context.
type ExperienceServiceError struct {
	// Operation is the operation that failed (e.g., "create_experience")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ExperienceServiceError.
func (e *ExperienceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("experience service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("experience service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ExperienceServiceError) Unwrap() error {
	return e.Err
}
