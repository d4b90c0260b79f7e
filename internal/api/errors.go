package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lorepath/insight-api/internal/service"
	"github.com/lorepath/insight-api/internal/service/auth"
	"github.com/lorepath/insight-api/internal/store"
	"github.com/lorepath/insight-api/internal/suggestion"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrExperienceNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrExperienceNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrExperienceExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrExperienceExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, suggestion.ErrEmptyDescription):
		return http.StatusBadRequest

	// Upstream provider problems
	case errors.Is(err, suggestion.ErrUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, suggestion.ErrContentBlocked),
		errors.Is(err, suggestion.ErrInvalidResponse),
		errors.Is(err, suggestion.ErrTransientFailure):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// for the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrExperienceNotFound),
		errors.Is(err, store.ErrExperienceNotFound):
		return "Experience not found"

	case errors.Is(err, service.ErrEmailExists), errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrExperienceExists),
		errors.Is(err, store.ErrExperienceExists):
		return "Experience already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, suggestion.ErrEmptyDescription):
		return "Description is required"

	case errors.Is(err, suggestion.ErrUnavailable):
		return "Domain suggestion is temporarily unavailable"

	case errors.Is(err, suggestion.ErrContentBlocked):
		return "Description was rejected by the language model"

	case errors.Is(err, suggestion.ErrInvalidResponse),
		errors.Is(err, suggestion.ErrTransientFailure):
		return "Failed to suggest domains"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError converts go-playground/validator errors into
// a user-friendly message without exposing struct internals.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
