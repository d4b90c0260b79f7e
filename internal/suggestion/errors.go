package suggestion

import "errors"

// Common errors returned by the suggestion package
var (
	// ErrSuggestionFailed is returned when domain suggestion fails for any general reason
	ErrSuggestionFailed = errors.New("failed to suggest domains from description")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during domain suggestion")

	// ErrInvalidConfig is returned when the suggester configuration is invalid
	ErrInvalidConfig = errors.New("invalid suggester configuration")

	// ErrEmptyDescription is returned when the input description is empty
	ErrEmptyDescription = errors.New("experience description cannot be empty")

	// ErrUnavailable is returned when the feature is disabled or the
	// circuit breaker is rejecting calls
	ErrUnavailable = errors.New("domain suggestion is unavailable")
)
