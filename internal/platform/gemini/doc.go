// Package gemini implements the suggestion.Suggester interface using
// Google's Gemini API. Calls retry with exponential backoff and jitter
// on transient failures and pass through a circuit breaker so a
// misbehaving provider cannot stall the rest of the API.
package gemini
