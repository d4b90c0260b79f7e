package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// SimilarityRequest defines the payload for the similarity endpoint.
// The sets are kept raw so the analytics boundary op does the decoding.
type SimilarityRequest struct {
	SetA json.RawMessage `json:"set_a"`
	SetB json.RawMessage `json:"set_b"`
}

// SimilarityResponse defines the successful response for the similarity
// endpoint.
type SimilarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// SuggestDomainsRequest defines the payload for the domain suggestion
// endpoint.
type SuggestDomainsRequest struct {
	Description string `json:"description" validate:"required"`
}

// SuggestDomainsResponse defines the successful response for the domain
// suggestion endpoint.
type SuggestDomainsResponse struct {
	Domains []string `json:"domains"`
}
