package api

import "time"

// SynthesizeRequest represents the request payload for speech synthesis
type SynthesizeRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language" validate:"required"`
}

// TokenRequest represents the request payload for API token issuance
type TokenRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	APIKey   string `json:"api_key" validate:"required"`
}

// TokenResponse represents the response payload for API token issuance
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LanguageInfo describes one supported language profile
type LanguageInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
