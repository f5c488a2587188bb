// Package dto provides request and response types for the disclosure gate endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

// VerifyRequest is the body of POST /v1/admin/gate/verify. The password is hashed
// client-side; only its SHA-256 hex digest is sent.
type VerifyRequest struct {
	PasswordHash string `json:"passwordHash"`
}

// Validate checks that a hash was supplied.
func (r *VerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PasswordHash, validation.Required, customValidation.NotBlank),
	)
}

// SessionResponse reports the caller's unlock state.
type SessionResponse struct {
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// MapSessionToResponse converts a session; timestamps are omitted while locked.
func MapSessionToResponse(session *gateDomain.Session) SessionResponse {
	if !session.Unlocked {
		return SessionResponse{}
	}
	unlockedAt, expiresAt := session.UnlockedAt, session.ExpiresAt
	return SessionResponse{
		Unlocked:   true,
		UnlockedAt: &unlockedAt,
		ExpiresAt:  &expiresAt,
	}
}
