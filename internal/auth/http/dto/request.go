// Package dto provides request and response types for the login endpoint.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/cardauth/internal/validation"
)

// LoginRequest is the body of POST /v1/auth/token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}
