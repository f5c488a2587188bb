package domain

import (
	"fmt"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

var (
	// ErrAuthorizationNotFound indicates no authorization has the requested id.
	ErrAuthorizationNotFound = apperrors.Wrap(apperrors.ErrNotFound, "authorization not found")

	// ErrConfirmationConflict indicates a generated confirmation number already exists.
	ErrConfirmationConflict = apperrors.Wrap(apperrors.ErrConflict, "confirmation number already exists")

	// ErrCiphertextMismatch indicates ciphertexts that do not belong to the named authorization.
	ErrCiphertextMismatch = apperrors.Wrap(
		apperrors.ErrInvalidInput,
		"encrypted values do not match the authorization",
	)
)

// MissingFieldError names a required field that was absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return apperrors.ErrInvalidInput
}
