package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

var (
	// ErrGateNotConfigured indicates no gate password has been set yet.
	ErrGateNotConfigured = apperrors.Wrap(apperrors.ErrNotFound, "disclosure gate password is not configured")

	// ErrInvalidPasswordHash indicates a candidate that is not a hex SHA-256 digest.
	ErrInvalidPasswordHash = apperrors.Wrap(apperrors.ErrInvalidInput, "passwordHash must be a hex SHA-256 digest")

	// ErrSessionRequired is returned when card data is requested without an unlocked gate.
	ErrSessionRequired error = sessionRequiredError{}
)

// InvalidPasswordError is a wrong gate password with the attempts left before lockout.
type InvalidPasswordError struct {
	RemainingAttempts int
}

func (e *InvalidPasswordError) Error() string {
	return fmt.Sprintf("invalid gate password, %d attempts remaining", e.RemainingAttempts)
}

func (e *InvalidPasswordError) Unwrap() error {
	return apperrors.ErrUnauthorized
}

// Details adds the remaining attempts to the error response.
func (e *InvalidPasswordError) Details() map[string]any {
	return map[string]any{
		"code":              "invalid_password",
		"remainingAttempts": e.RemainingAttempts,
	}
}

// LockedError is an attempt made while a lockout is active.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("disclosure gate locked, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *LockedError) Unwrap() error {
	return apperrors.ErrLocked
}

// RetryAfterSeconds rounds the countdown up so clients never retry early.
func (e *LockedError) RetryAfterSeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// Details adds the countdown to the error response.
func (e *LockedError) Details() map[string]any {
	return map[string]any{
		"retryAfterSeconds": e.RetryAfterSeconds(),
	}
}

type sessionRequiredError struct{}

func (sessionRequiredError) Error() string {
	return "disclosure gate is locked for this session"
}

func (sessionRequiredError) Unwrap() error {
	return apperrors.ErrForbidden
}

func (sessionRequiredError) Details() map[string]any {
	return map[string]any{"code": "gate_locked"}
}
