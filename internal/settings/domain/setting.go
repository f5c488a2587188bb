// Package domain models named configuration entries whose values are encrypted at rest
// through a KMS keeper, such as the mail provider credential.
package domain

import (
	"time"

	"github.com/allisson/cardauth/internal/errors"
)

// Setting is a stored entry. Ciphertext is the keeper-encrypted value.
type Setting struct {
	Name       string
	Ciphertext []byte
	UpdatedAt  time.Time
}

var (
	// ErrSettingNotFound indicates no entry exists under the requested name.
	ErrSettingNotFound = errors.Wrap(errors.ErrNotFound, "setting not found")

	// ErrKeeperNotConfigured indicates settings cannot be read or written without a KMS key URI.
	ErrKeeperNotConfigured = errors.New("settings keeper is not configured")
)
