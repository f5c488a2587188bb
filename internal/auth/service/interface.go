// Package service provides password hashing and bearer token signing for admin logins.
package service

import (
	"time"

	"github.com/google/uuid"
)

// PasswordService hashes and verifies admin login passwords.
type PasswordService interface {
	Hash(plain string) (string, error)
	Compare(plain, hashed string) bool
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(now time.Time, userID uuid.UUID, email string) (token string, expiresAt time.Time, err error)
	Verify(token string, now time.Time) (*Claims, error)
}
