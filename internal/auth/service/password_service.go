package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash returns an Argon2id PHC string for plain.
func (s *passwordService) Hash(plain string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// Compare reports whether plain matches hashed. Malformed hashes never match.
func (s *passwordService) Compare(plain, hashed string) bool {
	ok, err := s.hasher.Verify([]byte(plain), hashed)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyInteractive),
	)
	if err != nil {
		panic(err)
	}

	return &passwordService{
		hasher: hasher,
	}
}
