// Package usecase implements disclosure gate verification, lockout and session checks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
)

// GateRepository persists the singleton gate row.
type GateRepository interface {
	// GetForUpdate reads the row and locks it for the rest of the transaction.
	GetForUpdate(ctx context.Context) (*gateDomain.GatePassword, error)
	UpdateAttempts(ctx context.Context, gate *gateDomain.GatePassword) error
	Save(ctx context.Context, gate *gateDomain.GatePassword) error
}

// SessionStore records when each admin last unlocked the gate.
type SessionStore interface {
	Put(ctx context.Context, userID uuid.UUID, unlockedAt time.Time, ttl time.Duration) error
	Get(ctx context.Context, userID uuid.UUID) (time.Time, bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// GateUseCase guards access to stored card data behind the gate password.
type GateUseCase interface {
	// Verify checks a candidate password hash and unlocks the caller's session on success.
	// Wrong passwords return *InvalidPasswordError; attempts during a lockout return *LockedError.
	Verify(ctx context.Context, input *gateDomain.VerifyInput) (*gateDomain.Session, error)

	// CheckSession reports whether userID holds an unexpired unlock, dropping stale ones.
	CheckSession(ctx context.Context, userID uuid.UUID) (*gateDomain.Session, error)

	// SetPassword creates or replaces the gate password and clears any lockout.
	SetPassword(ctx context.Context, password string) error
}
