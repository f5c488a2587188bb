// Package domain models the disclosure gate: a shared password, independent of admin logins,
// that must be entered before stored card data can be viewed.
package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Policy holds the lockout and session parameters.
type Policy struct {
	MaxAttempts     int
	LockoutDuration time.Duration
	SessionWindow   time.Duration
}

// DefaultPolicy locks for 5 minutes after 3 failures and keeps an unlock for 30 minutes.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		LockoutDuration: 5 * time.Minute,
		SessionWindow:   30 * time.Minute,
	}
}

// GatePassword is the singleton gate record. PasswordHash is the lower-case hex SHA-256 of
// the gate password; the plaintext is never stored.
type GatePassword struct {
	PasswordHash   string
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HashPassword returns the hex-encoded SHA-256 digest of the UTF-8 password bytes.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsLocked reports whether a lockout is in force at now.
func (g *GatePassword) IsLocked(now time.Time) bool {
	return g.LockedUntil != nil && now.Before(*g.LockedUntil)
}

// RetryAfter is the time left until the lockout ends, zero when not locked.
func (g *GatePassword) RetryAfter(now time.Time) time.Duration {
	if !g.IsLocked(now) {
		return 0
	}
	return g.LockedUntil.Sub(now)
}

// ClearExpiredLock resets the counters once a lockout has elapsed. It reports whether
// anything changed.
func (g *GatePassword) ClearExpiredLock(now time.Time) bool {
	if g.LockedUntil == nil || g.IsLocked(now) {
		return false
	}
	g.FailedAttempts = 0
	g.LockedUntil = nil
	g.UpdatedAt = now
	return true
}

// Matches compares a candidate hash in constant time, ignoring hex case.
func (g *GatePassword) Matches(candidateHash string) bool {
	candidate := strings.ToLower(strings.TrimSpace(candidateHash))
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(g.PasswordHash)) == 1
}

// RegisterFailure counts a failed attempt and starts a lockout when the limit is reached.
// It returns the attempts left before lockout.
func (g *GatePassword) RegisterFailure(now time.Time, policy Policy) int {
	g.FailedAttempts++
	g.UpdatedAt = now
	if g.FailedAttempts >= policy.MaxAttempts {
		lockedUntil := now.Add(policy.LockoutDuration)
		g.LockedUntil = &lockedUntil
		return 0
	}
	return policy.MaxAttempts - g.FailedAttempts
}

// RegisterSuccess clears the failure counter and any lockout.
func (g *GatePassword) RegisterSuccess(now time.Time) {
	g.FailedAttempts = 0
	g.LockedUntil = nil
	g.UpdatedAt = now
}

// SessionActive reports whether an unlock recorded at unlockedAt is still valid at now.
func SessionActive(now, unlockedAt time.Time, window time.Duration) bool {
	if unlockedAt.IsZero() {
		return false
	}
	elapsed := now.Sub(unlockedAt)
	return elapsed >= 0 && elapsed < window
}

// VerifyInput is one unlock attempt by an authenticated admin.
type VerifyInput struct {
	PasswordHash string
	UserID       uuid.UUID
	UserEmail    string
	IPAddress    string
}

// Session describes an admin's unlock state.
type Session struct {
	Unlocked   bool
	UnlockedAt time.Time
	ExpiresAt  time.Time
}
