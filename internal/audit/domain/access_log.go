// Package domain defines the append-only access log of sensitive card-data reads.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardauth/internal/errors"
)

// Action names a sensitive-data access event.
type Action string

const (
	// ActionPasswordVerified is written when the disclosure gate is unlocked.
	ActionPasswordVerified Action = "password_verified"

	// ActionViewList is written when the authorization list is read.
	ActionViewList Action = "view_list"

	// ActionViewDetail is written when a single authorization is read.
	ActionViewDetail Action = "view_detail"

	// ActionViewFullCardNumber is written when card data is decrypted for a caller.
	ActionViewFullCardNumber Action = "view_full_card_number"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionPasswordVerified, ActionViewList, ActionViewDetail, ActionViewFullCardNumber:
		return true
	default:
		return false
	}
}

// AccessLog is one write-once audit entry. AuthorizationID is nil for list-level events.
// Signature is an HMAC-SHA256 over the canonical entry, or nil when signing is disabled.
type AccessLog struct {
	ID              uuid.UUID
	AuthorizationID *uuid.UUID
	UserID          uuid.UUID
	UserEmail       string
	Action          Action
	IPAddress       string
	Signature       []byte
	CreatedAt       time.Time
}

// IsSigned reports whether the entry carries a signature.
func (l *AccessLog) IsSigned() bool {
	return len(l.Signature) > 0
}

// RecordInput carries the caller-supplied fields of a new entry.
type RecordInput struct {
	AuthorizationID *uuid.UUID
	UserID          uuid.UUID
	UserEmail       string
	Action          Action
	IPAddress       string
}

// ListFilter narrows an access log listing. Zero values match everything.
type ListFilter struct {
	AuthorizationID *uuid.UUID
	Action          Action
	CreatedAtFrom   *time.Time
	CreatedAtTo     *time.Time
}

var (
	// ErrInvalidAction indicates an unknown action name.
	ErrInvalidAction = errors.Wrap(errors.ErrInvalidInput, "unknown audit action")

	// ErrSignatureInvalid indicates an entry whose signature does not match its content.
	ErrSignatureInvalid = errors.New("audit log signature mismatch")
)

// VerificationReport summarizes a signature check over a range of entries.
type VerificationReport struct {
	TotalChecked  int
	SignedCount   int
	UnsignedCount int
	ValidCount    int
	InvalidCount  int
	InvalidLogs   []uuid.UUID
}
