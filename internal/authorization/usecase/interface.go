// Package usecase implements authorization capture and the audited admin reads and card disclosure.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	"github.com/allisson/cardauth/internal/notification"
)

// AuthorizationRepository persists authorizations. Records are never deleted.
type AuthorizationRepository interface {
	// Create inserts a record; a duplicate confirmation number returns ErrConfirmationConflict.
	Create(ctx context.Context, authorization *authorizationDomain.Authorization) error
	GetByID(ctx context.Context, id uuid.UUID) (*authorizationDomain.Authorization, error)

	// List returns records newest first.
	List(ctx context.Context, offset, limit int) ([]*authorizationDomain.Authorization, error)
	MarkEmailSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}

// Notifier schedules a best-effort email about a new submission.
type Notifier interface {
	Dispatch(summary *notification.Summary)
}

// AuthorizationUseCase captures card authorizations and serves them to admins.
type AuthorizationUseCase interface {
	// Submit validates, encrypts and stores a submission and schedules the notification.
	Submit(ctx context.Context, input *authorizationDomain.SubmitInput) (*authorizationDomain.Authorization, error)

	// List returns a page of records and records a view_list access.
	List(
		ctx context.Context,
		offset, limit int,
		viewer authorizationDomain.Viewer,
	) ([]*authorizationDomain.Authorization, error)

	// Get returns one record and records a view_detail access.
	Get(
		ctx context.Context,
		id uuid.UUID,
		viewer authorizationDomain.Viewer,
	) (*authorizationDomain.Authorization, error)

	// Decrypt reveals the card number and CVV and records a view_full_card_number access.
	Decrypt(ctx context.Context, input *authorizationDomain.DecryptInput) (*authorizationDomain.RevealedCard, error)
}
