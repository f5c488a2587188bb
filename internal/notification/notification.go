// Package notification emails the operations mailbox about new card authorizations.
// Sends run on detached goroutines so a slow or failing mail provider never affects
// the submitter's response.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Summary is the non-sensitive view of a submission that may leave the system by email.
// It deliberately has no fields for the full card number, CVV or signature image.
type Summary struct {
	AuthorizationID    uuid.UUID
	ConfirmationNumber string
	AuthorizationName  string
	CompanyName        string
	Email              string
	Phone              string
	CityState          string
	AccountType        string
	CardholderName     string
	AccountNumberLast4 string
	SignatureType      string
	IPAddress          string
	CreatedAt          time.Time
}

// Mailer delivers one summary.
type Mailer interface {
	Send(ctx context.Context, summary *Summary) error
}

// SentRecorder marks an authorization as notified.
type SentRecorder interface {
	MarkEmailSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}
