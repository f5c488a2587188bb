// Package usecase records, lists and verifies access log entries.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
)

// AccessLogRepository persists access log entries. Entries are never updated or deleted.
type AccessLogRepository interface {
	Create(ctx context.Context, log *auditDomain.AccessLog) error

	// List returns entries newest first.
	List(
		ctx context.Context,
		offset, limit int,
		filter auditDomain.ListFilter,
	) ([]*auditDomain.AccessLog, error)
}

// AccessLogUseCase is the audit trail of sensitive reads.
type AccessLogUseCase interface {
	// Record signs and appends one entry.
	Record(ctx context.Context, input *auditDomain.RecordInput) (*auditDomain.AccessLog, error)

	List(
		ctx context.Context,
		offset, limit int,
		filter auditDomain.ListFilter,
	) ([]*auditDomain.AccessLog, error)

	// Verify recomputes signatures of every entry created within [from, to].
	Verify(ctx context.Context, from, to *time.Time) (*auditDomain.VerificationReport, error)
}
