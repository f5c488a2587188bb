package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	auditService "github.com/allisson/cardauth/internal/audit/service"
	apperrors "github.com/allisson/cardauth/internal/errors"
)

// verifyBatchSize is the page size used while walking the log during verification.
const verifyBatchSize = 500

type accessLogUseCase struct {
	repo   AccessLogRepository
	signer auditService.Signer
	now    func() time.Time
}

func (a *accessLogUseCase) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AccessLog, error) {
	if !input.Action.Valid() {
		return nil, auditDomain.ErrInvalidAction
	}

	// Stored timestamps keep microseconds only; signing a finer value would never verify.
	log := &auditDomain.AccessLog{
		ID:              uuid.Must(uuid.NewV7()),
		AuthorizationID: input.AuthorizationID,
		UserID:          input.UserID,
		UserEmail:       input.UserEmail,
		Action:          input.Action,
		IPAddress:       input.IPAddress,
		CreatedAt:       a.now().UTC().Truncate(time.Microsecond),
	}
	log.Signature = a.signer.Sign(log)

	if err := a.repo.Create(ctx, log); err != nil {
		return nil, apperrors.Wrap(err, "failed to record access log")
	}

	return log, nil
}

func (a *accessLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AccessLog, error) {
	logs, err := a.repo.List(ctx, offset, limit, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access logs")
	}
	return logs, nil
}

func (a *accessLogUseCase) Verify(
	ctx context.Context,
	from, to *time.Time,
) (*auditDomain.VerificationReport, error) {
	report := &auditDomain.VerificationReport{InvalidLogs: make([]uuid.UUID, 0)}
	filter := auditDomain.ListFilter{CreatedAtFrom: from, CreatedAtTo: to}

	for offset := 0; ; offset += verifyBatchSize {
		logs, err := a.repo.List(ctx, offset, verifyBatchSize, filter)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list access logs")
		}

		for _, log := range logs {
			report.TotalChecked++
			if !log.IsSigned() {
				report.UnsignedCount++
				continue
			}
			report.SignedCount++
			if err := a.signer.Verify(log); err != nil {
				report.InvalidCount++
				report.InvalidLogs = append(report.InvalidLogs, log.ID)
				continue
			}
			report.ValidCount++
		}

		if len(logs) < verifyBatchSize {
			return report, nil
		}
	}
}

// NewAccessLogUseCase creates an AccessLogUseCase signing entries with signer.
func NewAccessLogUseCase(repo AccessLogRepository, signer auditService.Signer) AccessLogUseCase {
	return &accessLogUseCase{
		repo:   repo,
		signer: signer,
		now:    time.Now,
	}
}
