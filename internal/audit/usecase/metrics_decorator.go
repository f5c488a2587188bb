package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	"github.com/allisson/cardauth/internal/metrics"
)

type accessLogUseCaseWithMetrics struct {
	next    AccessLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessLogUseCaseWithMetrics wraps an AccessLogUseCase with business metrics.
func NewAccessLogUseCaseWithMetrics(useCase AccessLogUseCase, m metrics.BusinessMetrics) AccessLogUseCase {
	return &accessLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *accessLogUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	a.metrics.RecordOperation(ctx, "audit", operation, status)
	a.metrics.RecordDuration(ctx, "audit", operation, time.Since(start), status)
}

func (a *accessLogUseCaseWithMetrics) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AccessLog, error) {
	start := time.Now()
	log, err := a.next.Record(ctx, input)
	a.record(ctx, "record", start, err)
	return log, err
}

func (a *accessLogUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AccessLog, error) {
	start := time.Now()
	logs, err := a.next.List(ctx, offset, limit, filter)
	a.record(ctx, "list", start, err)
	return logs, err
}

func (a *accessLogUseCaseWithMetrics) Verify(
	ctx context.Context,
	from, to *time.Time,
) (*auditDomain.VerificationReport, error) {
	start := time.Now()
	report, err := a.next.Verify(ctx, from, to)
	a.record(ctx, "verify", start, err)
	return report, err
}
