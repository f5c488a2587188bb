package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
	"github.com/allisson/cardauth/internal/metrics"
)

type gateUseCaseWithMetrics struct {
	next    GateUseCase
	metrics metrics.BusinessMetrics
}

// NewGateUseCaseWithMetrics wraps a GateUseCase with business metrics. Lockouts are
// recorded with the "locked" status.
func NewGateUseCaseWithMetrics(useCase GateUseCase, m metrics.BusinessMetrics) GateUseCase {
	return &gateUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (g *gateUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	g.metrics.RecordOperation(ctx, "gate", operation, status)
	g.metrics.RecordDuration(ctx, "gate", operation, time.Since(start), status)
}

func (g *gateUseCaseWithMetrics) Verify(
	ctx context.Context,
	input *gateDomain.VerifyInput,
) (*gateDomain.Session, error) {
	start := time.Now()
	session, err := g.next.Verify(ctx, input)
	g.record(ctx, "verify", start, err)
	return session, err
}

func (g *gateUseCaseWithMetrics) CheckSession(ctx context.Context, userID uuid.UUID) (*gateDomain.Session, error) {
	start := time.Now()
	session, err := g.next.CheckSession(ctx, userID)
	g.record(ctx, "check_session", start, err)
	return session, err
}

func (g *gateUseCaseWithMetrics) SetPassword(ctx context.Context, password string) error {
	start := time.Now()
	err := g.next.SetPassword(ctx, password)
	g.record(ctx, "set_password", start, err)
	return err
}
