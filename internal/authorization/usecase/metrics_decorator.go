package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	"github.com/allisson/cardauth/internal/metrics"
)

type authorizationUseCaseWithMetrics struct {
	next    AuthorizationUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthorizationUseCaseWithMetrics wraps an AuthorizationUseCase with business metrics.
func NewAuthorizationUseCaseWithMetrics(useCase AuthorizationUseCase, m metrics.BusinessMetrics) AuthorizationUseCase {
	return &authorizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authorizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	a.metrics.RecordOperation(ctx, "authorization", operation, status)
	a.metrics.RecordDuration(ctx, "authorization", operation, time.Since(start), status)
}

func (a *authorizationUseCaseWithMetrics) Submit(
	ctx context.Context,
	input *authorizationDomain.SubmitInput,
) (*authorizationDomain.Authorization, error) {
	start := time.Now()
	authorization, err := a.next.Submit(ctx, input)
	a.record(ctx, "submit", start, err)
	return authorization, err
}

func (a *authorizationUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	viewer authorizationDomain.Viewer,
) ([]*authorizationDomain.Authorization, error) {
	start := time.Now()
	authorizations, err := a.next.List(ctx, offset, limit, viewer)
	a.record(ctx, "list", start, err)
	return authorizations, err
}

func (a *authorizationUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
	viewer authorizationDomain.Viewer,
) (*authorizationDomain.Authorization, error) {
	start := time.Now()
	authorization, err := a.next.Get(ctx, id, viewer)
	a.record(ctx, "get", start, err)
	return authorization, err
}

func (a *authorizationUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	input *authorizationDomain.DecryptInput,
) (*authorizationDomain.RevealedCard, error) {
	start := time.Now()
	card, err := a.next.Decrypt(ctx, input)
	a.record(ctx, "decrypt", start, err)
	return card, err
}
