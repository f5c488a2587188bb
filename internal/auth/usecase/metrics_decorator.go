package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	"github.com/allisson/cardauth/internal/metrics"
)

type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with login and authentication metrics.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.IssuedToken, error) {
	start := time.Now()
	output, err := t.next.Login(ctx, input)

	status := metrics.Status(err)
	t.metrics.RecordOperation(ctx, "auth", "login", status)
	t.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return output, err
}

func (t *tokenUseCaseWithMetrics) Authenticate(ctx context.Context, token string) (*authDomain.User, error) {
	start := time.Now()
	user, err := t.next.Authenticate(ctx, token)

	status := metrics.Status(err)
	t.metrics.RecordOperation(ctx, "auth", "token_authenticate", status)
	t.metrics.RecordDuration(ctx, "auth", "token_authenticate", time.Since(start), status)

	return user, err
}
