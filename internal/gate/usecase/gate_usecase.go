package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	auditUseCase "github.com/allisson/cardauth/internal/audit/usecase"
	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

var sha256HexPattern = regexp.MustCompile(`^\s*[0-9a-fA-F]{64}\s*$`)

type gateUseCase struct {
	txManager database.TxManager
	repo      GateRepository
	sessions  SessionStore
	audit     auditUseCase.AccessLogUseCase
	policy    gateDomain.Policy
	logger    *slog.Logger
	now       func() time.Time
}

func (g *gateUseCase) Verify(
	ctx context.Context,
	input *gateDomain.VerifyInput,
) (*gateDomain.Session, error) {
	if !sha256HexPattern.MatchString(input.PasswordHash) {
		return nil, gateDomain.ErrInvalidPasswordHash
	}

	now := g.now().UTC()

	// The rejection is decided inside the transaction but returned after it commits,
	// so the failure counter survives.
	var rejection error
	err := g.txManager.WithTx(ctx, func(ctx context.Context) error {
		gate, err := g.repo.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		if gate.IsLocked(now) {
			rejection = &gateDomain.LockedError{RetryAfter: gate.RetryAfter(now)}
			return nil
		}

		gate.ClearExpiredLock(now)

		if !gate.Matches(input.PasswordHash) {
			remaining := gate.RegisterFailure(now, g.policy)
			rejection = &gateDomain.InvalidPasswordError{RemainingAttempts: remaining}
			return g.repo.UpdateAttempts(ctx, gate)
		}

		gate.RegisterSuccess(now)
		return g.repo.UpdateAttempts(ctx, gate)
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		g.logger.Warn("gate verification rejected",
			slog.String("user_id", input.UserID.String()),
			slog.String("ip_address", input.IPAddress),
			slog.Any("reason", rejection))
		return nil, rejection
	}

	if err := g.sessions.Put(ctx, input.UserID, now, g.policy.SessionWindow); err != nil {
		return nil, err
	}

	if _, err := g.audit.Record(ctx, &auditDomain.RecordInput{
		UserID:    input.UserID,
		UserEmail: input.UserEmail,
		Action:    auditDomain.ActionPasswordVerified,
		IPAddress: input.IPAddress,
	}); err != nil {
		g.logger.Error("failed to record gate unlock",
			slog.String("user_id", input.UserID.String()),
			slog.Any("error", err))
	}

	return &gateDomain.Session{
		Unlocked:   true,
		UnlockedAt: now,
		ExpiresAt:  now.Add(g.policy.SessionWindow),
	}, nil
}

func (g *gateUseCase) CheckSession(ctx context.Context, userID uuid.UUID) (*gateDomain.Session, error) {
	unlockedAt, ok, err := g.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &gateDomain.Session{}, nil
	}

	if !gateDomain.SessionActive(g.now().UTC(), unlockedAt, g.policy.SessionWindow) {
		if err := g.sessions.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return &gateDomain.Session{}, nil
	}

	return &gateDomain.Session{
		Unlocked:   true,
		UnlockedAt: unlockedAt,
		ExpiresAt:  unlockedAt.Add(g.policy.SessionWindow),
	}, nil
}

func (g *gateUseCase) SetPassword(ctx context.Context, password string) error {
	err := validation.Validate(password,
		validation.Required,
		customValidation.NotBlank,
		validation.Length(8, 128),
	)
	if err != nil {
		return apperrors.Wrap(customValidation.WrapValidationError(err), "password")
	}

	now := g.now().UTC()
	return g.repo.Save(ctx, &gateDomain.GatePassword{
		PasswordHash: gateDomain.HashPassword(password),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// NewGateUseCase creates a GateUseCase enforcing policy.
func NewGateUseCase(
	txManager database.TxManager,
	repo GateRepository,
	sessions SessionStore,
	audit auditUseCase.AccessLogUseCase,
	policy gateDomain.Policy,
	logger *slog.Logger,
) GateUseCase {
	return &gateUseCase{
		txManager: txManager,
		repo:      repo,
		sessions:  sessions,
		audit:     audit,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}
