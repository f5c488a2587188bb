package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	auditUseCase "github.com/allisson/cardauth/internal/audit/usecase"
	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	cryptoService "github.com/allisson/cardauth/internal/crypto/service"
	apperrors "github.com/allisson/cardauth/internal/errors"
	"github.com/allisson/cardauth/internal/notification"
)

// maxConfirmationAttempts bounds retries after a confirmation number collision.
const maxConfirmationAttempts = 3

// Config holds authorization use case options.
type Config struct {
	// AuditFailClosed makes a failed access log write abort a card disclosure.
	AuditFailClosed bool
}

type authorizationUseCase struct {
	config   Config
	repo     AuthorizationRepository
	cipher   cryptoService.FieldCipher
	audit    auditUseCase.AccessLogUseCase
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func (a *authorizationUseCase) Submit(
	ctx context.Context,
	input *authorizationDomain.SubmitInput,
) (*authorizationDomain.Authorization, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cardNumber := authorizationDomain.NormalizeCardNumber(input.AccountNumber)

	accountNumberEncrypted, err := a.cipher.Encrypt(cardNumber)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt account number")
	}
	cvvEncrypted, err := a.cipher.Encrypt(strings.TrimSpace(input.CVV))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt cvv")
	}

	now := a.now().UTC()
	signatureDate := now
	if input.SignatureDate != nil && !input.SignatureDate.IsZero() {
		signatureDate = input.SignatureDate.UTC()
	}

	authorization := &authorizationDomain.Authorization{
		ID:                     uuid.Must(uuid.NewV7()),
		AuthorizationName:      strings.TrimSpace(input.AuthorizationName),
		CompanyName:            strings.TrimSpace(input.CompanyName),
		BillingAddress:         strings.TrimSpace(input.BillingAddress),
		CityState:              strings.TrimSpace(input.CityState),
		PostalCode:             strings.TrimSpace(input.PostalCode),
		Phone:                  strings.TrimSpace(input.Phone),
		Email:                  strings.TrimSpace(input.Email),
		AccountType:            authorizationDomain.AccountType(input.AccountType),
		CardholderName:         strings.TrimSpace(input.CardholderName),
		AccountNumberEncrypted: accountNumberEncrypted,
		AccountNumberLast4:     authorizationDomain.Last4(cardNumber),
		ExpirationDate:         input.ExpirationDate,
		CVVEncrypted:           cvvEncrypted,
		SignatureData:          input.SignatureData,
		SignatureType:          authorizationDomain.SignatureType(input.SignatureType),
		SignatureDate:          signatureDate,
		IPAddress:              input.IPAddress,
		CreatedAt:              now,
	}

	if err := a.create(ctx, authorization); err != nil {
		return nil, err
	}

	a.logger.Info("authorization captured",
		slog.String("authorization_id", authorization.ID.String()),
		slog.String("confirmation_number", authorization.ConfirmationNumber))

	if a.notifier == nil {
		return authorization, nil
	}
	a.notifier.Dispatch(&notification.Summary{
		AuthorizationID:    authorization.ID,
		ConfirmationNumber: authorization.ConfirmationNumber,
		AuthorizationName:  authorization.AuthorizationName,
		CompanyName:        authorization.CompanyName,
		Email:              authorization.Email,
		Phone:              authorization.Phone,
		CityState:          authorization.CityState,
		AccountType:        string(authorization.AccountType),
		CardholderName:     authorization.CardholderName,
		AccountNumberLast4: authorization.AccountNumberLast4,
		SignatureType:      string(authorization.SignatureType),
		IPAddress:          authorization.IPAddress,
		CreatedAt:          authorization.CreatedAt,
	})

	return authorization, nil
}

// create assigns a confirmation number and inserts, retrying on the rare collision.
func (a *authorizationUseCase) create(ctx context.Context, authorization *authorizationDomain.Authorization) error {
	var err error
	for range maxConfirmationAttempts {
		authorization.ConfirmationNumber, err = authorizationDomain.NewConfirmationNumber(a.now())
		if err != nil {
			return apperrors.Wrap(err, "failed to generate confirmation number")
		}

		err = a.repo.Create(ctx, authorization)
		if !errors.Is(err, authorizationDomain.ErrConfirmationConflict) {
			return err
		}
		a.logger.Warn("confirmation number collision, retrying",
			slog.String("confirmation_number", authorization.ConfirmationNumber))
	}
	return err
}

func (a *authorizationUseCase) List(
	ctx context.Context,
	offset, limit int,
	viewer authorizationDomain.Viewer,
) ([]*authorizationDomain.Authorization, error) {
	authorizations, err := a.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list authorizations")
	}

	a.recordAccess(ctx, nil, viewer, auditDomain.ActionViewList)
	return authorizations, nil
}

func (a *authorizationUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
	viewer authorizationDomain.Viewer,
) (*authorizationDomain.Authorization, error) {
	authorization, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.recordAccess(ctx, &id, viewer, auditDomain.ActionViewDetail)
	return authorization, nil
}

func (a *authorizationUseCase) Decrypt(
	ctx context.Context,
	input *authorizationDomain.DecryptInput,
) (*authorizationDomain.RevealedCard, error) {
	authorization, err := a.repo.GetByID(ctx, input.AuthorizationID)
	if err != nil {
		return nil, err
	}

	if authorization.AccountNumberEncrypted != input.EncryptedCardNumber ||
		authorization.CVVEncrypted != input.EncryptedCVV {
		return nil, authorizationDomain.ErrCiphertextMismatch
	}

	cardNumber, err := a.cipher.Decrypt(input.EncryptedCardNumber)
	if err != nil {
		return nil, err
	}
	cvv, err := a.cipher.Decrypt(input.EncryptedCVV)
	if err != nil {
		return nil, err
	}

	if err := a.recordAccess(
		ctx, &input.AuthorizationID, input.Viewer, auditDomain.ActionViewFullCardNumber,
	); err != nil && a.config.AuditFailClosed {
		return nil, apperrors.Wrap(err, "card disclosure refused: access log unavailable")
	}

	return &authorizationDomain.RevealedCard{CardNumber: cardNumber, CVV: cvv}, nil
}

// recordAccess writes an access log entry. Failures are logged and returned; callers decide
// whether they are fatal.
func (a *authorizationUseCase) recordAccess(
	ctx context.Context,
	authorizationID *uuid.UUID,
	viewer authorizationDomain.Viewer,
	action auditDomain.Action,
) error {
	_, err := a.audit.Record(ctx, &auditDomain.RecordInput{
		AuthorizationID: authorizationID,
		UserID:          viewer.UserID,
		UserEmail:       viewer.UserEmail,
		Action:          action,
		IPAddress:       viewer.IPAddress,
	})
	if err != nil {
		a.logger.Error("failed to record access log",
			slog.String("action", string(action)),
			slog.String("user_id", viewer.UserID.String()),
			slog.Any("error", err))
	}
	return err
}

// NewAuthorizationUseCase creates an AuthorizationUseCase. Submission and disclosure share cipher.
func NewAuthorizationUseCase(
	config Config,
	repo AuthorizationRepository,
	cipher cryptoService.FieldCipher,
	audit auditUseCase.AccessLogUseCase,
	notifier Notifier,
	logger *slog.Logger,
) AuthorizationUseCase {
	return &authorizationUseCase{
		config:   config,
		repo:     repo,
		cipher:   cipher,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}
