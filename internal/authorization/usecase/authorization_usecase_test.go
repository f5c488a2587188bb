package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	auditMocks "github.com/allisson/cardauth/internal/audit/http/mocks"
	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	cryptoDomain "github.com/allisson/cardauth/internal/crypto/domain"
	cryptoService "github.com/allisson/cardauth/internal/crypto/service"
	apperrors "github.com/allisson/cardauth/internal/errors"
	"github.com/allisson/cardauth/internal/notification"
)

type memoryRepository struct {
	mu             sync.Mutex
	records        map[uuid.UUID]*authorizationDomain.Authorization
	conflicts      int
	createAttempts int
	listErr        error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[uuid.UUID]*authorizationDomain.Authorization)}
}

func (m *memoryRepository) Create(_ context.Context, authorization *authorizationDomain.Authorization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createAttempts++
	if m.conflicts > 0 {
		m.conflicts--
		return authorizationDomain.ErrConfirmationConflict
	}
	copied := *authorization
	m.records[authorization.ID] = &copied
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*authorizationDomain.Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, authorizationDomain.ErrAuthorizationNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memoryRepository) List(_ context.Context, _, _ int) ([]*authorizationDomain.Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*authorizationDomain.Authorization, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	return out, nil
}

func (m *memoryRepository) MarkEmailSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return authorizationDomain.ErrAuthorizationNotFound
	}
	record.EmailSent = true
	record.EmailSentAt = &sentAt
	return nil
}

type recordingNotifier struct {
	summaries []*notification.Summary
}

func (r *recordingNotifier) Dispatch(summary *notification.Summary) {
	r.summaries = append(r.summaries, summary)
}

type fixture struct {
	useCase  *authorizationUseCase
	repo     *memoryRepository
	audit    *auditMocks.MockAccessLogUseCase
	notifier *recordingNotifier
	cipher   cryptoService.FieldCipher
}

func newFixture(t *testing.T, config Config, alg cryptoDomain.Algorithm) *fixture {
	t.Helper()

	cipher, err := cryptoService.NewFieldCipher(alg, "test-field-key")
	require.NoError(t, err)

	f := &fixture{
		repo:     newMemoryRepository(),
		audit:    &auditMocks.MockAccessLogUseCase{},
		notifier: &recordingNotifier{},
		cipher:   cipher,
	}
	uc := NewAuthorizationUseCase(
		config,
		f.repo,
		cipher,
		f.audit,
		f.notifier,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	).(*authorizationUseCase)
	uc.now = func() time.Time { return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC) }
	f.useCase = uc
	return f
}

func validSubmitInput() *authorizationDomain.SubmitInput {
	return &authorizationDomain.SubmitInput{
		AuthorizationName: "Jane Doe",
		CompanyName:       "Acme",
		BillingAddress:    "1 Main St",
		CityState:         "Austin, TX",
		PostalCode:        "73301",
		Phone:             "555-0100",
		Email:             "jane@example.com",
		AccountType:       "Visa",
		CardholderName:    "Jane Doe",
		AccountNumber:     "4111 1111 1111 1111",
		ExpirationDate:    "12/26",
		CVV:               "123",
		SignatureData:     "data:image/png;base64,iVBORw0KGgo=",
		SignatureType:     "drawn",
		IPAddress:         "203.0.113.7",
	}
}

func testViewer() authorizationDomain.Viewer {
	return authorizationDomain.Viewer{
		UserID:    uuid.New(),
		UserEmail: "admin@example.com",
		IPAddress: "198.51.100.1",
	}
}

func TestAuthorizationUseCase_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)

		authorization, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		assert.Regexp(t, `^CC-[A-Z0-9]+-[A-Z0-9]+$`, authorization.ConfirmationNumber)
		assert.Equal(t, "1111", authorization.AccountNumberLast4)
		assert.NotContains(t, authorization.AccountNumberEncrypted, "4111")
		assert.NotEqual(t, "123", authorization.CVVEncrypted)
		assert.False(t, authorization.EmailSent)
		assert.Equal(t, f.useCase.now(), authorization.SignatureDate)

		cardNumber, err := f.cipher.Decrypt(authorization.AccountNumberEncrypted)
		require.NoError(t, err)
		assert.Equal(t, "4111111111111111", cardNumber)
		assert.Equal(t, cardNumber[len(cardNumber)-4:], authorization.AccountNumberLast4)

		cvv, err := f.cipher.Decrypt(authorization.CVVEncrypted)
		require.NoError(t, err)
		assert.Equal(t, "123", cvv)

		stored, err := f.repo.GetByID(ctx, authorization.ID)
		require.NoError(t, err)
		assert.Equal(t, authorization.ConfirmationNumber, stored.ConfirmationNumber)

		require.Len(t, f.notifier.summaries, 1)
		summary := f.notifier.summaries[0]
		assert.Equal(t, authorization.ID, summary.AuthorizationID)
		assert.Equal(t, "1111", summary.AccountNumberLast4)
		assert.Equal(t, "203.0.113.7", summary.IPAddress)
	})

	t.Run("ValidationFailureStoresNothing", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		input := validSubmitInput()
		input.Email = ""

		authorization, err := f.useCase.Submit(ctx, input)
		assert.Nil(t, authorization)
		var missing *authorizationDomain.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "email", missing.Field)
		assert.Empty(t, f.repo.records)
		assert.Empty(t, f.notifier.summaries)
	})

	t.Run("ProvidedSignatureDateIsKept", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		signed := time.Date(2026, 6, 30, 9, 0, 0, 0, time.UTC)
		input := validSubmitInput()
		input.SignatureDate = &signed

		authorization, err := f.useCase.Submit(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, signed, authorization.SignatureDate)
	})

	t.Run("RetriesConfirmationConflict", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		f.repo.conflicts = 2

		authorization, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)
		assert.NotEmpty(t, authorization.ConfirmationNumber)
		assert.Equal(t, 3, f.repo.createAttempts)
	})

	t.Run("GivesUpAfterRepeatedConflicts", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		f.repo.conflicts = maxConfirmationAttempts

		authorization, err := f.useCase.Submit(ctx, validSubmitInput())
		assert.Nil(t, authorization)
		assert.ErrorIs(t, err, authorizationDomain.ErrConfirmationConflict)
		assert.Empty(t, f.notifier.summaries)
	})

	t.Run("NilNotifier", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.AESGCM)
		f.useCase.notifier = nil

		_, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)
	})
}

func TestAuthorizationUseCase_ListAndGet(t *testing.T) {
	ctx := context.Background()
	viewer := testViewer()

	t.Run("ListRecordsViewList", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		_, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		f.audit.On("Record", ctx, mock.MatchedBy(func(input *auditDomain.RecordInput) bool {
			return input.Action == auditDomain.ActionViewList &&
				input.AuthorizationID == nil &&
				input.UserID == viewer.UserID &&
				input.IPAddress == viewer.IPAddress
		})).Return(&auditDomain.AccessLog{}, nil).Once()

		authorizations, err := f.useCase.List(ctx, 0, 25, viewer)
		require.NoError(t, err)
		assert.Len(t, authorizations, 1)
		f.audit.AssertExpectations(t)
	})

	t.Run("ListRepositoryError", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		f.repo.listErr = errors.New("db down")

		authorizations, err := f.useCase.List(ctx, 0, 25, viewer)
		assert.Nil(t, authorizations)
		assert.Error(t, err)
		f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("GetRecordsViewDetail", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		created, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		f.audit.On("Record", ctx, mock.MatchedBy(func(input *auditDomain.RecordInput) bool {
			return input.Action == auditDomain.ActionViewDetail &&
				input.AuthorizationID != nil && *input.AuthorizationID == created.ID
		})).Return(&auditDomain.AccessLog{}, nil).Once()

		authorization, err := f.useCase.Get(ctx, created.ID, viewer)
		require.NoError(t, err)
		assert.Equal(t, created.ID, authorization.ID)
		f.audit.AssertExpectations(t)
	})

	t.Run("GetAuditFailureIsNotFatal", func(t *testing.T) {
		f := newFixture(t, Config{AuditFailClosed: true}, cryptoDomain.XOR)
		created, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		f.audit.On("Record", ctx, mock.Anything).Return(nil, errors.New("audit down")).Once()

		authorization, err := f.useCase.Get(ctx, created.ID, viewer)
		require.NoError(t, err)
		assert.Equal(t, created.ID, authorization.ID)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)

		authorization, err := f.useCase.Get(ctx, uuid.New(), viewer)
		assert.Nil(t, authorization)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})
}

func TestAuthorizationUseCase_Decrypt(t *testing.T) {
	ctx := context.Background()
	viewer := testViewer()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.XOR, cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run("RoundTrip_"+string(alg), func(t *testing.T) {
			f := newFixture(t, Config{}, alg)
			created, err := f.useCase.Submit(ctx, validSubmitInput())
			require.NoError(t, err)

			f.audit.On("Record", ctx, mock.MatchedBy(func(input *auditDomain.RecordInput) bool {
				return input.Action == auditDomain.ActionViewFullCardNumber &&
					input.AuthorizationID != nil && *input.AuthorizationID == created.ID &&
					input.UserEmail == viewer.UserEmail
			})).Return(&auditDomain.AccessLog{}, nil).Once()

			card, err := f.useCase.Decrypt(ctx, &authorizationDomain.DecryptInput{
				AuthorizationID:     created.ID,
				EncryptedCardNumber: created.AccountNumberEncrypted,
				EncryptedCVV:        created.CVVEncrypted,
				Viewer:              viewer,
			})
			require.NoError(t, err)
			assert.Equal(t, "4111111111111111", card.CardNumber)
			assert.Equal(t, "123", card.CVV)
			f.audit.AssertExpectations(t)
		})
	}

	t.Run("CiphertextMismatch", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		created, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		other, err := f.cipher.Encrypt("5555555555554444")
		require.NoError(t, err)

		card, err := f.useCase.Decrypt(ctx, &authorizationDomain.DecryptInput{
			AuthorizationID:     created.ID,
			EncryptedCardNumber: other,
			EncryptedCVV:        created.CVVEncrypted,
			Viewer:              viewer,
		})
		assert.Nil(t, card)
		assert.ErrorIs(t, err, authorizationDomain.ErrCiphertextMismatch)
		f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)

		card, err := f.useCase.Decrypt(ctx, &authorizationDomain.DecryptInput{
			AuthorizationID:     uuid.New(),
			EncryptedCardNumber: "x",
			EncryptedCVV:        "y",
			Viewer:              viewer,
		})
		assert.Nil(t, card)
		assert.ErrorIs(t, err, authorizationDomain.ErrAuthorizationNotFound)
	})

	t.Run("AuditFailureFailOpen", func(t *testing.T) {
		f := newFixture(t, Config{}, cryptoDomain.XOR)
		created, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		f.audit.On("Record", ctx, mock.Anything).Return(nil, errors.New("audit down")).Once()

		card, err := f.useCase.Decrypt(ctx, &authorizationDomain.DecryptInput{
			AuthorizationID:     created.ID,
			EncryptedCardNumber: created.AccountNumberEncrypted,
			EncryptedCVV:        created.CVVEncrypted,
			Viewer:              viewer,
		})
		require.NoError(t, err)
		assert.Equal(t, "4111111111111111", card.CardNumber)
	})

	t.Run("AuditFailureFailClosed", func(t *testing.T) {
		f := newFixture(t, Config{AuditFailClosed: true}, cryptoDomain.XOR)
		created, err := f.useCase.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		f.audit.On("Record", ctx, mock.Anything).Return(nil, errors.New("audit down")).Once()

		card, err := f.useCase.Decrypt(ctx, &authorizationDomain.DecryptInput{
			AuthorizationID:     created.ID,
			EncryptedCardNumber: created.AccountNumberEncrypted,
			EncryptedCVV:        created.CVVEncrypted,
			Viewer:              viewer,
		})
		assert.Nil(t, card)
		assert.Error(t, err)
	})
}
