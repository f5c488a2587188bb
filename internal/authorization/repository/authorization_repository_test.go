package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
)

var authorizationColumns = []string{
	"id", "confirmation_number", "authorization_name", "company_name", "billing_address",
	"city_state", "postal_code", "phone", "email", "account_type", "cardholder_name",
	"account_number_encrypted", "account_number_last4", "expiration_date", "cvv_encrypted",
	"signature_data", "signature_type", "signature_date", "ip_address", "email_sent", "email_sent_at",
	"created_at",
}

func newTestAuthorization() *authorizationDomain.Authorization {
	createdAt := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	return &authorizationDomain.Authorization{
		ID:                     uuid.Must(uuid.NewV7()),
		ConfirmationNumber:     "CC-MR20WW00-ABCDEFGH",
		AuthorizationName:      "Jane Doe",
		CompanyName:            "Acme",
		BillingAddress:         "1 Main St",
		CityState:              "Austin, TX",
		PostalCode:             "73301",
		Phone:                  "555-0100",
		Email:                  "jane@example.com",
		AccountType:            authorizationDomain.AccountTypeVisa,
		CardholderName:         "Jane Doe",
		AccountNumberEncrypted: "ciphertext-pan",
		AccountNumberLast4:     "1111",
		ExpirationDate:         "12/26",
		CVVEncrypted:           "ciphertext-cvv",
		SignatureData:          "data:image/png;base64,iVBORw0KGgo=",
		SignatureType:          authorizationDomain.SignatureTypeDrawn,
		SignatureDate:          createdAt,
		IPAddress:              "203.0.113.7",
		CreatedAt:              createdAt,
	}
}

func authorizationRow(id any, a *authorizationDomain.Authorization, emailSentAt any) []driver.Value {
	return []driver.Value{
		id, a.ConfirmationNumber, a.AuthorizationName, a.CompanyName, a.BillingAddress,
		a.CityState, a.PostalCode, a.Phone, a.Email, string(a.AccountType), a.CardholderName,
		a.AccountNumberEncrypted, a.AccountNumberLast4, a.ExpirationDate, a.CVVEncrypted,
		a.SignatureData, string(a.SignatureType), a.SignatureDate, a.IPAddress, emailSentAt != nil, emailSentAt,
		a.CreatedAt,
	}
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestPostgreSQLAuthorizationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		authorization := newTestAuthorization()
		args := append([]driver.Value{authorization.ID, authorization.ConfirmationNumber}, anyArgs(20)...)
		mock.ExpectExec("INSERT INTO authorizations").
			WithArgs(args...).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLAuthorizationRepository(db)
		require.NoError(t, repo.Create(ctx, authorization))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConfirmationConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO authorizations").
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewPostgreSQLAuthorizationRepository(db)
		err = repo.Create(ctx, newTestAuthorization())
		assert.ErrorIs(t, err, authorizationDomain.ErrConfirmationConflict)
	})

	t.Run("OtherError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO authorizations").WillReturnError(errors.New("connection reset"))

		repo := NewPostgreSQLAuthorizationRepository(db)
		err = repo.Create(ctx, newTestAuthorization())
		require.Error(t, err)
		assert.NotErrorIs(t, err, authorizationDomain.ErrConfirmationConflict)
		assert.Contains(t, err.Error(), "failed to create authorization")
	})
}

func TestPostgreSQLAuthorizationRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		expected := newTestAuthorization()
		sentAt := time.Date(2026, 7, 1, 12, 0, 5, 0, time.UTC)
		rows := sqlmock.NewRows(authorizationColumns).
			AddRow(authorizationRow(expected.ID.String(), expected, sentAt)...)
		mock.ExpectQuery("SELECT (.+) FROM authorizations WHERE id = \\$1").
			WithArgs(expected.ID).
			WillReturnRows(rows)

		repo := NewPostgreSQLAuthorizationRepository(db)
		authorization, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, authorization.ID)
		assert.Equal(t, expected.ConfirmationNumber, authorization.ConfirmationNumber)
		assert.Equal(t, authorizationDomain.AccountTypeVisa, authorization.AccountType)
		assert.Equal(t, "1111", authorization.AccountNumberLast4)
		assert.True(t, authorization.EmailSent)
		require.NotNil(t, authorization.EmailSentAt)
		assert.Equal(t, sentAt, *authorization.EmailSentAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM authorizations").
			WillReturnRows(sqlmock.NewRows(authorizationColumns))

		repo := NewPostgreSQLAuthorizationRepository(db)
		authorization, err := repo.GetByID(ctx, uuid.New())
		assert.Nil(t, authorization)
		assert.ErrorIs(t, err, authorizationDomain.ErrAuthorizationNotFound)
	})
}

func TestPostgreSQLAuthorizationRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	first := newTestAuthorization()
	second := newTestAuthorization()
	rows := sqlmock.NewRows(authorizationColumns).
		AddRow(authorizationRow(first.ID.String(), first, nil)...).
		AddRow(authorizationRow(second.ID.String(), second, nil)...)
	mock.ExpectQuery("SELECT (.+) FROM authorizations ORDER BY created_at DESC, id DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(25, 50).
		WillReturnRows(rows)

	repo := NewPostgreSQLAuthorizationRepository(db)
	authorizations, err := repo.List(context.Background(), 50, 25)
	require.NoError(t, err)
	require.Len(t, authorizations, 2)
	assert.Equal(t, first.ID, authorizations[0].ID)
	assert.Equal(t, second.ID, authorizations[1].ID)
	assert.False(t, authorizations[0].EmailSent)
	assert.Nil(t, authorizations[0].EmailSentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuthorizationRepository_MarkEmailSent(t *testing.T) {
	sentAt := time.Date(2026, 7, 1, 12, 0, 5, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		id := uuid.New()
		mock.ExpectExec("UPDATE authorizations SET email_sent = TRUE, email_sent_at = \\$1 WHERE id = \\$2").
			WithArgs(sentAt, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLAuthorizationRepository(db)
		require.NoError(t, repo.MarkEmailSent(context.Background(), id, sentAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("UPDATE authorizations").WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLAuthorizationRepository(db)
		err = repo.MarkEmailSent(context.Background(), uuid.New(), sentAt)
		assert.ErrorIs(t, err, authorizationDomain.ErrAuthorizationNotFound)
	})
}

func TestMySQLAuthorizationRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		authorization := newTestAuthorization()
		idBytes, err := authorization.ID.MarshalBinary()
		require.NoError(t, err)

		args := append([]driver.Value{idBytes, authorization.ConfirmationNumber}, anyArgs(20)...)
		mock.ExpectExec("INSERT INTO authorizations").
			WithArgs(args...).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLAuthorizationRepository(db)
		require.NoError(t, repo.Create(context.Background(), authorization))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConfirmationConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO authorizations").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		repo := NewMySQLAuthorizationRepository(db)
		err = repo.Create(context.Background(), newTestAuthorization())
		assert.ErrorIs(t, err, authorizationDomain.ErrConfirmationConflict)
	})
}

func TestMySQLAuthorizationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expected := newTestAuthorization()
	idBytes, err := expected.ID.MarshalBinary()
	require.NoError(t, err)

	rows := sqlmock.NewRows(authorizationColumns).AddRow(authorizationRow(idBytes, expected, nil)...)
	mock.ExpectQuery("SELECT (.+) FROM authorizations WHERE id = \\?").
		WithArgs(idBytes).
		WillReturnRows(rows)

	repo := NewMySQLAuthorizationRepository(db)
	authorization, err := repo.GetByID(context.Background(), expected.ID)
	require.NoError(t, err)
	assert.Equal(t, expected.ID, authorization.ID)
	assert.Equal(t, expected.CVVEncrypted, authorization.CVVEncrypted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuthorizationRepository_ListAndMarkEmailSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expected := newTestAuthorization()
	idBytes, err := expected.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM authorizations ORDER BY created_at DESC, id DESC LIMIT \\? OFFSET \\?").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(authorizationColumns).AddRow(authorizationRow(idBytes, expected, nil)...))

	sentAt := time.Date(2026, 7, 1, 12, 0, 5, 0, time.UTC)
	mock.ExpectExec("UPDATE authorizations SET email_sent = TRUE").
		WithArgs(sentAt, idBytes).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLAuthorizationRepository(db)
	authorizations, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, authorizations, 1)
	assert.Equal(t, expected.ID, authorizations[0].ID)

	require.NoError(t, repo.MarkEmailSent(context.Background(), expected.ID, sentAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
