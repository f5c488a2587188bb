package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
)

// PostgreSQLAuthorizationRepository implements authorization persistence for PostgreSQL.
type PostgreSQLAuthorizationRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuthorizationRepository creates a new PostgreSQL authorization repository.
func NewPostgreSQLAuthorizationRepository(db *sql.DB) *PostgreSQLAuthorizationRepository {
	return &PostgreSQLAuthorizationRepository{db: db}
}

// Create inserts an authorization. A duplicate confirmation number returns ErrConfirmationConflict.
func (r *PostgreSQLAuthorizationRepository) Create(
	ctx context.Context,
	authorization *authorizationDomain.Authorization,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO authorizations (` + selectColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			  $18, $19, $20, $21, $22)`

	args := append([]any{authorization.ID}, insertArgs(authorization)...)
	if _, err := querier.ExecContext(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return authorizationDomain.ErrConfirmationConflict
		}
		return apperrors.Wrap(err, "failed to create authorization")
	}
	return nil
}

// GetByID returns an authorization or ErrAuthorizationNotFound.
func (r *PostgreSQLAuthorizationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*authorizationDomain.Authorization, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + selectColumns + ` FROM authorizations WHERE id = $1`

	var scannedID uuid.UUID
	authorization, err := scanAuthorization(querier.QueryRowContext(ctx, query, id), &scannedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authorizationDomain.ErrAuthorizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get authorization")
	}
	authorization.ID = scannedID
	return authorization, nil
}

// List returns authorizations newest first.
func (r *PostgreSQLAuthorizationRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authorizationDomain.Authorization, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + selectColumns + ` FROM authorizations
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list authorizations")
	}
	defer func() {
		_ = rows.Close()
	}()

	authorizations := make([]*authorizationDomain.Authorization, 0)
	for rows.Next() {
		var id uuid.UUID
		authorization, err := scanAuthorization(rows, &id)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan authorization")
		}
		authorization.ID = id
		authorizations = append(authorizations, authorization)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate authorizations")
	}

	return authorizations, nil
}

// MarkEmailSent flags the notification email as delivered.
func (r *PostgreSQLAuthorizationRepository) MarkEmailSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE authorizations SET email_sent = TRUE, email_sent_at = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark email sent")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return authorizationDomain.ErrAuthorizationNotFound
	}
	return nil
}
