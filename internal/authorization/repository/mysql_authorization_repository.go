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

// MySQLAuthorizationRepository implements authorization persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAuthorizationRepository struct {
	db *sql.DB
}

// NewMySQLAuthorizationRepository creates a new MySQL authorization repository.
func NewMySQLAuthorizationRepository(db *sql.DB) *MySQLAuthorizationRepository {
	return &MySQLAuthorizationRepository{db: db}
}

// Create inserts an authorization. A duplicate confirmation number returns ErrConfirmationConflict.
func (r *MySQLAuthorizationRepository) Create(
	ctx context.Context,
	authorization *authorizationDomain.Authorization,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO authorizations (` + selectColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := authorization.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization id")
	}

	args := append([]any{id}, insertArgs(authorization)...)
	if _, err := querier.ExecContext(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return authorizationDomain.ErrConfirmationConflict
		}
		return apperrors.Wrap(err, "failed to create authorization")
	}
	return nil
}

// GetByID returns an authorization or ErrAuthorizationNotFound.
func (r *MySQLAuthorizationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*authorizationDomain.Authorization, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + selectColumns + ` FROM authorizations WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal authorization id")
	}

	var scannedID []byte
	authorization, err := scanAuthorization(querier.QueryRowContext(ctx, query, idBytes), &scannedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authorizationDomain.ErrAuthorizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get authorization")
	}

	if err := authorization.ID.UnmarshalBinary(scannedID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization id")
	}
	return authorization, nil
}

// List returns authorizations newest first.
func (r *MySQLAuthorizationRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authorizationDomain.Authorization, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + selectColumns + ` FROM authorizations
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list authorizations")
	}
	defer func() {
		_ = rows.Close()
	}()

	authorizations := make([]*authorizationDomain.Authorization, 0)
	for rows.Next() {
		var id []byte
		authorization, err := scanAuthorization(rows, &id)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan authorization")
		}
		if err := authorization.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal authorization id")
		}
		authorizations = append(authorizations, authorization)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate authorizations")
	}

	return authorizations, nil
}

// MarkEmailSent flags the notification email as delivered.
func (r *MySQLAuthorizationRepository) MarkEmailSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE authorizations SET email_sent = TRUE, email_sent_at = ? WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization id")
	}

	result, err := querier.ExecContext(ctx, query, sentAt, idBytes)
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
