package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
)

// PostgreSQLAccessLogRepository implements access log persistence for PostgreSQL.
type PostgreSQLAccessLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccessLogRepository creates a new PostgreSQL access log repository.
func NewPostgreSQLAccessLogRepository(db *sql.DB) *PostgreSQLAccessLogRepository {
	return &PostgreSQLAccessLogRepository{db: db}
}

// Create appends an entry. A nil signature is stored as NULL.
func (r *PostgreSQLAccessLogRepository) Create(ctx context.Context, log *auditDomain.AccessLog) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO access_logs
			  (id, authorization_id, user_id, user_email, action, ip_address, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var authorizationID uuid.NullUUID
	if log.AuthorizationID != nil {
		authorizationID = uuid.NullUUID{UUID: *log.AuthorizationID, Valid: true}
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		log.ID,
		authorizationID,
		log.UserID,
		log.UserEmail,
		string(log.Action),
		log.IPAddress,
		log.Signature,
		log.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log")
	}
	return nil
}

// List returns entries matching filter, newest first.
func (r *PostgreSQLAccessLogRepository) List(
	ctx context.Context,
	offset, limit int,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AccessLog, error) {
	querier := database.GetTx(ctx, r.db)

	var authorizationID any
	if filter.AuthorizationID != nil {
		authorizationID = *filter.AuthorizationID
	}
	where, args := whereClause(filter, authorizationID, postgresPlaceholder)

	query := fmt.Sprintf(`SELECT id, authorization_id, user_id, user_email, action, ip_address, signature, created_at
			  FROM access_logs %s
			  ORDER BY created_at DESC, id DESC
			  LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	logs := make([]*auditDomain.AccessLog, 0)
	for rows.Next() {
		var log auditDomain.AccessLog
		var authorizationID uuid.NullUUID
		var action string

		err := rows.Scan(
			&log.ID,
			&authorizationID,
			&log.UserID,
			&log.UserEmail,
			&action,
			&log.IPAddress,
			&log.Signature,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log")
		}

		if authorizationID.Valid {
			log.AuthorizationID = &authorizationID.UUID
		}
		log.Action = auditDomain.Action(action)
		log.CreatedAt = log.CreatedAt.UTC()

		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access logs")
	}

	return logs, nil
}
