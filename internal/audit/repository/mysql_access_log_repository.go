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

// MySQLAccessLogRepository implements access log persistence for MySQL. Ids are BINARY(16).
type MySQLAccessLogRepository struct {
	db *sql.DB
}

// NewMySQLAccessLogRepository creates a new MySQL access log repository.
func NewMySQLAccessLogRepository(db *sql.DB) *MySQLAccessLogRepository {
	return &MySQLAccessLogRepository{db: db}
}

// Create appends an entry. A nil authorization id or signature is stored as NULL.
func (r *MySQLAccessLogRepository) Create(ctx context.Context, log *auditDomain.AccessLog) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO access_logs
			  (id, authorization_id, user_id, user_email, action, ip_address, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := log.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	var authorizationID []byte
	if log.AuthorizationID != nil {
		if authorizationID, err = log.AuthorizationID.MarshalBinary(); err != nil {
			return apperrors.Wrap(err, "failed to marshal authorization UUID")
		}
	}

	userID, err := log.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		authorizationID,
		userID,
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
func (r *MySQLAccessLogRepository) List(
	ctx context.Context,
	offset, limit int,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AccessLog, error) {
	querier := database.GetTx(ctx, r.db)

	var authorizationID any
	if filter.AuthorizationID != nil {
		idBytes, err := filter.AuthorizationID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal authorization UUID")
		}
		authorizationID = idBytes
	}
	where, args := whereClause(filter, authorizationID, mysqlPlaceholder)

	query := fmt.Sprintf(`SELECT id, authorization_id, user_id, user_email, action, ip_address, signature, created_at
			  FROM access_logs %s
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`, where)
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
		var id, authorizationID, userID []byte
		var action string

		err := rows.Scan(
			&id,
			&authorizationID,
			&userID,
			&log.UserEmail,
			&action,
			&log.IPAddress,
			&log.Signature,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log")
		}

		if err := log.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := log.UserID.UnmarshalBinary(userID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal user UUID")
		}
		if authorizationID != nil {
			var parsed uuid.UUID
			if err := parsed.UnmarshalBinary(authorizationID); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal authorization UUID")
			}
			log.AuthorizationID = &parsed
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
