// Package repository persists the gate password row and the per-admin unlock sessions.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
)

// singletonID is the primary key of the only gate_passwords row.
const singletonID = 1

// PostgreSQLGateRepository implements gate password persistence for PostgreSQL.
type PostgreSQLGateRepository struct {
	db *sql.DB
}

// NewPostgreSQLGateRepository creates a new PostgreSQL gate repository.
func NewPostgreSQLGateRepository(db *sql.DB) *PostgreSQLGateRepository {
	return &PostgreSQLGateRepository{db: db}
}

// GetForUpdate reads the gate row, locking it until the surrounding transaction ends.
func (r *PostgreSQLGateRepository) GetForUpdate(ctx context.Context) (*gateDomain.GatePassword, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT password_hash, failed_attempts, locked_until, created_at, updated_at
			  FROM gate_passwords WHERE id = $1 FOR UPDATE`

	var gate gateDomain.GatePassword
	var lockedUntil sql.NullTime

	err := querier.QueryRowContext(ctx, query, singletonID).Scan(
		&gate.PasswordHash, &gate.FailedAttempts, &lockedUntil, &gate.CreatedAt, &gate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gateDomain.ErrGateNotConfigured
		}
		return nil, apperrors.Wrap(err, "failed to get gate password")
	}

	if lockedUntil.Valid {
		t := lockedUntil.Time.UTC()
		gate.LockedUntil = &t
	}
	return &gate, nil
}

// UpdateAttempts persists the failure counter and lockout.
func (r *PostgreSQLGateRepository) UpdateAttempts(ctx context.Context, gate *gateDomain.GatePassword) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE gate_passwords SET failed_attempts = $1, locked_until = $2, updated_at = $3 WHERE id = $4`

	_, err := querier.ExecContext(ctx, query, gate.FailedAttempts, gate.LockedUntil, gate.UpdatedAt, singletonID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update gate attempts")
	}
	return nil
}

// Save creates the gate row or replaces its password, resetting the counters.
func (r *PostgreSQLGateRepository) Save(ctx context.Context, gate *gateDomain.GatePassword) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO gate_passwords (id, password_hash, failed_attempts, locked_until, created_at, updated_at)
			  VALUES ($1, $2, 0, NULL, $3, $4)
			  ON CONFLICT (id) DO UPDATE SET
			  password_hash = EXCLUDED.password_hash,
			  failed_attempts = 0,
			  locked_until = NULL,
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query, singletonID, gate.PasswordHash, gate.CreatedAt, gate.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to save gate password")
	}
	return nil
}
