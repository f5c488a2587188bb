// Package repository provides PostgreSQL and MySQL persistence for encrypted settings.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
	settingsDomain "github.com/allisson/cardauth/internal/settings/domain"
)

// PostgreSQLSettingRepository implements setting persistence for PostgreSQL.
type PostgreSQLSettingRepository struct {
	db *sql.DB
}

// NewPostgreSQLSettingRepository creates a new PostgreSQL setting repository.
func NewPostgreSQLSettingRepository(db *sql.DB) *PostgreSQLSettingRepository {
	return &PostgreSQLSettingRepository{db: db}
}

// Get returns the setting stored under name.
func (r *PostgreSQLSettingRepository) Get(ctx context.Context, name string) (*settingsDomain.Setting, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT name, value_encrypted, updated_at FROM settings WHERE name = $1`

	var setting settingsDomain.Setting
	err := querier.QueryRowContext(ctx, query, name).Scan(&setting.Name, &setting.Ciphertext, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settingsDomain.ErrSettingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get setting")
	}
	return &setting, nil
}

// Upsert creates or replaces a setting.
func (r *PostgreSQLSettingRepository) Upsert(ctx context.Context, setting *settingsDomain.Setting) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO settings (name, value_encrypted, updated_at) VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET
			  value_encrypted = EXCLUDED.value_encrypted,
			  updated_at = EXCLUDED.updated_at`

	if _, err := querier.ExecContext(ctx, query, setting.Name, setting.Ciphertext, setting.UpdatedAt); err != nil {
		return apperrors.Wrap(err, "failed to save setting")
	}
	return nil
}
