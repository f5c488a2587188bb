package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
	settingsDomain "github.com/allisson/cardauth/internal/settings/domain"
)

// MySQLSettingRepository implements setting persistence for MySQL.
type MySQLSettingRepository struct {
	db *sql.DB
}

// NewMySQLSettingRepository creates a new MySQL setting repository.
func NewMySQLSettingRepository(db *sql.DB) *MySQLSettingRepository {
	return &MySQLSettingRepository{db: db}
}

// Get returns the setting stored under name.
func (r *MySQLSettingRepository) Get(ctx context.Context, name string) (*settingsDomain.Setting, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT name, value_encrypted, updated_at FROM settings WHERE name = ?`

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
func (r *MySQLSettingRepository) Upsert(ctx context.Context, setting *settingsDomain.Setting) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO settings (name, value_encrypted, updated_at) VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  value_encrypted = VALUES(value_encrypted),
			  updated_at = VALUES(updated_at)`

	if _, err := querier.ExecContext(ctx, query, setting.Name, setting.Ciphertext, setting.UpdatedAt); err != nil {
		return apperrors.Wrap(err, "failed to save setting")
	}
	return nil
}
