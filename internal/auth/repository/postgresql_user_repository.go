// Package repository provides PostgreSQL and MySQL persistence for admin users.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	"github.com/allisson/cardauth/internal/database"
	apperrors "github.com/allisson/cardauth/internal/errors"
)

// PostgreSQLUserRepository implements user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a user. A duplicate email returns ErrUserAlreadyExists.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, name, email, password, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID returns the user with id.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	query := `SELECT id, name, email, password, role, created_at, updated_at
			  FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByEmail returns the user registered under email.
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	query := `SELECT id, name, email, password, role, created_at, updated_at
			  FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *PostgreSQLUserRepository) get(ctx context.Context, query string, arg any) (*authDomain.User, error) {
	var user authDomain.User
	var role string
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	user.Role = authDomain.Role(role)
	return &user, nil
}
