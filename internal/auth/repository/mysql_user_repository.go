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

// MySQLUserRepository implements user persistence for MySQL. Ids are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a user. A duplicate email returns ErrUserAlreadyExists.
func (r *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, name, email, password, role, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, name, email, password, role, created_at, updated_at
			  FROM users WHERE id = ?`
	return r.get(ctx, query, idBytes)
}

// GetByEmail returns the user registered under email.
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	query := `SELECT id, name, email, password, role, created_at, updated_at
			  FROM users WHERE email = ?`
	return r.get(ctx, query, email)
}

func (r *MySQLUserRepository) get(ctx context.Context, query string, arg any) (*authDomain.User, error) {
	var user authDomain.User
	var idBytes []byte
	var role string
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&idBytes, &user.Name, &user.Email, &user.Password, &role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	user.Role = authDomain.Role(role)
	return &user, nil
}
