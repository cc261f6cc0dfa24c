package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserStore = (*UserStore)(nil)

// UserStore implements driven.UserStore using PostgreSQL
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// FindActiveByEmail retrieves the non-deleted user with the given email
func (s *UserStore) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password, name, birth_date, created_at, updated_at, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`

	var user domain.User
	var deletedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Name,
		&user.BirthDate,
		&user.CreatedAt,
		&user.UpdatedAt,
		&deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.DeletedAt = TimePtr(deletedAt)
	return &user, nil
}

// Create inserts a new user with a generated UUID.
// The partial unique index on email is the final word on duplicates.
func (s *UserStore) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, password, name, birth_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	user := domain.User{
		ID:        uuid.NewString(),
		Email:     nu.Email,
		Password:  nu.Password,
		Name:      nu.Name,
		BirthDate: nu.BirthDate,
	}

	err := s.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Password,
		user.Name,
		user.BirthDate,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("email %s: %w", nu.Email, domain.ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// Ping checks if the database is reachable
func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}
