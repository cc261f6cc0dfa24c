package driven

import (
	"context"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
)

// UserStore handles user persistence (PostgreSQL or Redis).
// It carries no business logic.
type UserStore interface {
	// FindActiveByEmail retrieves the non-deleted user with the given email.
	// Returns domain.ErrNotFound when there is none.
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create persists a new user, assigning its ID and timestamps.
	// A uniqueness violation is reported as an error wrapping domain.ErrAlreadyExists.
	Create(ctx context.Context, user domain.NewUser) (*domain.User, error)

	// Ping checks the backing store is reachable
	Ping(ctx context.Context) error
}
