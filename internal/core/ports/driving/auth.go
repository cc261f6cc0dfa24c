package driving

import (
	"context"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
)

// AuthService handles account registration and authentication.
// Every error it returns is a *domain.ClassifiedError.
type AuthService interface {
	// Register creates an account with a hashed password and returns the stored record
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and issues a signed session token
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error)
}
