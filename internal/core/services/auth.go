package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

const (
	opRegister = "register"
	opLogin    = "login"
)

// authService implements the AuthService interface
type authService struct {
	userStore driven.UserStore
	hasher    driven.PasswordHasher
	signer    driven.TokenSigner
	logger    *slog.Logger
	now       func() time.Time
}

// AuthOption configures optional authService dependencies
type AuthOption func(*authService)

// WithLogger sets the logger failures are reported to
func WithLogger(logger *slog.Logger) AuthOption {
	return func(s *authService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to derive age at login
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userStore driven.UserStore,
	hasher driven.PasswordHasher,
	signer driven.TokenSigner,
	opts ...AuthOption,
) driving.AuthService {
	s := &authService{
		userStore: userStore,
		hasher:    hasher,
		signer:    signer,
		logger:    slog.New(slog.DiscardHandler),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account after checking the email is free
func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	user, err := s.register(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, opRegister, req.Email, err, domain.ErrRegistrationFailed)
	}

	recordOutcome(opRegister, outcomeSuccess)
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	existing, err := s.userStore.FindActiveByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if err == nil && existing != nil {
		return nil, domain.ErrDuplicateAccount
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// A concurrent registration may have taken the email since the lookup;
	// the store's own uniqueness check reports that as an unclassified error.
	user, err := s.userStore.Create(ctx, domain.NewUser{
		Email:     req.Email,
		Password:  hash,
		Name:      req.Name,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a signed session token
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	result, err := s.login(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, opLogin, req.Email, err, domain.ErrLoginFailed)
	}

	recordOutcome(opLogin, outcomeSuccess)
	return result, nil
}

func (s *authService) login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	user, err := s.userStore.FindActiveByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	claims := &domain.SessionClaims{
		Email: user.Email,
		Name:  user.Name,
		Age:   domain.AgeAt(user.BirthDate, s.now()),
	}

	token, err := s.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.LoginResult{Token: token}, nil
}

// fail logs err with full detail and returns what the caller may see:
// the error itself if classified, fallback otherwise.
func (s *authService) fail(ctx context.Context, op, email string, err error, fallback *domain.ClassifiedError) error {
	out := domain.Classify(err, fallback)
	recordOutcome(op, outcomeOf(out))

	if _, ok := domain.AsClassified(err); ok {
		s.logger.InfoContext(ctx, op+" rejected", "email", email, "reason", err.Error())
	} else {
		s.logger.ErrorContext(ctx, op+" failed", "email", email, "error", err)
	}
	return out
}

func (s *authService) hashPassword(password string) (string, error) {
	start := time.Now()
	defer func() { passwordHashDuration.Observe(time.Since(start).Seconds()) }()
	return s.hasher.Hash(password)
}
