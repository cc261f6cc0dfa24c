package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
)

// PasswordCost is the bcrypt work factor used for stored passwords
const PasswordCost = 10

// maxPasswordBytes is the most input bcrypt uses; longer passwords are cut
// here, as other bcrypt implementations do, rather than rejected.
const maxPasswordBytes = 72

// DefaultTokenTTL is how long an issued session token stays valid
const DefaultTokenTTL = time.Hour

// Ensure Adapter implements the hashing and signing ports
var (
	_ driven.PasswordHasher = (*Adapter)(nil)
	_ driven.TokenSigner    = (*Adapter)(nil)
)

// jwtClaims wraps domain.SessionClaims for JWT compatibility
type jwtClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	jwt.RegisteredClaims
}

// Adapter handles password hashing with bcrypt and token signing with HS256 JWTs
type Adapter struct {
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAdapter creates a new auth adapter with the given JWT secret and token lifetime
func NewAdapter(jwtSecret string, tokenTTL time.Duration) *Adapter {
	return NewAdapterWithCost(jwtSecret, tokenTTL, PasswordCost)
}

// NewAdapterWithCost creates a new auth adapter with custom bcrypt cost
func NewAdapterWithCost(jwtSecret string, tokenTTL time.Duration, bcryptCost int) *Adapter {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Adapter{
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Hash generates a salted bcrypt hash from a plaintext password
func (a *Adapter) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks a password against a bcrypt hash.
// A mismatch is not an error; an unreadable hash is.
func (a *Adapter) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify password: %w", err)
}

// passwordBytes returns the bytes bcrypt hashes: at most the first 72
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Sign creates a signed JWT carrying the session claims
func (a *Adapter) Sign(claims *domain.SessionClaims) (string, error) {
	now := a.now()
	jc := jwtClaims{
		Email: claims.Email,
		Name:  claims.Name,
		Age:   claims.Age,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a JWT and extracts the session claims
func (a *Adapter) Parse(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*jwtClaims); ok && token.Valid {
		return &domain.SessionClaims{
			Email: claims.Email,
			Name:  claims.Name,
			Age:   claims.Age,
		}, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}
