package mocks

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
)

var (
	_ driven.PasswordHasher = (*MockPasswordHasher)(nil)
	_ driven.TokenSigner    = (*MockTokenSigner)(nil)
)

const mockHashPrefix = "hashed:"

// MockPasswordHasher prefixes the password instead of hashing it.
// NOT secure - only for testing.
type MockPasswordHasher struct {
	HashErr   error
	VerifyErr error
}

// NewMockPasswordHasher creates a new MockPasswordHasher
func NewMockPasswordHasher() *MockPasswordHasher {
	return &MockPasswordHasher{}
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return mockHashPrefix + password, nil
}

func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	if m.VerifyErr != nil {
		return false, m.VerifyErr
	}
	if !strings.HasPrefix(hash, mockHashPrefix) {
		return false, errors.New("malformed hash")
	}
	return hash == mockHashPrefix+password, nil
}

// MockTokenSigner encodes claims as base64 JSON and remembers the last claims signed
type MockTokenSigner struct {
	mu         sync.Mutex
	SignErr    error
	LastClaims *domain.SessionClaims
}

// NewMockTokenSigner creates a new MockTokenSigner
func NewMockTokenSigner() *MockTokenSigner {
	return &MockTokenSigner{}
}

func (m *MockTokenSigner) Sign(claims *domain.SessionClaims) (string, error) {
	if m.SignErr != nil {
		return "", m.SignErr
	}
	c := *claims
	m.mu.Lock()
	m.LastClaims = &c
	m.mu.Unlock()
	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Sign
func (m *MockTokenSigner) Decode(token string) (*domain.SessionClaims, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var claims domain.SessionClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}
