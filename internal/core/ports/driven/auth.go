package driven

import "github.com/custodia-labs/credentials-core/internal/core/domain"

// PasswordHasher produces and checks salted one-way password hashes
type PasswordHasher interface {
	// Hash returns a salted hash of password
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A mismatch is (false, nil);
	// an error means the hash itself could not be checked.
	Verify(password, hash string) (bool, error)
}

// TokenSigner turns session claims into an opaque signed token
type TokenSigner interface {
	Sign(claims *domain.SessionClaims) (string, error)
}
