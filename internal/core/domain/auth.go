package domain

// RegisterRequest represents a registration attempt.
// Field constraints are enforced at the transport boundary.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"a@b.com"`
	Password  string `json:"password" validate:"required,max=60" example:"pw"`
	Name      string `json:"name" validate:"required,max=85" example:"A"`
	BirthDate Date   `json:"birthDate" validate:"required" swaggertype:"string" example:"1990-01-01"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"a@b.com"`
	Password string `json:"password" validate:"required,max=60" example:"pw"`
}

// LoginResult is returned after successful authentication
type LoginResult struct {
	Token string `json:"token"`
}

// SessionClaims is the payload embedded in a session token.
// Built at login time, never persisted.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
}
