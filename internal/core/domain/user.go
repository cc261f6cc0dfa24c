package domain

import "time"

// User represents one registered account
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"-"` // bcrypt hash, never plaintext
	Name      string     `json:"name"`
	BirthDate Date       `json:"birthDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// IsActive reports whether the account has not been soft-deleted
func (u *User) IsActive() bool {
	return u.DeletedAt == nil
}

// NewUser holds the fields a store needs to create a user.
// ID and timestamps are assigned by the store.
type NewUser struct {
	Email     string
	Password  string
	Name      string
	BirthDate Date
}

// UserView is the externally exposed shape of a user (no password hash)
type UserView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	BirthDate Date       `json:"birthDate" swaggertype:"string" example:"1990-01-01"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// ToView converts a User to its external view
func (u *User) ToView() *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}
