package auth

import (
	"fmt"
	"time"

	"github.com/paintstock/paintstock/internal/shared"
)

// Account is a locally registered shop user.
type Account struct {
	ID            shared.ID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"passwordHash,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	EmailVerified bool      `json:"emailVerified"`

	// LegacyPassword holds a plaintext password from documents written before
	// hashing. It is replaced by PasswordHash on the next successful login.
	LegacyPassword string `json:"password,omitempty"`
}

// Public strips credentials before the account leaves the package.
func (a Account) Public() Account {
	a.PasswordHash = ""
	a.LegacyPassword = ""
	return a
}

// SignupInput carries a registration request.
type SignupInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput carries a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login.
type Session struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

var (
	ErrEmailTaken  = fmt.Errorf("auth: user already exists: %w", shared.ErrConflict)
	ErrNotSignedIn = fmt.Errorf("auth: not signed in: %w", shared.ErrInvalidCredentials)
)
