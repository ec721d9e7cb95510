package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByLogin finds a user whose email or username equals login.
	GetByLogin(ctx context.Context, login string) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// User represents a stored user with its password hash.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated user attached to a request.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Identity returns the public part of the user.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

// SignupParams contains parameters to register a user.
type SignupParams struct {
	Username string
	Email    string
	Password string
}

// LoginParams contains login credentials. Login is an email or a username.
type LoginParams struct {
	Login    string
	Password string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string
	User  Identity
}
