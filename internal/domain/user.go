package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email, passwordHash, salt string, createdAt time.Time) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create inserts the user and sets its ID. Returns ErrDuplicate on a unique violation.
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ResolveUserID returns the id of the user with the given email and stored hash,
	// or 0 when no such user exists.
	ResolveUserID(ctx context.Context, email, passwordHash string) (int64, error)
}

// UserService defines registration and login.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	// Login returns the user id for valid credentials or ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (int64, error)
}
