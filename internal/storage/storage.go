package storage

import (
	"context"
	"errors"
	"time"
)

// ErrUsernameTaken is returned by CreateUser when the username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// ErrUserNotFound is returned by GetUser when no record exists.
var ErrUserNotFound = errors.New("user not found")

// User is a stored credential record. Records are created once and never
// mutated or deleted; there are no update or delete operations.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by,omitempty"`
}

// Store is the persistence interface for credential records. All reads and
// writes serialize through the backing database, so concurrent requests never
// observe a partially written record.
type Store interface {
	// CreateUser inserts a new record. Returns ErrUsernameTaken if the
	// username exists; the existing record is left untouched.
	CreateUser(ctx context.Context, u *User) error

	// GetUser returns the record for a username, or ErrUserNotFound.
	GetUser(ctx context.Context, username string) (*User, error)

	// ListUsers returns all records ordered by username. An empty store
	// yields an empty slice, not an error.
	ListUsers(ctx context.Context) ([]User, error)

	// CountUsers returns the number of stored records.
	CountUsers(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
