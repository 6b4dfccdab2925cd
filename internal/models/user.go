package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Users are created at registration
// and are immutable thereafter; the username doubles as the display name
// and is unique across the system.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique display name used for login.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to API responses.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a User with a fresh ID and creation timestamp.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
