package types

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user.
	ID uuid.UUID `json:"id" db:"id"`

	// Username is the unique login name chosen by the user. It may be
	// empty for accounts created through an external identity provider.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. Unique across all accounts.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password. It is
	// empty for external-identity-only accounts and is never exposed in
	// API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// GoogleID is the external identity provider's subject identifier,
	// set when the account was created or linked through Google login.
	GoogleID string `json:"-" db:"google_id"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanPasswordLogin reports whether the account has a stored password hash.
// External-identity-only accounts cannot authenticate with a password.
func (u User) CanPasswordLogin() bool {
	return u.PasswordHash != ""
}
