package types

import (
	"time"

	"github.com/google/uuid"
)

// Record is a personal record owned by a single user. Records are
// private: only the owner can read or mutate them.
type Record struct {
	// ID is the unique identifier of the record.
	ID uuid.UUID `json:"id" db:"id"`

	// OwnerID references the user who created the record.
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`

	// CategoryID optionally references a category. Deleting the category
	// detaches this reference rather than deleting the record.
	CategoryID *uuid.UUID `json:"category_id,omitempty" db:"category_id"`

	// FirstName is the only required descriptive field.
	FirstName string `json:"first_name" db:"first_name"`

	// LastName is an optional descriptive field.
	LastName string `json:"last_name,omitempty" db:"last_name"`

	// Email is an optional descriptive field.
	Email string `json:"email,omitempty" db:"email"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
