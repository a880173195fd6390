package types

import (
	"time"

	"github.com/google/uuid"
)

// Category groups records for a single owner. The name is unique per
// owner, not globally.
type Category struct {
	// ID is the unique identifier of the category.
	ID uuid.UUID `json:"id" db:"id"`

	// Name is the display name of the category.
	Name string `json:"name" db:"name"`

	// OwnerID references the user who created the category and holds
	// exclusive mutation rights over it.
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`

	// Description is optional free-form text about the category.
	Description string `json:"description,omitempty" db:"description"`

	// Color is an optional display hint (e.g. a hex color).
	Color string `json:"color,omitempty" db:"color"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
