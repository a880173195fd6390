package types

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength bounds the comment text.
const MaxCommentLength = 500

// Comment is a threaded note attached to a record. Any authenticated
// user may comment on any record; only the author can mutate a comment.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID uuid.UUID `json:"id" db:"id"`

	// RecordID references the record the comment is attached to.
	RecordID uuid.UUID `json:"record_id" db:"record_id"`

	// AuthorID references the user who wrote the comment and holds
	// exclusive mutation rights over it.
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`

	// AuthorUsername is resolved from the author at read time and is
	// not persisted on the comment itself.
	AuthorUsername string `json:"author_username,omitempty" db:"author_username"`

	// Text is the comment body, at most MaxCommentLength characters.
	Text string `json:"text" db:"text"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
