package models

import (
	"time"
)

// Article is the narrow view of an article this service needs: existence,
// soft-delete flag, author for permission checks and notifications, and the
// denormalized comment count this service maintains.
type Article struct {
	ID           string    `json:"id" db:"id"`
	AuthorID     string    `json:"author_id" db:"author_id"`
	CommentCount int       `json:"comment_count" db:"comment_count"`
	Deleted      bool      `json:"deleted" db:"deleted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
