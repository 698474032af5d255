package models

import (
	"time"
)

// CommentBlacklist bars a user from commenting. An entry is active while
// ExpiresAt is nil or in the future; at most one active entry per user.
type CommentBlacklist struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Reason        string     `json:"reason" db:"reason"`
	BlacklistedBy string     `json:"blacklisted_by" db:"blacklisted_by"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// IsActive reports whether the entry still bars the user
func (b *CommentBlacklist) IsActive() bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(time.Now())
}

// BlacklistRequest is the payload for blacklisting a user
type BlacklistRequest struct {
	UserID    string     `json:"user_id" binding:"required"`
	Reason    string     `json:"reason" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
