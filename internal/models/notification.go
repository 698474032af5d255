package models

import (
	"time"
)

// NotificationKind identifies what a notification is about
type NotificationKind string

const (
	NotificationCommentReply NotificationKind = "comment_reply"
	NotificationNewComment   NotificationKind = "new_comment"
)

// Notification is dispatched fire-and-forget when a comment is created.
// Delivery failure never fails the comment path.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Kind      NotificationKind `json:"kind" db:"kind"`
	CommentID string           `json:"comment_id" db:"comment_id"`
	ArticleID string           `json:"article_id" db:"article_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
