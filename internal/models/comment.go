package models

import (
	"time"
)

// CommentStatus represents the lifecycle state of a comment
type CommentStatus string

const (
	CommentStatusNormal  CommentStatus = "NORMAL"
	CommentStatusDeleted CommentStatus = "DELETED"
)

// MaxNestingLevel is the maximum reply depth, root comments are level 1
const MaxNestingLevel = 5

// Comment represents a comment on an article
type Comment struct {
	ID        string        `json:"id" db:"id"`
	Content   string        `json:"content" db:"content"`
	ArticleID string        `json:"article_id" db:"article_id"`
	UserID    string        `json:"user_id" db:"user_id"`
	ParentID  *string       `json:"parent_id,omitempty" db:"parent_id"`
	Level     int           `json:"level" db:"level"`
	LikeCount int           `json:"like_count" db:"like_count"`
	Status    CommentStatus `json:"status" db:"status"`
	IsEdited  bool          `json:"is_edited" db:"is_edited"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the comment has been soft-deleted
func (c *Comment) IsDeleted() bool {
	return c.Status == CommentStatusDeleted
}

// HasParent reports whether the comment is a reply
func (c *Comment) HasParent() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// CommentLike is a (comment, user) like pair. The pair table is the source
// of truth for "has user X liked comment Y"; Comment.LikeCount is kept in
// step with it.
type CommentLike struct {
	CommentID string    `json:"comment_id" db:"comment_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentResponse is a comment enriched with author info and, for nested
// views, its replies.
type CommentResponse struct {
	Comment
	UserName   string             `json:"user_name,omitempty"`
	UserAvatar string             `json:"user_avatar,omitempty"`
	Replies    []*CommentResponse `json:"replies,omitempty"`
}

// CreateCommentRequest is the payload for creating a comment
type CreateCommentRequest struct {
	ArticleID string  `json:"article_id" binding:"required"`
	ParentID  *string `json:"parent_id,omitempty"`
	Content   string  `json:"content" binding:"required"`
}

// UpdateCommentRequest is the payload for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentQuery holds filters for listing comments under an article
type CommentQuery struct {
	ArticleID string `form:"article_id" binding:"required"`
	SortBy    string `form:"sort_by"`    // created_at (default) or like_count
	SortOrder string `form:"sort_order"` // asc or desc (default)
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

// CommentStats summarizes comment state for the moderation dashboard
type CommentStats struct {
	Total   int `json:"total_comments"`
	Active  int `json:"active_comments"`
	Deleted int `json:"deleted_comments"`
	Edited  int `json:"edited_comments"`
}
