package repository

import (
	"context"
	"time"

	"github.com/blog-comment-service/internal/database"
)

// commentLikeRepo is the concrete implementation of CommentLikeRepository
type commentLikeRepo struct {
	db *database.DB
}

// NewCommentLikeRepo creates a new comment-like repository
func NewCommentLikeRepo(db *database.DB) CommentLikeRepository {
	return &commentLikeRepo{db: db}
}

// Exists checks whether the user already liked the comment
func (r *commentLikeRepo) Exists(ctx context.Context, commentID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)`,
		commentID, userID,
	).Scan(&exists)
	return exists, err
}

// Create records a like pair
func (r *commentLikeRepo) Create(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comment_likes (comment_id, user_id, created_at) VALUES ($1, $2, $3)`,
		commentID, userID, time.Now(),
	)
	return err
}

// Delete removes a like pair
func (r *commentLikeRepo) Delete(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`,
		commentID, userID,
	)
	return err
}

// CountByComment counts like rows for a comment
func (r *commentLikeRepo) CountByComment(ctx context.Context, commentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`,
		commentID,
	).Scan(&count)
	return count, err
}
