package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

const commentColumns = `id, content, article_id, user_id, parent_id, level, like_count, status, is_edited, created_at, updated_at`

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, content, article_id, user_id, parent_id, level, like_count, status, is_edited, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Content, comment.ArticleID, comment.UserID,
		comment.ParentID, comment.Level, comment.LikeCount, comment.Status,
		comment.IsEdited, comment.CreatedAt, comment.UpdatedAt,
	)
	return err
}

// Update persists content, status, like count and the edited flag
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, status = $3, like_count = $4, is_edited = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Content, comment.Status, comment.LikeCount,
		comment.IsEdited, time.Now(),
	)
	return err
}

// GetByID retrieves a comment by ID. Returns nil when not found.
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	var comment models.Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.Content, &comment.ArticleID, &comment.UserID,
		&comment.ParentID, &comment.Level, &comment.LikeCount, &comment.Status,
		&comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListByArticle returns NORMAL comments for an article, sorted as requested.
// With topLevelOnly only root comments are returned (for paged flat views);
// otherwise every comment is returned so the caller can build the tree.
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string, topLevelOnly bool, sortBy, sortOrder string, limit, offset int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = $1 AND status = $2`
	if topLevelOnly {
		query += ` AND parent_id IS NULL`
	}
	query += ` ORDER BY ` + orderClause(sortBy, sortOrder)

	args := []interface{}{articleID, models.CommentStatusNormal}
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	return r.queryComments(ctx, query, args...)
}

// ListByUser returns a user's NORMAL comments, newest first
func (r *commentRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC`

	args := []interface{}{userID, models.CommentStatusNormal}
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	return r.queryComments(ctx, query, args...)
}

// CountByArticle counts NORMAL comments for an article. Counts are always
// recomputed from status values, never read from a drifted cache.
func (r *commentRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE article_id = $1 AND status = $2`,
		articleID, models.CommentStatusNormal,
	).Scan(&count)
	return count, err
}

// Stats returns totals for the moderation dashboard
func (r *commentRepo) Stats(ctx context.Context) (*models.CommentStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE is_edited)
		FROM comments
	`
	var stats models.CommentStats
	err := r.db.QueryRowContext(ctx, query,
		models.CommentStatusNormal, models.CommentStatusDeleted,
	).Scan(&stats.Total, &stats.Active, &stats.Deleted, &stats.Edited)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *commentRepo) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.Content, &comment.ArticleID, &comment.UserID,
			&comment.ParentID, &comment.Level, &comment.LikeCount, &comment.Status,
			&comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// orderClause whitelists sort columns; anything unknown falls back to
// creation time descending.
func orderClause(sortBy, sortOrder string) string {
	column := "created_at"
	if sortBy == "like_count" {
		column = "like_count"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
