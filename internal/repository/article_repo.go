package repository

import (
	"context"
	"database/sql"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// GetByID retrieves an article by ID. Returns nil when not found.
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT id, author_id, comment_count, deleted, created_at FROM articles WHERE id = $1`

	var article models.Article
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&article.ID, &article.AuthorID, &article.CommentCount,
		&article.Deleted, &article.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &article, nil
}

// Exists checks if a non-deleted article with the given ID exists
func (r *articleRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1 AND NOT deleted)`, id,
	).Scan(&exists)
	return exists, err
}

// UpdateCommentCount writes the recomputed comment count
func (r *articleRepo) UpdateCommentCount(ctx context.Context, id string, count int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE articles SET comment_count = $2 WHERE id = $1`, id, count,
	)
	return err
}
