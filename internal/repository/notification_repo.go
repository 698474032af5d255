package repository

import (
	"context"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// notificationRepo is the concrete implementation of NotificationRepository
type notificationRepo struct {
	db *database.DB
}

// NewNotificationRepo creates a new notification repository
func NewNotificationRepo(db *database.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

// Create inserts a notification row
func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, comment_id, article_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Kind, n.CommentID, n.ArticleID, n.CreatedAt,
	)
	return err
}
