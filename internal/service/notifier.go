package service

import (
	"context"
	"time"

	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// asyncNotifier persists notifications in a background goroutine. The caller
// never waits on or learns about delivery: a failed insert is logged and the
// comment operation that triggered it is unaffected.
type asyncNotifier struct {
	repo repository.NotificationRepository
	log  zerolog.Logger
}

func newAsyncNotifier(repo repository.NotificationRepository, log zerolog.Logger) *asyncNotifier {
	return &asyncNotifier{
		repo: repo,
		log:  log.With().Str("component", "notifier").Logger(),
	}
}

// Notify dispatches a notification fire-and-forget
func (n *asyncNotifier) Notify(userID string, kind models.NotificationKind, commentID, articleID string) {
	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		CommentID: commentID,
		ArticleID: articleID,
		CreatedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := n.repo.Create(ctx, notification); err != nil {
			n.log.Error().Err(err).
				Str("user_id", userID).
				Str("kind", string(kind)).
				Str("comment_id", commentID).
				Msg("Failed to dispatch notification")
		}
	}()
}
