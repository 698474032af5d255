package repository

import (
	"context"
	"time"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// ArticleRepository is the narrow contract against the article store.
// Article CRUD itself is owned elsewhere; this service only resolves
// articles and maintains their denormalized comment count.
type ArticleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateCommentCount(ctx context.Context, id string, count int) error
}

// UserRepository is the narrow contract against the user store
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// CommentRepository defines the interface for comment data operations.
// Comments are never physically removed; deletion is a status change.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID string, topLevelOnly bool, sortBy, sortOrder string, limit, offset int) ([]*models.Comment, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Comment, error)
	CountByArticle(ctx context.Context, articleID string) (int, error)
	Stats(ctx context.Context) (*models.CommentStats, error)
}

// CommentLikeRepository owns the (comment, user) like-pair table
type CommentLikeRepository interface {
	Exists(ctx context.Context, commentID, userID string) (bool, error)
	Create(ctx context.Context, commentID, userID string) error
	Delete(ctx context.Context, commentID, userID string) error
	CountByComment(ctx context.Context, commentID string) (int, error)
}

// WordRepository defines the interface for sensitive-word rule storage
type WordRepository interface {
	ListActive(ctx context.Context) ([]*models.SensitiveWord, error)
	List(ctx context.Context, keyword string, status models.WordStatus, limit, offset int) ([]*models.SensitiveWord, error)
	GetByID(ctx context.Context, id string) (*models.SensitiveWord, error)
	Create(ctx context.Context, word *models.SensitiveWord) error
	Update(ctx context.Context, word *models.SensitiveWord) error
	Delete(ctx context.Context, id string) error
	ExistsByWord(ctx context.Context, word string) (bool, error)
}

// ReportRepository defines the interface for comment reports
type ReportRepository interface {
	Create(ctx context.Context, report *models.CommentReport) error
	Update(ctx context.Context, report *models.CommentReport) error
	GetByID(ctx context.Context, id string) (*models.CommentReport, error)
	ExistsByCommentAndReporter(ctx context.Context, commentID, reporterID string) (bool, error)
	List(ctx context.Context, status models.ReportStatus, keyword string, limit, offset int) ([]*models.CommentReport, error)
	ListByComment(ctx context.Context, commentID string) ([]*models.CommentReport, error)
	CountByStatus(ctx context.Context, status models.ReportStatus) (int, error)
	Count(ctx context.Context) (int, error)
}

// BlacklistRepository defines the interface for the comment blacklist
type BlacklistRepository interface {
	GetActiveByUser(ctx context.Context, userID string) (*models.CommentBlacklist, error)
	Create(ctx context.Context, entry *models.CommentBlacklist) error
	DeleteByUser(ctx context.Context, userID string) error
	ListActive(ctx context.Context) ([]*models.CommentBlacklist, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// NotificationRepository stores dispatched notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article      ArticleRepository
	User         UserRepository
	Comment      CommentRepository
	CommentLike  CommentLikeRepository
	Word         WordRepository
	Report       ReportRepository
	Blacklist    BlacklistRepository
	Notification NotificationRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:      NewArticleRepo(db),
		User:         NewUserRepo(db),
		Comment:      NewCommentRepo(db),
		CommentLike:  NewCommentLikeRepo(db),
		Word:         NewWordRepo(db),
		Report:       NewReportRepo(db),
		Blacklist:    NewBlacklistRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
