package service

import (
	"context"
	"time"

	"github.com/blog-comment-service/internal/config"
	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/repository"
	"github.com/rs/zerolog"
)

// WordEngine is the sensitive-word contract the services need.
// Implemented by sensitive.Engine.
type WordEngine interface {
	Filter(text string) string
	ContainsBlocked(text string) bool
	WarningWords(text string) []string
	Refresh(ctx context.Context) error
}

// Admitter decides whether a keyed request may proceed.
// Implemented by ratelimit.Limiter; failing open is the implementation's
// concern, callers just see an admit/reject decision.
type Admitter interface {
	Admit(ctx context.Context, key string, limit int, window time.Duration) bool
}

// Notifier dispatches notifications fire-and-forget. Failures are logged,
// never returned: notification delivery must not fail the comment path.
type Notifier interface {
	Notify(userID string, kind models.NotificationKind, commentID, articleID string)
}

// CommentService defines the interface for the comment write and read paths
type CommentService interface {
	Create(ctx context.Context, req *models.CreateCommentRequest, userID string) (*models.Comment, error)
	Update(ctx context.Context, commentID string, req *models.UpdateCommentRequest, userID string) (*models.Comment, error)
	Delete(ctx context.Context, commentID, userID string) error
	Like(ctx context.Context, commentID, userID string) error
	Unlike(ctx context.Context, commentID, userID string) error
	HasLiked(ctx context.Context, commentID, userID string) (bool, error)
	GetByArticle(ctx context.Context, query *models.CommentQuery) ([]*models.CommentResponse, error)
	GetNested(ctx context.Context, articleID, sortBy, sortOrder string) ([]*models.CommentResponse, error)
	GetByUser(ctx context.Context, userID string, page, size int) ([]*models.Comment, error)
	CountByArticle(ctx context.Context, articleID string) (int, error)
}

// ModerationService defines the interface for report handling, direct
// moderation and blacklist management
type ModerationService interface {
	ReportComment(ctx context.Context, commentID, reporterID string, req *models.ReportRequest) (*models.CommentReport, error)
	ReviewReport(ctx context.Context, reportID, reviewerID string, req *models.ReviewRequest) error
	ListReports(ctx context.Context, status models.ReportStatus, keyword string, page, size int) ([]*models.CommentReport, error)
	ReportsByComment(ctx context.Context, commentID string) ([]*models.CommentReport, error)
	ModerateComment(ctx context.Context, commentID string, action models.ModerationAction, moderatorID, reason string) error
	BatchModerate(ctx context.Context, commentIDs []string, action models.ModerationAction, moderatorID, reason string) []models.BatchItemResult
	AddToBlacklist(ctx context.Context, req *models.BlacklistRequest, adminID string) (*models.CommentBlacklist, error)
	RemoveFromBlacklist(ctx context.Context, userID string) error
	ListBlacklist(ctx context.Context) ([]*models.CommentBlacklist, error)
	IsBlacklisted(ctx context.Context, userID string) (bool, error)
	CleanupExpiredBlacklist(ctx context.Context) (int, error)
	CommentStats(ctx context.Context) (*models.CommentStats, error)
	ReportStats(ctx context.Context) (*models.ReportStats, error)
	CanEdit(ctx context.Context, commentID, userID string) (bool, error)
}

// WordService defines the interface for sensitive-word rule administration
type WordService interface {
	List(ctx context.Context, keyword string, status models.WordStatus, page, size int) ([]*models.SensitiveWord, error)
	Add(ctx context.Context, req *models.SensitiveWordRequest) (*models.SensitiveWord, error)
	Update(ctx context.Context, id string, req *models.SensitiveWordRequest) (*models.SensitiveWord, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.WordStatus) error
	Preview(ctx context.Context, text string) *models.FilterPreview
}

// Services holds all service interfaces
type Services struct {
	Comment    CommentService
	Moderation ModerationService
	Word       WordService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, engine WordEngine, limiter Admitter, cfg *config.Config, log zerolog.Logger) *Services {
	notifier := newAsyncNotifier(repos.Notification, log)
	moderationSvc := newModerationService(repos, cfg.Moderation.EditWindow, log)
	commentSvc := newCommentService(repos, engine, limiter, notifier, moderationSvc, cfg, log)
	wordSvc := newWordService(repos.Word, engine, log)

	return &Services{
		Comment:    commentSvc,
		Moderation: moderationSvc,
		Word:       wordSvc,
	}
}
