package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/service"
)

// Stubs for the service-layer collaborator interfaces plus function-backed
// service mocks for handler tests. Function fields left nil make the call a
// no-op returning zero values.

// StubEngine is a canned WordEngine
type StubEngine struct {
	FilterFunc  func(text string) string
	Blocked     []string
	Warnings    []string
	RefreshErr  error
	RefreshHits int
}

var _ service.WordEngine = (*StubEngine)(nil)

func (e *StubEngine) Filter(text string) string {
	if e.FilterFunc != nil {
		return e.FilterFunc(text)
	}
	return text
}

func (e *StubEngine) ContainsBlocked(text string) bool {
	for _, w := range e.Blocked {
		if w != "" && containsFold(text, w) {
			return true
		}
	}
	return false
}

func (e *StubEngine) WarningWords(text string) []string {
	var hits []string
	for _, w := range e.Warnings {
		if w != "" && containsFold(text, w) {
			hits = append(hits, w)
		}
	}
	return hits
}

func (e *StubEngine) Refresh(ctx context.Context) error {
	e.RefreshHits++
	return e.RefreshErr
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			a, b := h[i+j], n[j]
			if a != b && lowerRune(a) != lowerRune(b) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func lowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// StubAdmitter is a canned Admitter. Admitted defaults handled via Reject:
// zero value admits everything.
type StubAdmitter struct {
	mu     sync.Mutex
	Reject bool
	Keys   []string
}

var _ service.Admitter = (*StubAdmitter)(nil)

func (a *StubAdmitter) Admit(ctx context.Context, key string, limit int, window time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Keys = append(a.Keys, key)
	return !a.Reject
}

// RecordingNotifier captures notifications synchronously
type RecordingNotifier struct {
	mu            sync.Mutex
	Notifications []*models.Notification
}

var _ service.Notifier = (*RecordingNotifier)(nil)

func (n *RecordingNotifier) Notify(userID string, kind models.NotificationKind, commentID, articleID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, &models.Notification{
		UserID:    userID,
		Kind:      kind,
		CommentID: commentID,
		ArticleID: articleID,
	})
}

// All returns a snapshot of captured notifications
func (n *RecordingNotifier) All() []*models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*models.Notification, len(n.Notifications))
	copy(out, n.Notifications)
	return out
}

// MockCommentService is a function-backed CommentService for handler tests
type MockCommentService struct {
	CreateFunc         func(ctx context.Context, req *models.CreateCommentRequest, userID string) (*models.Comment, error)
	UpdateFunc         func(ctx context.Context, commentID string, req *models.UpdateCommentRequest, userID string) (*models.Comment, error)
	DeleteFunc         func(ctx context.Context, commentID, userID string) error
	LikeFunc           func(ctx context.Context, commentID, userID string) error
	UnlikeFunc         func(ctx context.Context, commentID, userID string) error
	HasLikedFunc       func(ctx context.Context, commentID, userID string) (bool, error)
	GetByArticleFunc   func(ctx context.Context, query *models.CommentQuery) ([]*models.CommentResponse, error)
	GetNestedFunc      func(ctx context.Context, articleID, sortBy, sortOrder string) ([]*models.CommentResponse, error)
	GetByUserFunc      func(ctx context.Context, userID string, page, size int) ([]*models.Comment, error)
	CountByArticleFunc func(ctx context.Context, articleID string) (int, error)
}

var _ service.CommentService = (*MockCommentService)(nil)

func (m *MockCommentService) Create(ctx context.Context, req *models.CreateCommentRequest, userID string) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req, userID)
	}
	return nil, nil
}

func (m *MockCommentService) Update(ctx context.Context, commentID string, req *models.UpdateCommentRequest, userID string) (*models.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, commentID, req, userID)
	}
	return nil, nil
}

func (m *MockCommentService) Delete(ctx context.Context, commentID, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, commentID, userID)
	}
	return nil
}

func (m *MockCommentService) Like(ctx context.Context, commentID, userID string) error {
	if m.LikeFunc != nil {
		return m.LikeFunc(ctx, commentID, userID)
	}
	return nil
}

func (m *MockCommentService) Unlike(ctx context.Context, commentID, userID string) error {
	if m.UnlikeFunc != nil {
		return m.UnlikeFunc(ctx, commentID, userID)
	}
	return nil
}

func (m *MockCommentService) HasLiked(ctx context.Context, commentID, userID string) (bool, error) {
	if m.HasLikedFunc != nil {
		return m.HasLikedFunc(ctx, commentID, userID)
	}
	return false, nil
}

func (m *MockCommentService) GetByArticle(ctx context.Context, query *models.CommentQuery) ([]*models.CommentResponse, error) {
	if m.GetByArticleFunc != nil {
		return m.GetByArticleFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockCommentService) GetNested(ctx context.Context, articleID, sortBy, sortOrder string) ([]*models.CommentResponse, error) {
	if m.GetNestedFunc != nil {
		return m.GetNestedFunc(ctx, articleID, sortBy, sortOrder)
	}
	return nil, nil
}

func (m *MockCommentService) GetByUser(ctx context.Context, userID string, page, size int) ([]*models.Comment, error) {
	if m.GetByUserFunc != nil {
		return m.GetByUserFunc(ctx, userID, page, size)
	}
	return nil, nil
}

func (m *MockCommentService) CountByArticle(ctx context.Context, articleID string) (int, error) {
	if m.CountByArticleFunc != nil {
		return m.CountByArticleFunc(ctx, articleID)
	}
	return 0, nil
}

// MockModerationService is a function-backed ModerationService for handler
// tests.
type MockModerationService struct {
	ReportCommentFunc           func(ctx context.Context, commentID, reporterID string, req *models.ReportRequest) (*models.CommentReport, error)
	ReviewReportFunc            func(ctx context.Context, reportID, reviewerID string, req *models.ReviewRequest) error
	ListReportsFunc             func(ctx context.Context, status models.ReportStatus, keyword string, page, size int) ([]*models.CommentReport, error)
	ReportsByCommentFunc        func(ctx context.Context, commentID string) ([]*models.CommentReport, error)
	ModerateCommentFunc         func(ctx context.Context, commentID string, action models.ModerationAction, moderatorID, reason string) error
	BatchModerateFunc           func(ctx context.Context, commentIDs []string, action models.ModerationAction, moderatorID, reason string) []models.BatchItemResult
	AddToBlacklistFunc          func(ctx context.Context, req *models.BlacklistRequest, adminID string) (*models.CommentBlacklist, error)
	RemoveFromBlacklistFunc     func(ctx context.Context, userID string) error
	ListBlacklistFunc           func(ctx context.Context) ([]*models.CommentBlacklist, error)
	IsBlacklistedFunc           func(ctx context.Context, userID string) (bool, error)
	CleanupExpiredBlacklistFunc func(ctx context.Context) (int, error)
	CommentStatsFunc            func(ctx context.Context) (*models.CommentStats, error)
	ReportStatsFunc             func(ctx context.Context) (*models.ReportStats, error)
	CanEditFunc                 func(ctx context.Context, commentID, userID string) (bool, error)
}

var _ service.ModerationService = (*MockModerationService)(nil)

func (m *MockModerationService) ReportComment(ctx context.Context, commentID, reporterID string, req *models.ReportRequest) (*models.CommentReport, error) {
	if m.ReportCommentFunc != nil {
		return m.ReportCommentFunc(ctx, commentID, reporterID, req)
	}
	return nil, nil
}

func (m *MockModerationService) ReviewReport(ctx context.Context, reportID, reviewerID string, req *models.ReviewRequest) error {
	if m.ReviewReportFunc != nil {
		return m.ReviewReportFunc(ctx, reportID, reviewerID, req)
	}
	return nil
}

func (m *MockModerationService) ListReports(ctx context.Context, status models.ReportStatus, keyword string, page, size int) ([]*models.CommentReport, error) {
	if m.ListReportsFunc != nil {
		return m.ListReportsFunc(ctx, status, keyword, page, size)
	}
	return nil, nil
}

func (m *MockModerationService) ReportsByComment(ctx context.Context, commentID string) ([]*models.CommentReport, error) {
	if m.ReportsByCommentFunc != nil {
		return m.ReportsByCommentFunc(ctx, commentID)
	}
	return nil, nil
}

func (m *MockModerationService) ModerateComment(ctx context.Context, commentID string, action models.ModerationAction, moderatorID, reason string) error {
	if m.ModerateCommentFunc != nil {
		return m.ModerateCommentFunc(ctx, commentID, action, moderatorID, reason)
	}
	return nil
}

func (m *MockModerationService) BatchModerate(ctx context.Context, commentIDs []string, action models.ModerationAction, moderatorID, reason string) []models.BatchItemResult {
	if m.BatchModerateFunc != nil {
		return m.BatchModerateFunc(ctx, commentIDs, action, moderatorID, reason)
	}
	return nil
}

func (m *MockModerationService) AddToBlacklist(ctx context.Context, req *models.BlacklistRequest, adminID string) (*models.CommentBlacklist, error) {
	if m.AddToBlacklistFunc != nil {
		return m.AddToBlacklistFunc(ctx, req, adminID)
	}
	return nil, nil
}

func (m *MockModerationService) RemoveFromBlacklist(ctx context.Context, userID string) error {
	if m.RemoveFromBlacklistFunc != nil {
		return m.RemoveFromBlacklistFunc(ctx, userID)
	}
	return nil
}

func (m *MockModerationService) ListBlacklist(ctx context.Context) ([]*models.CommentBlacklist, error) {
	if m.ListBlacklistFunc != nil {
		return m.ListBlacklistFunc(ctx)
	}
	return nil, nil
}

func (m *MockModerationService) IsBlacklisted(ctx context.Context, userID string) (bool, error) {
	if m.IsBlacklistedFunc != nil {
		return m.IsBlacklistedFunc(ctx, userID)
	}
	return false, nil
}

func (m *MockModerationService) CleanupExpiredBlacklist(ctx context.Context) (int, error) {
	if m.CleanupExpiredBlacklistFunc != nil {
		return m.CleanupExpiredBlacklistFunc(ctx)
	}
	return 0, nil
}

func (m *MockModerationService) CommentStats(ctx context.Context) (*models.CommentStats, error) {
	if m.CommentStatsFunc != nil {
		return m.CommentStatsFunc(ctx)
	}
	return nil, nil
}

func (m *MockModerationService) ReportStats(ctx context.Context) (*models.ReportStats, error) {
	if m.ReportStatsFunc != nil {
		return m.ReportStatsFunc(ctx)
	}
	return nil, nil
}

func (m *MockModerationService) CanEdit(ctx context.Context, commentID, userID string) (bool, error) {
	if m.CanEditFunc != nil {
		return m.CanEditFunc(ctx, commentID, userID)
	}
	return false, nil
}

// MockWordService is a function-backed WordService for handler tests
type MockWordService struct {
	ListFunc      func(ctx context.Context, keyword string, status models.WordStatus, page, size int) ([]*models.SensitiveWord, error)
	AddFunc       func(ctx context.Context, req *models.SensitiveWordRequest) (*models.SensitiveWord, error)
	UpdateFunc    func(ctx context.Context, id string, req *models.SensitiveWordRequest) (*models.SensitiveWord, error)
	DeleteFunc    func(ctx context.Context, id string) error
	SetStatusFunc func(ctx context.Context, id string, status models.WordStatus) error
	PreviewFunc   func(ctx context.Context, text string) *models.FilterPreview
}

var _ service.WordService = (*MockWordService)(nil)

func (m *MockWordService) List(ctx context.Context, keyword string, status models.WordStatus, page, size int) ([]*models.SensitiveWord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, keyword, status, page, size)
	}
	return nil, nil
}

func (m *MockWordService) Add(ctx context.Context, req *models.SensitiveWordRequest) (*models.SensitiveWord, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockWordService) Update(ctx context.Context, id string, req *models.SensitiveWordRequest) (*models.SensitiveWord, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockWordService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockWordService) SetStatus(ctx context.Context, id string, status models.WordStatus) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockWordService) Preview(ctx context.Context, text string) *models.FilterPreview {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, text)
	}
	return &models.FilterPreview{FilteredText: text, WarningWords: []string{}}
}
