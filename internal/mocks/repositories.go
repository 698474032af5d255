package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/repository"
)

// Map-backed repository mocks for service tests. Each mock holds its rows in
// memory and exposes an Err field to force a failure on every call.

// MockArticleRepo is an in-memory ArticleRepository
type MockArticleRepo struct {
	mu       sync.Mutex
	Articles map[string]*models.Article
	Err      error
}

var _ repository.ArticleRepository = (*MockArticleRepo)(nil)

func NewMockArticleRepo() *MockArticleRepo {
	return &MockArticleRepo{Articles: make(map[string]*models.Article)}
}

func (m *MockArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Articles[id], nil
}

func (m *MockArticleRepo) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Articles[id]
	return ok, nil
}

func (m *MockArticleRepo) UpdateCommentCount(ctx context.Context, id string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if a, ok := m.Articles[id]; ok {
		a.CommentCount = count
	}
	return nil
}

// MockUserRepo is an in-memory UserRepository
type MockUserRepo struct {
	mu    sync.Mutex
	Users map[string]*models.User
	Err   error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{Users: make(map[string]*models.User)}
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Users[id], nil
}

func (m *MockUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Users[id]
	return ok, nil
}

// MockCommentRepo is an in-memory CommentRepository
type MockCommentRepo struct {
	mu       sync.Mutex
	Comments map[string]*models.Comment
	Err      error
}

var _ repository.CommentRepository = (*MockCommentRepo)(nil)

func NewMockCommentRepo() *MockCommentRepo {
	return &MockCommentRepo{Comments: make(map[string]*models.Comment)}
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *comment
	m.Comments[comment.ID] = &cp
	return nil
}

func (m *MockCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *comment
	m.Comments[comment.ID] = &cp
	return nil
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCommentRepo) ListByArticle(ctx context.Context, articleID string, topLevelOnly bool, sortBy, sortOrder string, limit, offset int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []*models.Comment
	for _, c := range m.Comments {
		if c.ArticleID != articleID {
			continue
		}
		if topLevelOnly && c.HasParent() {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		if sortBy == "like_count" {
			less = out[i].LikeCount < out[j].LikeCount
		} else {
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if sortOrder == "asc" {
			return less
		}
		return !less
	})

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCommentRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []*models.Comment
	for _, c := range m.Comments {
		if c.UserID != userID || c.IsDeleted() {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCommentRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, c := range m.Comments {
		if c.ArticleID == articleID && !c.IsDeleted() {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepo) Stats(ctx context.Context) (*models.CommentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	stats := &models.CommentStats{}
	for _, c := range m.Comments {
		stats.Total++
		if c.IsDeleted() {
			stats.Deleted++
		} else {
			stats.Active++
		}
		if c.IsEdited {
			stats.Edited++
		}
	}
	return stats, nil
}

// MockLikeRepo is an in-memory CommentLikeRepository keyed by
// "commentID/userID".
type MockLikeRepo struct {
	mu    sync.Mutex
	Likes map[string]time.Time
	Err   error
}

var _ repository.CommentLikeRepository = (*MockLikeRepo)(nil)

func NewMockLikeRepo() *MockLikeRepo {
	return &MockLikeRepo{Likes: make(map[string]time.Time)}
}

func likeKey(commentID, userID string) string {
	return commentID + "/" + userID
}

func (m *MockLikeRepo) Exists(ctx context.Context, commentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Likes[likeKey(commentID, userID)]
	return ok, nil
}

func (m *MockLikeRepo) Create(ctx context.Context, commentID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Likes[likeKey(commentID, userID)] = time.Now()
	return nil
}

func (m *MockLikeRepo) Delete(ctx context.Context, commentID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Likes, likeKey(commentID, userID))
	return nil
}

func (m *MockLikeRepo) CountByComment(ctx context.Context, commentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for key := range m.Likes {
		if strings.HasPrefix(key, commentID+"/") {
			count++
		}
	}
	return count, nil
}

// MockWordRepo is an in-memory WordRepository
type MockWordRepo struct {
	mu    sync.Mutex
	Words map[string]*models.SensitiveWord
	Err   error
}

var _ repository.WordRepository = (*MockWordRepo)(nil)

func NewMockWordRepo() *MockWordRepo {
	return &MockWordRepo{Words: make(map[string]*models.SensitiveWord)}
}

func (m *MockWordRepo) ListActive(ctx context.Context) ([]*models.SensitiveWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*models.SensitiveWord
	for _, w := range m.Words {
		if w.Status == models.WordStatusActive {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockWordRepo) List(ctx context.Context, keyword string, status models.WordStatus, limit, offset int) ([]*models.SensitiveWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*models.SensitiveWord
	for _, w := range m.Words {
		if status != "" && w.Status != status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(w.Word), strings.ToLower(keyword)) {
			continue
		}
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockWordRepo) GetByID(ctx context.Context, id string) (*models.SensitiveWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	w, ok := m.Words[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (m *MockWordRepo) Create(ctx context.Context, word *models.SensitiveWord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *word
	m.Words[word.ID] = &cp
	return nil
}

func (m *MockWordRepo) Update(ctx context.Context, word *models.SensitiveWord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *word
	m.Words[word.ID] = &cp
	return nil
}

func (m *MockWordRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Words, id)
	return nil
}

func (m *MockWordRepo) ExistsByWord(ctx context.Context, word string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, w := range m.Words {
		if w.Word == word {
			return true, nil
		}
	}
	return false, nil
}

// MockReportRepo is an in-memory ReportRepository
type MockReportRepo struct {
	mu      sync.Mutex
	Reports map[string]*models.CommentReport
	Err     error
}

var _ repository.ReportRepository = (*MockReportRepo)(nil)

func NewMockReportRepo() *MockReportRepo {
	return &MockReportRepo{Reports: make(map[string]*models.CommentReport)}
}

func (m *MockReportRepo) Create(ctx context.Context, report *models.CommentReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *report
	m.Reports[report.ID] = &cp
	return nil
}

func (m *MockReportRepo) Update(ctx context.Context, report *models.CommentReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *report
	m.Reports[report.ID] = &cp
	return nil
}

func (m *MockReportRepo) GetByID(ctx context.Context, id string) (*models.CommentReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.Reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MockReportRepo) ExistsByCommentAndReporter(ctx context.Context, commentID, reporterID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, r := range m.Reports {
		if r.CommentID == commentID && r.ReporterID == reporterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReportRepo) List(ctx context.Context, status models.ReportStatus, keyword string, limit, offset int) ([]*models.CommentReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*models.CommentReport
	for _, r := range m.Reports {
		if status != "" && r.Status != status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(r.Reason), strings.ToLower(keyword)) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockReportRepo) ListByComment(ctx context.Context, commentID string) ([]*models.CommentReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*models.CommentReport
	for _, r := range m.Reports {
		if r.CommentID == commentID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockReportRepo) CountByStatus(ctx context.Context, status models.ReportStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, r := range m.Reports {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockReportRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Reports), nil
}

// MockBlacklistRepo is an in-memory BlacklistRepository
type MockBlacklistRepo struct {
	mu      sync.Mutex
	Entries map[string]*models.CommentBlacklist
	Err     error
}

var _ repository.BlacklistRepository = (*MockBlacklistRepo)(nil)

func NewMockBlacklistRepo() *MockBlacklistRepo {
	return &MockBlacklistRepo{Entries: make(map[string]*models.CommentBlacklist)}
}

func (m *MockBlacklistRepo) GetActiveByUser(ctx context.Context, userID string) (*models.CommentBlacklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, e := range m.Entries {
		if e.UserID == userID && e.IsActive() {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockBlacklistRepo) Create(ctx context.Context, entry *models.CommentBlacklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *entry
	m.Entries[entry.ID] = &cp
	return nil
}

func (m *MockBlacklistRepo) DeleteByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for id, e := range m.Entries {
		if e.UserID == userID {
			delete(m.Entries, id)
		}
	}
	return nil
}

func (m *MockBlacklistRepo) ListActive(ctx context.Context) ([]*models.CommentBlacklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*models.CommentBlacklist
	for _, e := range m.Entries {
		if e.IsActive() {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockBlacklistRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	removed := 0
	for id, e := range m.Entries {
		if e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			delete(m.Entries, id)
			removed++
		}
	}
	return removed, nil
}

// MockNotificationRepo is an in-memory NotificationRepository
type MockNotificationRepo struct {
	mu            sync.Mutex
	Notifications []*models.Notification
	Err           error
}

var _ repository.NotificationRepository = (*MockNotificationRepo)(nil)

func NewMockNotificationRepo() *MockNotificationRepo {
	return &MockNotificationRepo{}
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *n
	m.Notifications = append(m.Notifications, &cp)
	return nil
}

// All returns a snapshot of the stored notifications
func (m *MockNotificationRepo) All() []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Notification, len(m.Notifications))
	copy(out, m.Notifications)
	return out
}

// NewRepositories wires every mock into a repository.Repositories bundle
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Article:      NewMockArticleRepo(),
		User:         NewMockUserRepo(),
		Comment:      NewMockCommentRepo(),
		CommentLike:  NewMockLikeRepo(),
		Word:         NewMockWordRepo(),
		Report:       NewMockReportRepo(),
		Blacklist:    NewMockBlacklistRepo(),
		Notification: NewMockNotificationRepo(),
	}
}
