package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/blog-comment-service/internal/apperr"
	"github.com/blog-comment-service/internal/config"
	"github.com/blog-comment-service/internal/mocks"
	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/repository"
	"github.com/blog-comment-service/internal/service"
	"github.com/rs/zerolog"
)

type fixture struct {
	services *service.Services
	repos    *repository.Repositories
	engine   *mocks.StubEngine
	admitter *mocks.StubAdmitter
}

func testConfig() *config.Config {
	return &config.Config{
		Moderation: config.ModerationConfig{
			MaxNestingLevel:   models.MaxNestingLevel,
			EditWindow:        30 * time.Minute,
			DeletePlaceholder: "This comment has been deleted",
		},
		RateLimit: config.RateLimitConfig{
			CommentLimit:  10,
			CommentWindow: time.Minute,
			LikeLimit:     60,
			LikeWindow:    time.Minute,
			KeyPrefix:     "rate_limit",
		},
	}
}

func newFixture() *fixture {
	repos := mocks.NewRepositories()
	engine := &mocks.StubEngine{}
	admitter := &mocks.StubAdmitter{}
	services := service.NewServices(repos, engine, admitter, testConfig(), zerolog.Nop())
	return &fixture{services: services, repos: repos, engine: engine, admitter: admitter}
}

func (f *fixture) articleRepo() *mocks.MockArticleRepo {
	return f.repos.Article.(*mocks.MockArticleRepo)
}

func (f *fixture) userRepo() *mocks.MockUserRepo {
	return f.repos.User.(*mocks.MockUserRepo)
}

func (f *fixture) commentRepo() *mocks.MockCommentRepo {
	return f.repos.Comment.(*mocks.MockCommentRepo)
}

func (f *fixture) blacklistRepo() *mocks.MockBlacklistRepo {
	return f.repos.Blacklist.(*mocks.MockBlacklistRepo)
}
func (f *fixture) notificationRepo() *mocks.MockNotificationRepo {
	return f.repos.Notification.(*mocks.MockNotificationRepo)
}

func (f *fixture) seedUser(id string) {
	f.userRepo().Users[id] = &models.User{ID: id, Name: "user " + id}
}

func (f *fixture) seedArticle(id, authorID string) {
	f.seedUser(authorID)
	f.articleRepo().Articles[id] = &models.Article{ID: id, AuthorID: authorID}
}

func (f *fixture) seedComment(id, articleID, userID string, parentID *string, level int) *models.Comment {
	c := &models.Comment{
		ID:        id,
		Content:   "comment " + id,
		ArticleID: articleID,
		UserID:    userID,
		ParentID:  parentID,
		Level:     level,
		Status:    models.CommentStatusNormal,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.commentRepo().Comments[id] = c
	return c
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	e, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected classified error with code %q, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("expected code %q, got %q (%v)", code, e.Code, err)
	}
}

// waitForNotifications polls until the async dispatcher has persisted n
// notifications or the deadline passes.
func (f *fixture) waitForNotifications(t *testing.T, n int) []*models.Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := f.notificationRepo().All(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d notifications, got %d", n, len(f.notificationRepo().All()))
	return nil
}

func TestCreateComment(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")

	comment, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "first!"}, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.Level != 1 {
		t.Errorf("top-level comment should be level 1, got %d", comment.Level)
	}
	if comment.Status != models.CommentStatusNormal {
		t.Errorf("new comment should be NORMAL, got %s", comment.Status)
	}

	// The article's denormalized count follows.
	article, _ := f.articleRepo().GetByID(context.Background(), "a1")
	if article.CommentCount != 1 {
		t.Errorf("article comment count = %d, want 1", article.CommentCount)
	}
}

func TestCreateCommentFiltersContent(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.engine.FilterFunc = func(text string) string {
		return strings.ReplaceAll(text, "spam", "****")
	}

	comment, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "buy spam now"}, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.Content != "buy **** now" {
		t.Errorf("stored content = %q, want filtered", comment.Content)
	}
}

func TestCreateCommentRejectsBlockedContent(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.engine.Blocked = []string{"scam"}

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "total SCAM here"}, "u1")
	expectCode(t, err, apperr.CodeBlockedContent)

	if len(f.commentRepo().Comments) != 0 {
		t.Error("blocked comment must not be persisted")
	}
}

func TestCreateCommentRejectsBlacklistedUser(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.blacklistRepo().Entries["b1"] = &models.CommentBlacklist{ID: "b1", UserID: "u1"}

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "hello"}, "u1")
	expectCode(t, err, apperr.CodeBlacklisted)
}

func TestCreateCommentExpiredBlacklistEntryDoesNotBar(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	past := time.Now().Add(-time.Hour)
	f.blacklistRepo().Entries["b1"] = &models.CommentBlacklist{ID: "b1", UserID: "u1", ExpiresAt: &past}

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "hello"}, "u1")
	if err != nil {
		t.Fatalf("expired blacklist entry must not bar the user: %v", err)
	}
}

func TestCreateCommentRateLimited(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.admitter.Reject = true

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "hello"}, "u1")
	expectCode(t, err, apperr.CodeRateLimited)
}

func TestCreateCommentUnknownArticle(t *testing.T) {
	f := newFixture()
	f.seedUser("u1")

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "missing", Content: "hello"}, "u1")
	expectCode(t, err, apperr.CodeArticleNotFound)
}

func TestCreateReplyIncrementsLevel(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedUser("u2")
	parent := f.seedComment("c1", "a1", "u1", nil, 1)

	reply, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", ParentID: &parent.ID, Content: "reply"}, "u2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if reply.Level != 2 {
		t.Errorf("reply level = %d, want 2", reply.Level)
	}
}

func TestCreateReplyRejectsDepthBeyondMax(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	deepest := f.seedComment("c5", "a1", "u1", nil, models.MaxNestingLevel)

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", ParentID: &deepest.ID, Content: "too deep"}, "u1")
	expectCode(t, err, apperr.CodeDepthExceeded)
}

func TestCreateReplyAtExactlyMaxDepth(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	parent := f.seedComment("c4", "a1", "u1", nil, models.MaxNestingLevel-1)

	reply, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", ParentID: &parent.ID, Content: "at the limit"}, "u1")
	if err != nil {
		t.Fatalf("reply at max depth should succeed: %v", err)
	}
	if reply.Level != models.MaxNestingLevel {
		t.Errorf("reply level = %d, want %d", reply.Level, models.MaxNestingLevel)
	}
}

func TestCreateReplyRejectsParentFromOtherArticle(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedArticle("a2", "author")
	f.seedUser("u1")
	parent := f.seedComment("c1", "a1", "u1", nil, 1)

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a2", ParentID: &parent.ID, Content: "cross-post"}, "u1")
	expectCode(t, err, apperr.CodeParentMismatch)
}

func TestCreateCommentNotifiesArticleAuthor(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")

	comment, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "nice article"}, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got := f.waitForNotifications(t, 1)
	if got[0].UserID != "author" || got[0].Kind != models.NotificationNewComment {
		t.Errorf("notification = %+v, want new_comment for article author", got[0])
	}
	if got[0].CommentID != comment.ID {
		t.Errorf("notification comment id = %s, want %s", got[0].CommentID, comment.ID)
	}
}

func TestCreateReplyNotifiesParentAuthor(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedUser("u2")
	parent := f.seedComment("c1", "a1", "u1", nil, 1)

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", ParentID: &parent.ID, Content: "reply"}, "u2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got := f.waitForNotifications(t, 1)
	if got[0].UserID != "u1" || got[0].Kind != models.NotificationCommentReply {
		t.Errorf("notification = %+v, want comment_reply for parent author", got[0])
	}
}

func TestCreateCommentNoSelfNotification(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")

	_, err := f.services.Comment.Create(context.Background(),
		&models.CreateCommentRequest{ArticleID: "a1", Content: "my own article"}, "author")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if got := f.notificationRepo().All(); len(got) != 0 {
		t.Errorf("author commenting on own article should not be notified, got %v", got)
	}
}

func TestUpdateCommentWithinWindow(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	c := f.seedComment("c1", "a1", "u1", nil, 1)
	c.CreatedAt = time.Now().Add(-29 * time.Minute)
	f.commentRepo().Comments["c1"] = c

	updated, err := f.services.Comment.Update(context.Background(), "c1",
		&models.UpdateCommentRequest{Content: "edited"}, "u1")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("content = %q, want %q", updated.Content, "edited")
	}
	if !updated.IsEdited {
		t.Error("IsEdited should be set")
	}
}

func TestUpdateCommentAfterWindowExpires(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	c := f.seedComment("c1", "a1", "u1", nil, 1)
	c.CreatedAt = time.Now().Add(-31 * time.Minute)
	f.commentRepo().Comments["c1"] = c

	_, err := f.services.Comment.Update(context.Background(), "c1",
		&models.UpdateCommentRequest{Content: "too late"}, "u1")
	expectCode(t, err, apperr.CodeEditWindowExpired)
}

func TestUpdateCommentOnlyAuthor(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	_, err := f.services.Comment.Update(context.Background(), "c1",
		&models.UpdateCommentRequest{Content: "hijack"}, "u2")
	expectCode(t, err, apperr.CodeNotAuthor)
}

func TestUpdateDeletedCommentRejected(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	c := f.seedComment("c1", "a1", "u1", nil, 1)
	c.Status = models.CommentStatusDeleted
	f.commentRepo().Comments["c1"] = c

	_, err := f.services.Comment.Update(context.Background(), "c1",
		&models.UpdateCommentRequest{Content: "resurrect"}, "u1")
	expectCode(t, err, apperr.CodeEditDeleted)
}

func TestUpdateCommentRejectsBlockedContent(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)
	f.engine.Blocked = []string{"scam"}

	_, err := f.services.Comment.Update(context.Background(), "c1",
		&models.UpdateCommentRequest{Content: "now a scam"}, "u1")
	expectCode(t, err, apperr.CodeBlockedContent)
}

func TestDeleteCommentByAuthor(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	if err := f.services.Comment.Delete(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	stored, _ := f.commentRepo().GetByID(context.Background(), "c1")
	if stored.Status != models.CommentStatusDeleted {
		t.Errorf("status = %s, want DELETED", stored.Status)
	}
	if stored.Content != "This comment has been deleted" {
		t.Errorf("content = %q, want placeholder", stored.Content)
	}
}

func TestDeleteCommentByArticleAuthor(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	if err := f.services.Comment.Delete(context.Background(), "c1", "author"); err != nil {
		t.Fatalf("article author should be allowed to delete: %v", err)
	}
}

func TestDeleteCommentByStrangerRejected(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	err := f.services.Comment.Delete(context.Background(), "c1", "stranger")
	expectCode(t, err, apperr.CodeNotAuthor)
}

func TestDeleteCommentUpdatesArticleCount(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)
	f.seedComment("c2", "a1", "u1", nil, 1)
	f.articleRepo().Articles["a1"].CommentCount = 2

	if err := f.services.Comment.Delete(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	article, _ := f.articleRepo().GetByID(context.Background(), "a1")
	if article.CommentCount != 1 {
		t.Errorf("article comment count = %d, want 1", article.CommentCount)
	}
}

func TestLikeAndUnlike(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	if err := f.services.Comment.Like(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	stored, _ := f.commentRepo().GetByID(context.Background(), "c1")
	if stored.LikeCount != 1 {
		t.Errorf("like count = %d, want 1", stored.LikeCount)
	}

	liked, err := f.services.Comment.HasLiked(context.Background(), "c1", "u1")
	if err != nil || !liked {
		t.Errorf("HasLiked = %v, %v, want true", liked, err)
	}

	if err := f.services.Comment.Unlike(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}
	stored, _ = f.commentRepo().GetByID(context.Background(), "c1")
	if stored.LikeCount != 0 {
		t.Errorf("like count after unlike = %d, want 0", stored.LikeCount)
	}
}

func TestDuplicateLikeRejected(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	if err := f.services.Comment.Like(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	err := f.services.Comment.Like(context.Background(), "c1", "u1")
	expectCode(t, err, apperr.CodeDuplicateLike)

	stored, _ := f.commentRepo().GetByID(context.Background(), "c1")
	if stored.LikeCount != 1 {
		t.Errorf("like count = %d, want 1 after rejected duplicate", stored.LikeCount)
	}
}

func TestUnlikeWithoutLikeRejected(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)

	err := f.services.Comment.Unlike(context.Background(), "c1", "u1")
	expectCode(t, err, apperr.CodeNotLiked)
}

func TestLikeDeletedCommentRejected(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	c := f.seedComment("c1", "a1", "u1", nil, 1)
	c.Status = models.CommentStatusDeleted
	f.commentRepo().Comments["c1"] = c

	err := f.services.Comment.Like(context.Background(), "c1", "u1")
	expectCode(t, err, apperr.CodeCommentNotFound)
}

func TestGetByArticleReturnsTopLevelOnly(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	root := f.seedComment("c1", "a1", "u1", nil, 1)
	f.seedComment("c2", "a1", "u1", &root.ID, 2)

	got, err := f.services.Comment.GetByArticle(context.Background(),
		&models.CommentQuery{ArticleID: "a1"})
	if err != nil {
		t.Fatalf("GetByArticle failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("expected only the root comment, got %d comments", len(got))
	}
	if got[0].UserName == "" {
		t.Error("response should carry the author's display name")
	}
}

func TestGetNestedBuildsTree(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	root := f.seedComment("c1", "a1", "u1", nil, 1)
	reply := f.seedComment("c2", "a1", "u1", &root.ID, 2)
	f.seedComment("c3", "a1", "u1", &reply.ID, 3)

	got, err := f.services.Comment.GetNested(context.Background(), "a1", "", "")
	if err != nil {
		t.Fatalf("GetNested failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 root, got %d", len(got))
	}
	if len(got[0].Replies) != 1 || got[0].Replies[0].ID != "c2" {
		t.Fatalf("expected c2 under c1, got %+v", got[0].Replies)
	}
	if len(got[0].Replies[0].Replies) != 1 || got[0].Replies[0].Replies[0].ID != "c3" {
		t.Fatalf("expected c3 under c2")
	}
}

func TestCountByArticleExcludesDeleted(t *testing.T) {
	f := newFixture()
	f.seedArticle("a1", "author")
	f.seedUser("u1")
	f.seedComment("c1", "a1", "u1", nil, 1)
	c := f.seedComment("c2", "a1", "u1", nil, 1)
	c.Status = models.CommentStatusDeleted
	f.commentRepo().Comments["c2"] = c

	count, err := f.services.Comment.CountByArticle(context.Background(), "a1")
	if err != nil {
		t.Fatalf("CountByArticle failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
