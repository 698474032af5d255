package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-comment-service/internal/apperr"
	"github.com/blog-comment-service/internal/config"
	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/ratelimit"
	"github.com/blog-comment-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments  repository.CommentRepository
	likes     repository.CommentLikeRepository
	articles  repository.ArticleRepository
	users     repository.UserRepository
	engine    WordEngine
	limiter   Admitter
	notifier  Notifier
	blacklist ModerationService
	cfg       *config.Config
	log       zerolog.Logger
}

func newCommentService(repos *repository.Repositories, engine WordEngine, limiter Admitter, notifier Notifier, moderation ModerationService, cfg *config.Config, log zerolog.Logger) *commentService {
	return &commentService{
		comments:  repos.Comment,
		likes:     repos.CommentLike,
		articles:  repos.Article,
		users:     repos.User,
		engine:    engine,
		limiter:   limiter,
		notifier:  notifier,
		blacklist: moderation,
		cfg:       cfg,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// Create validates the article, parent chain and author, gates the content
// through the blacklist, rate limiter and sensitive-word engine, persists
// the filtered comment and recomputes the article's comment count.
func (s *commentService) Create(ctx context.Context, req *models.CreateCommentRequest, userID string) (*models.Comment, error) {
	if !s.admit(ctx, userID, "comment_create", s.cfg.RateLimit.CommentLimit, s.cfg.RateLimit.CommentWindow) {
		return nil, apperr.Policy(apperr.CodeRateLimited, "too many comments, slow down")
	}

	// Blacklisted users are rejected before their content is even scanned.
	banned, err := s.blacklist.IsBlacklisted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if banned {
		return nil, apperr.Policy(apperr.CodeBlacklisted, "user is barred from commenting")
	}

	article, err := s.articles.GetByID(ctx, req.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil || article.Deleted {
		return nil, apperr.Validation(apperr.CodeArticleNotFound, "article does not exist")
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !exists {
		return nil, apperr.Validation(apperr.CodeUserNotFound, "user does not exist")
	}

	var parent *models.Comment
	level := 1
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err = s.comments.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		if parent == nil || parent.ArticleID != req.ArticleID {
			return nil, apperr.Validation(apperr.CodeParentMismatch, "parent comment does not exist or belongs to a different article")
		}
		level = parent.Level + 1
		if level > s.cfg.Moderation.MaxNestingLevel {
			return nil, apperr.Policy(apperr.CodeDepthExceeded,
				fmt.Sprintf("comments cannot nest deeper than %d levels", s.cfg.Moderation.MaxNestingLevel))
		}
	}

	if s.engine.ContainsBlocked(req.Content) {
		return nil, apperr.Policy(apperr.CodeBlockedContent, "comment contains prohibited content")
	}
	filtered := s.engine.Filter(req.Content)

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New().String(),
		Content:   filtered,
		ArticleID: req.ArticleID,
		UserID:    userID,
		ParentID:  req.ParentID,
		Level:     level,
		Status:    models.CommentStatusNormal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.recomputeCommentCount(ctx, req.ArticleID)

	// Reply → parent author, top-level → article author. Nobody is told
	// about their own comment.
	if parent != nil && parent.UserID != userID {
		s.notifier.Notify(parent.UserID, models.NotificationCommentReply, comment.ID, article.ID)
	} else if parent == nil && article.AuthorID != userID {
		s.notifier.Notify(article.AuthorID, models.NotificationNewComment, comment.ID, article.ID)
	}

	s.log.Info().Str("comment_id", comment.ID).Str("article_id", article.ID).
		Int("level", level).Msg("Comment created")
	return comment, nil
}

// Update edits a comment's content. Only the author may edit, only within
// the edit window, and the content goes through the same blocked/filter
// checks as creation.
func (s *commentService) Update(ctx context.Context, commentID string, req *models.UpdateCommentRequest, userID string) (*models.Comment, error) {
	if !s.admit(ctx, userID, "comment_update", s.cfg.RateLimit.CommentLimit, s.cfg.RateLimit.CommentWindow) {
		return nil, apperr.Policy(apperr.CodeRateLimited, "too many comments, slow down")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return nil, apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}
	if comment.UserID != userID {
		return nil, apperr.Permission(apperr.CodeNotAuthor, "only the author may edit a comment")
	}
	if comment.IsDeleted() {
		return nil, apperr.Policy(apperr.CodeEditDeleted, "deleted comments cannot be edited")
	}
	if time.Since(comment.CreatedAt) > s.cfg.Moderation.EditWindow {
		return nil, apperr.Policy(apperr.CodeEditWindowExpired,
			fmt.Sprintf("comments can only be edited within %s of posting", s.cfg.Moderation.EditWindow))
	}

	if s.engine.ContainsBlocked(req.Content) {
		return nil, apperr.Policy(apperr.CodeBlockedContent, "comment contains prohibited content")
	}

	comment.Content = s.engine.Filter(req.Content)
	comment.IsEdited = true
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	s.log.Info().Str("comment_id", commentID).Msg("Comment edited")
	return comment, nil
}

// Delete soft-deletes a comment. Permitted for the comment's author or the
// owning article's author; content is replaced with a fixed placeholder.
func (s *commentService) Delete(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}

	article, err := s.articles.GetByID(ctx, comment.ArticleID)
	if err != nil {
		return fmt.Errorf("failed to load article: %w", err)
	}
	if comment.UserID != userID && (article == nil || article.AuthorID != userID) {
		return apperr.Permission(apperr.CodeNotAuthor, "only the comment author or article author may delete")
	}

	comment.Status = models.CommentStatusDeleted
	comment.Content = s.cfg.Moderation.DeletePlaceholder
	if err := s.comments.Update(ctx, comment); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.recomputeCommentCount(ctx, comment.ArticleID)

	s.log.Info().Str("comment_id", commentID).Str("user_id", userID).Msg("Comment deleted")
	return nil
}

// Like records a like. Liking an already-liked comment is rejected; the
// like-pair table and the denormalized count move together.
func (s *commentService) Like(ctx context.Context, commentID, userID string) error {
	if !s.admit(ctx, userID, "comment_like", s.cfg.RateLimit.LikeLimit, s.cfg.RateLimit.LikeWindow) {
		return apperr.Policy(apperr.CodeRateLimited, "too many likes, slow down")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil || comment.IsDeleted() {
		return apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}

	liked, err := s.likes.Exists(ctx, commentID, userID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if liked {
		return apperr.Policy(apperr.CodeDuplicateLike, "comment already liked")
	}

	if err := s.likes.Create(ctx, commentID, userID); err != nil {
		return fmt.Errorf("failed to record like: %w", err)
	}
	comment.LikeCount++
	if err := s.comments.Update(ctx, comment); err != nil {
		return fmt.Errorf("failed to update like count: %w", err)
	}

	return nil
}

// Unlike removes a like. Unliking a comment the user has not liked is
// rejected.
func (s *commentService) Unlike(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}

	liked, err := s.likes.Exists(ctx, commentID, userID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if !liked {
		return apperr.Policy(apperr.CodeNotLiked, "comment not liked yet")
	}

	if err := s.likes.Delete(ctx, commentID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	if comment.LikeCount > 0 {
		comment.LikeCount--
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return fmt.Errorf("failed to update like count: %w", err)
	}

	return nil
}

// HasLiked reports whether the user has liked the comment
func (s *commentService) HasLiked(ctx context.Context, commentID, userID string) (bool, error) {
	return s.likes.Exists(ctx, commentID, userID)
}

// GetByArticle returns a page of top-level comments for an article
func (s *commentService) GetByArticle(ctx context.Context, query *models.CommentQuery) ([]*models.CommentResponse, error) {
	page, size := normalizePage(query.Page, query.Size)
	comments, err := s.comments.ListByArticle(ctx, query.ArticleID, true, query.SortBy, query.SortOrder, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return s.toResponses(ctx, comments), nil
}

// GetNested returns the full comment tree for an article. The flat list is
// fetched pre-sorted; the tree preserves that order per level.
func (s *commentService) GetNested(ctx context.Context, articleID, sortBy, sortOrder string) ([]*models.CommentResponse, error) {
	comments, err := s.comments.ListByArticle(ctx, articleID, false, sortBy, sortOrder, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return BuildCommentTree(s.toResponses(ctx, comments)), nil
}

// GetByUser returns a page of the user's comments, newest first
func (s *commentService) GetByUser(ctx context.Context, userID string, page, size int) ([]*models.Comment, error) {
	page, size = normalizePage(page, size)
	return s.comments.ListByUser(ctx, userID, size, (page-1)*size)
}

// CountByArticle counts NORMAL comments for an article
func (s *commentService) CountByArticle(ctx context.Context, articleID string) (int, error) {
	return s.comments.CountByArticle(ctx, articleID)
}

// admit runs the sliding-window gate for one (user, operation) pair
func (s *commentService) admit(ctx context.Context, userID, op string, limit int, window time.Duration) bool {
	key := ratelimit.Key(s.cfg.RateLimit.KeyPrefix, "user", userID, op)
	return s.limiter.Admit(ctx, key, limit, window)
}

// recomputeCommentCount rewrites the article's denormalized count from the
// source-of-truth status values. Concurrent mutations may race here; the
// next mutation recomputes again, so the count cannot drift permanently.
func (s *commentService) recomputeCommentCount(ctx context.Context, articleID string) {
	count, err := s.comments.CountByArticle(ctx, articleID)
	if err != nil {
		s.log.Error().Err(err).Str("article_id", articleID).Msg("Failed to recompute comment count")
		return
	}
	if err := s.articles.UpdateCommentCount(ctx, articleID, count); err != nil {
		s.log.Error().Err(err).Str("article_id", articleID).Msg("Failed to store comment count")
	}
}

// toResponses enriches comments with author display info
func (s *commentService) toResponses(ctx context.Context, comments []*models.Comment) []*models.CommentResponse {
	responses := make([]*models.CommentResponse, 0, len(comments))
	userCache := make(map[string]*models.User)

	for _, comment := range comments {
		resp := &models.CommentResponse{Comment: *comment}

		user, ok := userCache[comment.UserID]
		if !ok {
			var err error
			user, err = s.users.GetByID(ctx, comment.UserID)
			if err != nil {
				s.log.Warn().Err(err).Str("user_id", comment.UserID).Msg("Failed to load comment author")
			}
			userCache[comment.UserID] = user
		}
		if user != nil {
			resp.UserName = user.Name
			resp.UserAvatar = user.Avatar
		}

		responses = append(responses, resp)
	}
	return responses
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
