package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-comment-service/internal/apperr"
	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	reports    repository.ReportRepository
	comments   repository.CommentRepository
	blacklist  repository.BlacklistRepository
	editWindow time.Duration
	log        zerolog.Logger
}

func newModerationService(repos *repository.Repositories, editWindow time.Duration, log zerolog.Logger) *moderationService {
	return &moderationService{
		reports:    repos.Report,
		comments:   repos.Comment,
		blacklist:  repos.Blacklist,
		editWindow: editWindow,
		log:        log.With().Str("service", "moderation").Logger(),
	}
}

// ReportComment files a report against a comment. A reporter gets at most
// one report per comment.
func (s *moderationService) ReportComment(ctx context.Context, commentID, reporterID string, req *models.ReportRequest) (*models.CommentReport, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return nil, apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}

	exists, err := s.reports.ExistsByCommentAndReporter(ctx, commentID, reporterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing report: %w", err)
	}
	if exists {
		return nil, apperr.Policy(apperr.CodeDuplicateReport, "comment already reported by this user")
	}

	report := &models.CommentReport{
		ID:          uuid.New().String(),
		CommentID:   commentID,
		ReporterID:  reporterID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.log.Info().Str("report_id", report.ID).Str("comment_id", commentID).
		Str("reporter_id", reporterID).Str("reason", req.Reason).Msg("Comment reported")
	return report, nil
}

// ReviewReport resolves a PENDING report. Approval cascades to soft-delete
// the reported comment; that cascade is unconditional and is the visible,
// testable side effect of the APPROVED transition.
func (s *moderationService) ReviewReport(ctx context.Context, reportID, reviewerID string, req *models.ReviewRequest) error {
	if req.Status != models.ReportStatusApproved && req.Status != models.ReportStatusRejected {
		return apperr.Validation(apperr.CodeInvalidArgument, "review status must be APPROVED or REJECTED")
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if report == nil {
		return apperr.NotFound(apperr.CodeReportNotFound, "report does not exist")
	}
	if report.Status != models.ReportStatusPending {
		return apperr.Policy(apperr.CodeInvalidArgument, "report has already been reviewed")
	}

	now := time.Now()
	report.Status = req.Status
	report.ReviewerID = &reviewerID
	report.ReviewedAt = &now
	if err := s.reports.Update(ctx, report); err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	if req.Status == models.ReportStatusApproved {
		if err := s.softDelete(ctx, report.CommentID); err != nil {
			s.log.Error().Err(err).Str("comment_id", report.CommentID).
				Msg("Failed to delete comment for approved report")
		} else {
			s.log.Info().Str("comment_id", report.CommentID).Str("report_id", reportID).
				Msg("Comment deleted due to approved report")
		}
	}

	s.log.Info().Str("report_id", reportID).Str("reviewer_id", reviewerID).
		Str("status", string(req.Status)).Msg("Report reviewed")
	return nil
}

// ListReports returns reports filtered by status and/or keyword
func (s *moderationService) ListReports(ctx context.Context, status models.ReportStatus, keyword string, page, size int) ([]*models.CommentReport, error) {
	page, size = normalizePage(page, size)
	return s.reports.List(ctx, status, keyword, size, (page-1)*size)
}

// ReportsByComment returns every report against one comment
func (s *moderationService) ReportsByComment(ctx context.Context, commentID string) ([]*models.CommentReport, error) {
	return s.reports.ListByComment(ctx, commentID)
}

// ModerateComment applies a direct moderator action independent of any
// report. DELETE soft-deletes; APPROVE resets status to NORMAL, reversing an
// earlier takedown.
func (s *moderationService) ModerateComment(ctx context.Context, commentID string, action models.ModerationAction, moderatorID, reason string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}

	switch action {
	case models.ModerationActionDelete:
		comment.Status = models.CommentStatusDeleted
	case models.ModerationActionApprove:
		comment.Status = models.CommentStatusNormal
	default:
		return apperr.Validation(apperr.CodeInvalidArgument, "action must be DELETE or APPROVE")
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	s.log.Info().Str("comment_id", commentID).Str("action", string(action)).
		Str("moderator_id", moderatorID).Str("reason", reason).Msg("Comment moderated")
	return nil
}

// BatchModerate applies one action to each comment independently. A failure
// on one id is recorded and does not abort the rest; processing stops early
// only when the caller's context is already cancelled. Already-applied items
// are not rolled back.
func (s *moderationService) BatchModerate(ctx context.Context, commentIDs []string, action models.ModerationAction, moderatorID, reason string) []models.BatchItemResult {
	results := make([]models.BatchItemResult, 0, len(commentIDs))

	for _, id := range commentIDs {
		if ctx.Err() != nil {
			s.log.Warn().Int("remaining", len(commentIDs)-len(results)).
				Msg("Batch moderation stopped, context cancelled")
			break
		}

		result := models.BatchItemResult{CommentID: id, OK: true}
		if err := s.ModerateComment(ctx, id, action, moderatorID, reason); err != nil {
			result.OK = false
			result.Error = err.Error()
			s.log.Error().Err(err).Str("comment_id", id).Msg("Failed to moderate comment in batch")
		}
		results = append(results, result)
	}

	return results
}

// AddToBlacklist bars a user from commenting. Fails when the user already
// has an unexpired entry.
func (s *moderationService) AddToBlacklist(ctx context.Context, req *models.BlacklistRequest, adminID string) (*models.CommentBlacklist, error) {
	existing, err := s.blacklist.GetActiveByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if existing != nil {
		return nil, apperr.Policy(apperr.CodeAlreadyListed, "user is already blacklisted")
	}

	entry := &models.CommentBlacklist{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Reason:        req.Reason,
		BlacklistedBy: adminID,
		ExpiresAt:     req.ExpiresAt,
		CreatedAt:     time.Now(),
	}
	if err := s.blacklist.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create blacklist entry: %w", err)
	}

	s.log.Info().Str("user_id", req.UserID).Str("admin_id", adminID).
		Str("reason", req.Reason).Msg("User blacklisted")
	return entry, nil
}

// RemoveFromBlacklist clears every entry for a user
func (s *moderationService) RemoveFromBlacklist(ctx context.Context, userID string) error {
	if err := s.blacklist.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to remove blacklist entry: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("User removed from blacklist")
	return nil
}

// ListBlacklist returns every active entry
func (s *moderationService) ListBlacklist(ctx context.Context) ([]*models.CommentBlacklist, error) {
	return s.blacklist.ListActive(ctx)
}

// IsBlacklisted reports whether the user has an active entry. Wired into
// the comment create path as a gate ahead of the sensitive-word check.
func (s *moderationService) IsBlacklisted(ctx context.Context, userID string) (bool, error) {
	entry, err := s.blacklist.GetActiveByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// CleanupExpiredBlacklist deletes entries whose expiry has passed.
// Idempotent; safe to run repeatedly and concurrently.
func (s *moderationService) CleanupExpiredBlacklist(ctx context.Context) (int, error) {
	removed, err := s.blacklist.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired blacklist entries: %w", err)
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("Expired blacklist entries removed")
	}
	return removed, nil
}

// CommentStats returns comment totals for the dashboard
func (s *moderationService) CommentStats(ctx context.Context) (*models.CommentStats, error) {
	return s.comments.Stats(ctx)
}

// ReportStats returns report totals for the dashboard
func (s *moderationService) ReportStats(ctx context.Context) (*models.ReportStats, error) {
	var stats models.ReportStats
	var err error

	if stats.Pending, err = s.reports.CountByStatus(ctx, models.ReportStatusPending); err != nil {
		return nil, err
	}
	if stats.Approved, err = s.reports.CountByStatus(ctx, models.ReportStatusApproved); err != nil {
		return nil, err
	}
	if stats.Rejected, err = s.reports.CountByStatus(ctx, models.ReportStatusRejected); err != nil {
		return nil, err
	}
	if stats.Total, err = s.reports.Count(ctx); err != nil {
		return nil, err
	}

	return &stats, nil
}

// CanEdit reports whether the user could still edit the comment. Advisory
// for UIs; Update re-checks on its own.
func (s *moderationService) CanEdit(ctx context.Context, commentID, userID string) (bool, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment == nil || comment.UserID != userID || comment.IsDeleted() {
		return false, nil
	}
	return time.Since(comment.CreatedAt) <= s.editWindow, nil
}

// softDelete marks a comment DELETED without permission checks; used by the
// report-approval cascade.
func (s *moderationService) softDelete(ctx context.Context, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound(apperr.CodeCommentNotFound, "comment does not exist")
	}
	comment.Status = models.CommentStatusDeleted
	return s.comments.Update(ctx, comment)
}
