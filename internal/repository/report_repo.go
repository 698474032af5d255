package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// reportRepo is the concrete implementation of ReportRepository
type reportRepo struct {
	db *database.DB
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *database.DB) ReportRepository {
	return &reportRepo{db: db}
}

const reportColumns = `id, comment_id, reporter_id, reason, description, status, reviewer_id, reviewed_at, created_at`

// Create inserts a new report
func (r *reportRepo) Create(ctx context.Context, report *models.CommentReport) error {
	query := `
		INSERT INTO comment_reports (id, comment_id, reporter_id, reason, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.CommentID, report.ReporterID, report.Reason,
		report.Description, report.Status, report.CreatedAt,
	)
	return err
}

// Update persists a review decision
func (r *reportRepo) Update(ctx context.Context, report *models.CommentReport) error {
	query := `
		UPDATE comment_reports
		SET status = $2, reviewer_id = $3, reviewed_at = $4
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.Status, report.ReviewerID, report.ReviewedAt,
	)
	return err
}

// GetByID retrieves a report by ID. Returns nil when not found.
func (r *reportRepo) GetByID(ctx context.Context, id string) (*models.CommentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM comment_reports WHERE id = $1`

	var report models.CommentReport
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.CommentID, &report.ReporterID, &report.Reason,
		&report.Description, &report.Status, &report.ReviewerID,
		&report.ReviewedAt, &report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ExistsByCommentAndReporter enforces the one-report-per-pair invariant
func (r *reportRepo) ExistsByCommentAndReporter(ctx context.Context, commentID, reporterID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comment_reports WHERE comment_id = $1 AND reporter_id = $2)`,
		commentID, reporterID,
	).Scan(&exists)
	return exists, err
}

// List returns reports filtered by status and/or description keyword
func (r *reportRepo) List(ctx context.Context, status models.ReportStatus, keyword string, limit, offset int) ([]*models.CommentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM comment_reports WHERE 1=1`
	var args []interface{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		query += fmt.Sprintf(` AND description ILIKE $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	return r.queryReports(ctx, query, args...)
}

// ListByComment returns every report against one comment
func (r *reportRepo) ListByComment(ctx context.Context, commentID string) ([]*models.CommentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM comment_reports WHERE comment_id = $1 ORDER BY created_at DESC`
	return r.queryReports(ctx, query, commentID)
}

// CountByStatus counts reports in one state
func (r *reportRepo) CountByStatus(ctx context.Context, status models.ReportStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comment_reports WHERE status = $1`, status,
	).Scan(&count)
	return count, err
}

// Count returns the total number of reports
func (r *reportRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comment_reports`).Scan(&count)
	return count, err
}

func (r *reportRepo) queryReports(ctx context.Context, query string, args ...interface{}) ([]*models.CommentReport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.CommentReport
	for rows.Next() {
		var report models.CommentReport
		err := rows.Scan(
			&report.ID, &report.CommentID, &report.ReporterID, &report.Reason,
			&report.Description, &report.Status, &report.ReviewerID,
			&report.ReviewedAt, &report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}
