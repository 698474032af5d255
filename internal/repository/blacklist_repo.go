package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// blacklistRepo is the concrete implementation of BlacklistRepository
type blacklistRepo struct {
	db *database.DB
}

// NewBlacklistRepo creates a new blacklist repository
func NewBlacklistRepo(db *database.DB) BlacklistRepository {
	return &blacklistRepo{db: db}
}

const blacklistColumns = `id, user_id, reason, blacklisted_by, expires_at, created_at`

// GetActiveByUser returns the user's unexpired entry, or nil
func (r *blacklistRepo) GetActiveByUser(ctx context.Context, userID string) (*models.CommentBlacklist, error) {
	query := `SELECT ` + blacklistColumns + ` FROM comment_blacklist
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		LIMIT 1`

	var entry models.CommentBlacklist
	err := r.db.QueryRowContext(ctx, query, userID, time.Now()).Scan(
		&entry.ID, &entry.UserID, &entry.Reason, &entry.BlacklistedBy,
		&entry.ExpiresAt, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Create inserts a blacklist entry
func (r *blacklistRepo) Create(ctx context.Context, entry *models.CommentBlacklist) error {
	query := `
		INSERT INTO comment_blacklist (id, user_id, reason, blacklisted_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Reason, entry.BlacklistedBy,
		entry.ExpiresAt, entry.CreatedAt,
	)
	return err
}

// DeleteByUser removes every entry for a user
func (r *blacklistRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_blacklist WHERE user_id = $1`, userID,
	)
	return err
}

// ListActive returns every unexpired entry
func (r *blacklistRepo) ListActive(ctx context.Context) ([]*models.CommentBlacklist, error) {
	query := `SELECT ` + blacklistColumns + ` FROM comment_blacklist
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CommentBlacklist
	for rows.Next() {
		var entry models.CommentBlacklist
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Reason, &entry.BlacklistedBy,
			&entry.ExpiresAt, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteExpired removes entries whose expiry has passed. Safe to run
// repeatedly and concurrently.
func (r *blacklistRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_blacklist WHERE expires_at IS NOT NULL AND expires_at <= $1`, now,
	)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}
