package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/models"
)

// wordRepo is the concrete implementation of WordRepository
type wordRepo struct {
	db *database.DB
}

// NewWordRepo creates a new sensitive-word repository
func NewWordRepo(db *database.DB) WordRepository {
	return &wordRepo{db: db}
}

const wordColumns = `id, word, replacement, pattern, type, match_kind, status, created_at, updated_at`

// ListActive returns every ACTIVE rule for the engine to load
func (r *wordRepo) ListActive(ctx context.Context) ([]*models.SensitiveWord, error) {
	query := `SELECT ` + wordColumns + ` FROM sensitive_words WHERE status = $1 ORDER BY created_at`
	return r.queryWords(ctx, query, models.WordStatusActive)
}

// List returns rules matching an optional keyword and status, newest first
func (r *wordRepo) List(ctx context.Context, keyword string, status models.WordStatus, limit, offset int) ([]*models.SensitiveWord, error) {
	query := `SELECT ` + wordColumns + ` FROM sensitive_words WHERE 1=1`
	var args []interface{}

	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		query += fmt.Sprintf(` AND word ILIKE $%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	return r.queryWords(ctx, query, args...)
}

// GetByID retrieves a rule by ID. Returns nil when not found.
func (r *wordRepo) GetByID(ctx context.Context, id string) (*models.SensitiveWord, error) {
	query := `SELECT ` + wordColumns + ` FROM sensitive_words WHERE id = $1`

	var word models.SensitiveWord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&word.ID, &word.Word, &word.Replacement, &word.Pattern,
		&word.Type, &word.Match, &word.Status, &word.CreatedAt, &word.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &word, nil
}

// Create inserts a new rule. Uniqueness by word is enforced by the schema.
func (r *wordRepo) Create(ctx context.Context, word *models.SensitiveWord) error {
	query := `
		INSERT INTO sensitive_words (id, word, replacement, pattern, type, match_kind, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		word.ID, word.Word, word.Replacement, word.Pattern,
		word.Type, word.Match, word.Status, word.CreatedAt, word.UpdatedAt,
	)
	return err
}

// Update rewrites a rule
func (r *wordRepo) Update(ctx context.Context, word *models.SensitiveWord) error {
	query := `
		UPDATE sensitive_words
		SET word = $2, replacement = $3, pattern = $4, type = $5, match_kind = $6, status = $7, updated_at = $8
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		word.ID, word.Word, word.Replacement, word.Pattern,
		word.Type, word.Match, word.Status, time.Now(),
	)
	return err
}

// Delete removes a rule
func (r *wordRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sensitive_words WHERE id = $1`, id)
	return err
}

// ExistsByWord checks for a rule with the same word
func (r *wordRepo) ExistsByWord(ctx context.Context, word string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sensitive_words WHERE word = $1)`, word,
	).Scan(&exists)
	return exists, err
}

func (r *wordRepo) queryWords(ctx context.Context, query string, args ...interface{}) ([]*models.SensitiveWord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []*models.SensitiveWord
	for rows.Next() {
		var word models.SensitiveWord
		err := rows.Scan(
			&word.ID, &word.Word, &word.Replacement, &word.Pattern,
			&word.Type, &word.Match, &word.Status, &word.CreatedAt, &word.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		words = append(words, &word)
	}

	return words, rows.Err()
}
