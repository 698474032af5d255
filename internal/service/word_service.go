package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/blog-comment-service/internal/apperr"
	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// wordService is the concrete implementation of WordService. Every mutation
// triggers an immediate engine refresh so new rules take effect without
// waiting out the cache TTL.
type wordService struct {
	words  repository.WordRepository
	engine WordEngine
	log    zerolog.Logger
}

func newWordService(words repository.WordRepository, engine WordEngine, log zerolog.Logger) *wordService {
	return &wordService{
		words:  words,
		engine: engine,
		log:    log.With().Str("service", "word").Logger(),
	}
}

// List returns rules matching an optional keyword and status
func (s *wordService) List(ctx context.Context, keyword string, status models.WordStatus, page, size int) ([]*models.SensitiveWord, error) {
	page, size = normalizePage(page, size)
	return s.words.List(ctx, keyword, status, size, (page-1)*size)
}

// Add creates a rule. Duplicate words are rejected.
func (s *wordService) Add(ctx context.Context, req *models.SensitiveWordRequest) (*models.SensitiveWord, error) {
	if err := validateWordRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.words.ExistsByWord(ctx, req.Word)
	if err != nil {
		return nil, fmt.Errorf("failed to check word: %w", err)
	}
	if exists {
		return nil, apperr.Policy(apperr.CodeDuplicateWord, "sensitive word already exists")
	}

	now := time.Now()
	word := &models.SensitiveWord{
		ID:          uuid.New().String(),
		Word:        req.Word,
		Replacement: req.Replacement,
		Pattern:     req.Pattern,
		Type:        req.Type,
		Match:       matchKindOrDefault(req),
		Status:      statusOrDefault(req.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.words.Create(ctx, word); err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	s.refresh(ctx)
	s.log.Info().Str("word", word.Word).Str("type", string(word.Type)).Msg("Sensitive word added")
	return word, nil
}

// Update rewrites a rule
func (s *wordService) Update(ctx context.Context, id string, req *models.SensitiveWordRequest) (*models.SensitiveWord, error) {
	if err := validateWordRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.words.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load word: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound(apperr.CodeWordNotFound, "sensitive word does not exist")
	}

	if existing.Word != req.Word {
		dup, err := s.words.ExistsByWord(ctx, req.Word)
		if err != nil {
			return nil, fmt.Errorf("failed to check word: %w", err)
		}
		if dup {
			return nil, apperr.Policy(apperr.CodeDuplicateWord, "sensitive word already exists")
		}
	}

	existing.Word = req.Word
	existing.Replacement = req.Replacement
	existing.Pattern = req.Pattern
	existing.Type = req.Type
	existing.Match = matchKindOrDefault(req)
	if req.Status != "" {
		existing.Status = req.Status
	}
	if err := s.words.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update word: %w", err)
	}

	s.refresh(ctx)
	return existing, nil
}

// Delete removes a rule
func (s *wordService) Delete(ctx context.Context, id string) error {
	existing, err := s.words.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load word: %w", err)
	}
	if existing == nil {
		return apperr.NotFound(apperr.CodeWordNotFound, "sensitive word does not exist")
	}

	if err := s.words.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}

	s.refresh(ctx)
	s.log.Info().Str("word", existing.Word).Msg("Sensitive word deleted")
	return nil
}

// SetStatus toggles a rule between ACTIVE and INACTIVE
func (s *wordService) SetStatus(ctx context.Context, id string, status models.WordStatus) error {
	if status != models.WordStatusActive && status != models.WordStatusInactive {
		return apperr.Validation(apperr.CodeInvalidArgument, "status must be ACTIVE or INACTIVE")
	}

	existing, err := s.words.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load word: %w", err)
	}
	if existing == nil {
		return apperr.NotFound(apperr.CodeWordNotFound, "sensitive word does not exist")
	}

	existing.Status = status
	if err := s.words.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}

	s.refresh(ctx)
	return nil
}

// Preview runs text through the engine without touching any comment
func (s *wordService) Preview(ctx context.Context, text string) *models.FilterPreview {
	preview := &models.FilterPreview{
		FilteredText:    s.engine.Filter(text),
		ContainsBlocked: s.engine.ContainsBlocked(text),
		WarningWords:    s.engine.WarningWords(text),
	}
	if preview.WarningWords == nil {
		preview.WarningWords = []string{}
	}
	return preview
}

// refresh publishes the mutated rule set immediately. A failed refresh is
// logged and left to the TTL: the stored mutation is not rolled back.
func (s *wordService) refresh(ctx context.Context) {
	if err := s.engine.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("Failed to refresh sensitive-word snapshot after mutation")
	}
}

func validateWordRequest(req *models.SensitiveWordRequest) error {
	if !models.ValidWordTypes[req.Type] {
		return apperr.Validation(apperr.CodeInvalidArgument, "type must be FILTER, BLOCK or WARNING")
	}
	if req.Match == models.MatchKindRegex || req.Pattern != "" {
		if req.Pattern == "" {
			return apperr.Validation(apperr.CodeInvalidArgument, "regex rules require a pattern")
		}
		if _, err := regexp.Compile(`(?i)` + req.Pattern); err != nil {
			return apperr.Validation(apperr.CodeInvalidArgument, "pattern does not compile").Wrap(err)
		}
	}
	return nil
}

func matchKindOrDefault(req *models.SensitiveWordRequest) models.MatchKind {
	if req.Match == models.MatchKindRegex || (req.Match == "" && req.Pattern != "") {
		return models.MatchKindRegex
	}
	return models.MatchKindWord
}

func statusOrDefault(status models.WordStatus) models.WordStatus {
	if status == "" {
		return models.WordStatusActive
	}
	return status
}
