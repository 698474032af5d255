package service_test

import (
	"context"
	"testing"

	"github.com/blog-comment-service/internal/apperr"
	"github.com/blog-comment-service/internal/mocks"
	"github.com/blog-comment-service/internal/models"
)

func (f *fixture) wordRepo() *mocks.MockWordRepo {
	return f.repos.Word.(*mocks.MockWordRepo)
}

func TestAddWordRefreshesEngine(t *testing.T) {
	f := newFixture()

	word, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam",
		Type: models.WordTypeFilter,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if word.Status != models.WordStatusActive {
		t.Errorf("default status = %s, want ACTIVE", word.Status)
	}
	if word.Match != models.MatchKindWord {
		t.Errorf("default match = %s, want WORD", word.Match)
	}
	if f.engine.RefreshHits != 1 {
		t.Errorf("engine refreshed %d times, want 1", f.engine.RefreshHits)
	}
}

func TestAddWordDuplicateRejected(t *testing.T) {
	f := newFixture()

	if _, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeBlock,
	}); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	_, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeFilter,
	})
	expectCode(t, err, apperr.CodeDuplicateWord)
}

func TestAddWordInvalidType(t *testing.T) {
	f := newFixture()

	_, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam", Type: "SHOUT",
	})
	expectCode(t, err, apperr.CodeInvalidArgument)
}

func TestAddWordBrokenPatternRejected(t *testing.T) {
	f := newFixture()

	_, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word:    "broken",
		Pattern: `([`,
		Type:    models.WordTypeBlock,
		Match:   models.MatchKindRegex,
	})
	expectCode(t, err, apperr.CodeInvalidArgument)

	if len(f.wordRepo().Words) != 0 {
		t.Error("invalid rule must not be persisted")
	}
}

func TestAddWordPatternImpliesRegex(t *testing.T) {
	f := newFixture()

	word, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word:    "phone",
		Pattern: `\d{3}-\d{4}`,
		Type:    models.WordTypeFilter,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if word.Match != models.MatchKindRegex {
		t.Errorf("match = %s, want REGEX when a pattern is given", word.Match)
	}
}

func TestUpdateWordToExistingRejected(t *testing.T) {
	f := newFixture()

	if _, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeBlock,
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	other, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "scam", Type: models.WordTypeBlock,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err = f.services.Word.Update(context.Background(), other.ID, &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeBlock,
	})
	expectCode(t, err, apperr.CodeDuplicateWord)
}

func TestUpdateUnknownWord(t *testing.T) {
	f := newFixture()

	_, err := f.services.Word.Update(context.Background(), "missing", &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeBlock,
	})
	expectCode(t, err, apperr.CodeWordNotFound)
}

func TestDeleteWordRefreshesEngine(t *testing.T) {
	f := newFixture()

	word, err := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeBlock,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	refreshesBefore := f.engine.RefreshHits

	if err := f.services.Word.Delete(context.Background(), word.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(f.wordRepo().Words) != 0 {
		t.Error("word should be removed")
	}
	if f.engine.RefreshHits != refreshesBefore+1 {
		t.Error("delete must refresh the engine")
	}
}

func TestSetWordStatus(t *testing.T) {
	f := newFixture()

	word, _ := f.services.Word.Add(context.Background(), &models.SensitiveWordRequest{
		Word: "spam", Type: models.WordTypeBlock,
	})

	if err := f.services.Word.SetStatus(context.Background(), word.ID, models.WordStatusInactive); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	stored, _ := f.wordRepo().GetByID(context.Background(), word.ID)
	if stored.Status != models.WordStatusInactive {
		t.Errorf("status = %s, want INACTIVE", stored.Status)
	}

	err := f.services.Word.SetStatus(context.Background(), word.ID, "PAUSED")
	expectCode(t, err, apperr.CodeInvalidArgument)
}

func TestPreview(t *testing.T) {
	f := newFixture()
	f.engine.FilterFunc = func(text string) string { return "filtered" }
	f.engine.Blocked = []string{"scam"}
	f.engine.Warnings = []string{"casino"}

	preview := f.services.Word.Preview(context.Background(), "casino scam text")
	if preview.FilteredText != "filtered" {
		t.Errorf("FilteredText = %q", preview.FilteredText)
	}
	if !preview.ContainsBlocked {
		t.Error("ContainsBlocked should be true")
	}
	if len(preview.WarningWords) != 1 || preview.WarningWords[0] != "casino" {
		t.Errorf("WarningWords = %v", preview.WarningWords)
	}
}

func TestPreviewWarningWordsNeverNil(t *testing.T) {
	f := newFixture()

	preview := f.services.Word.Preview(context.Background(), "clean")
	if preview.WarningWords == nil {
		t.Error("WarningWords should be an empty slice, not nil")
	}
}
