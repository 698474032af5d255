// Package sensitive holds the sensitive-word engine: an in-memory snapshot
// of the active rule set, rebuilt from storage on a TTL and published with an
// atomic pointer swap so filtering never observes a half-loaded rule set.
package sensitive

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/blog-comment-service/internal/models"
	"github.com/rs/zerolog"
)

// Source provides the active rule set. Implemented by the word repository.
type Source interface {
	ListActive(ctx context.Context) ([]*models.SensitiveWord, error)
}

// filterRule is a compiled FILTER rule. re matches the literal word or the
// regex pattern, case-insensitively in both cases.
type filterRule struct {
	re          *regexp.Regexp
	replacement string // empty means same-length mask
}

// matchRule is a compiled BLOCK or WARNING rule
type matchRule struct {
	word string // rule label, reported by WarningWords
	// exactly one of the following is set
	literal string // lowercased literal for substring matching
	re      *regexp.Regexp
}

func (m *matchRule) matches(text, lowerText string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	// Plain substring, deliberately not word-boundary-aware: a literal word
	// also matches inside longer words.
	return strings.Contains(lowerText, m.literal)
}

type snapshot struct {
	filterWords    []filterRule
	filterPatterns []filterRule
	block          []matchRule
	warning        []matchRule
	loadedAt       time.Time
}

// Engine filters text against the active rule set. Safe for concurrent use;
// readers always see a complete snapshot and never block on a refresh.
type Engine struct {
	source  Source
	ttl     time.Duration
	timeout time.Duration
	log     zerolog.Logger

	snap      atomic.Pointer[snapshot]
	refreshMu sync.Mutex
}

// New creates an Engine. The first Filter/ContainsBlocked/WarningWords call
// loads the snapshot; call Refresh at startup to load eagerly.
func New(source Source, ttl, timeout time.Duration, log zerolog.Logger) *Engine {
	return &Engine{
		source:  source,
		ttl:     ttl,
		timeout: timeout,
		log:     log.With().Str("component", "sensitive").Logger(),
	}
}

// Refresh rebuilds the snapshot from storage and publishes it atomically.
// On failure the previous snapshot stays in place; filtering never hard-fails
// the comment path because of a storage outage.
func (e *Engine) Refresh(ctx context.Context) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rules, err := e.source.ListActive(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("Failed to reload sensitive words, keeping previous snapshot")
		return err
	}

	next := e.build(rules)
	e.snap.Store(next)

	e.log.Info().
		Int("filter_words", len(next.filterWords)).
		Int("filter_patterns", len(next.filterPatterns)).
		Int("block_rules", len(next.block)).
		Int("warning_rules", len(next.warning)).
		Msg("Sensitive-word snapshot refreshed")
	return nil
}

// build compiles the rule set off to the side. Rules with invalid patterns
// are skipped and logged, never propagated to callers.
func (e *Engine) build(rules []*models.SensitiveWord) *snapshot {
	next := &snapshot{loadedAt: time.Now()}

	for _, rule := range rules {
		var re *regexp.Regexp
		if rule.IsRegex() {
			var err error
			re, err = regexp.Compile(`(?i)` + rule.Pattern)
			if err != nil {
				e.log.Error().Err(err).Str("word", rule.Word).Str("pattern", rule.Pattern).
					Msg("Invalid sensitive-word pattern, rule skipped")
				continue
			}
		}

		switch rule.Type {
		case models.WordTypeFilter:
			fr := filterRule{replacement: rule.Replacement}
			if re != nil {
				fr.re = re
				// A pattern match has no fixed width; fall back to a mask
				// token when no replacement is configured.
				if fr.replacement == "" {
					fr.replacement = "***"
				}
				next.filterPatterns = append(next.filterPatterns, fr)
			} else {
				fr.re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(rule.Word))
				next.filterWords = append(next.filterWords, fr)
			}
		case models.WordTypeBlock:
			next.block = append(next.block, toMatchRule(rule, re))
		case models.WordTypeWarning:
			next.warning = append(next.warning, toMatchRule(rule, re))
		default:
			e.log.Warn().Str("word", rule.Word).Str("type", string(rule.Type)).
				Msg("Unknown sensitive-word type, rule skipped")
		}
	}

	return next
}

func toMatchRule(rule *models.SensitiveWord, re *regexp.Regexp) matchRule {
	m := matchRule{word: rule.Word, re: re}
	if re == nil {
		m.literal = strings.ToLower(rule.Word)
	}
	return m
}

// current returns the active snapshot, refreshing lazily. A stale snapshot
// is served as-is while a background refresh runs; only the very first call
// loads synchronously.
func (e *Engine) current(ctx context.Context) *snapshot {
	snap := e.snap.Load()
	if snap == nil {
		if err := e.Refresh(ctx); err != nil {
			// Serve an empty rule set rather than failing the caller.
			return &snapshot{}
		}
		return e.snap.Load()
	}

	if time.Since(snap.loadedAt) > e.ttl {
		if e.refreshMu.TryLock() {
			e.refreshMu.Unlock()
			go func() {
				_ = e.Refresh(context.Background())
			}()
		}
	}
	return snap
}

// Filter replaces every FILTER-rule match in text. Literal words are applied
// first, then patterns, each pass operating on the previous pass's output.
// Literal matches are masked with a same-length run of '*' unless the rule
// configures a replacement string.
func (e *Engine) Filter(text string) string {
	if text == "" {
		return text
	}
	snap := e.current(context.Background())

	result := text
	for _, rule := range snap.filterWords {
		repl := rule.replacement
		result = rule.re.ReplaceAllStringFunc(result, func(match string) string {
			if repl != "" {
				return repl
			}
			return strings.Repeat("*", utf8.RuneCountInString(match))
		})
	}
	for _, rule := range snap.filterPatterns {
		result = rule.re.ReplaceAllString(result, rule.replacement)
	}
	return result
}

// ContainsBlocked reports whether any BLOCK rule matches. Used as a hard
// gate: matching content is rejected outright, not filtered.
func (e *Engine) ContainsBlocked(text string) bool {
	if text == "" {
		return false
	}
	snap := e.current(context.Background())
	lower := strings.ToLower(text)

	for _, rule := range snap.block {
		if rule.matches(text, lower) {
			return true
		}
	}
	return false
}

// WarningWords returns the distinct WARNING rules that matched, in rule
// order, for advisory surfacing without blocking.
func (e *Engine) WarningWords(text string) []string {
	if text == "" {
		return nil
	}
	snap := e.current(context.Background())
	lower := strings.ToLower(text)

	var matched []string
	seen := make(map[string]struct{})
	for _, rule := range snap.warning {
		if _, dup := seen[rule.word]; dup {
			continue
		}
		if rule.matches(text, lower) {
			seen[rule.word] = struct{}{}
			matched = append(matched, rule.word)
		}
	}
	return matched
}
