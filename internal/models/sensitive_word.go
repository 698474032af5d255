package models

import (
	"time"
)

// WordType classifies what happens when a sensitive-word rule matches
type WordType string

const (
	WordTypeFilter  WordType = "FILTER"  // matched text is masked/replaced
	WordTypeBlock   WordType = "BLOCK"   // matching content is rejected outright
	WordTypeWarning WordType = "WARNING" // matches are surfaced, never blocked
)

// ValidWordTypes defines allowed rule types
var ValidWordTypes = map[WordType]bool{
	WordTypeFilter:  true,
	WordTypeBlock:   true,
	WordTypeWarning: true,
}

// MatchKind distinguishes plain-substring rules from regex rules
type MatchKind string

const (
	MatchKindWord  MatchKind = "WORD"
	MatchKindRegex MatchKind = "REGEX"
)

// WordStatus enables rules without deleting them
type WordStatus string

const (
	WordStatusActive   WordStatus = "ACTIVE"
	WordStatusInactive WordStatus = "INACTIVE"
)

// SensitiveWord is a single filtering rule. WORD rules match by
// case-insensitive substring; REGEX rules compile Pattern case-insensitively.
type SensitiveWord struct {
	ID          string     `json:"id" db:"id"`
	Word        string     `json:"word" db:"word"`
	Replacement string     `json:"replacement,omitempty" db:"replacement"`
	Pattern     string     `json:"pattern,omitempty" db:"pattern"`
	Type        WordType   `json:"type" db:"type"`
	Match       MatchKind  `json:"match" db:"match"`
	Status      WordStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsRegex reports whether the rule matches by regular expression
func (w *SensitiveWord) IsRegex() bool {
	return w.Match == MatchKindRegex
}

// SensitiveWordRequest is the payload for creating or updating a rule
type SensitiveWordRequest struct {
	Word        string     `json:"word" binding:"required"`
	Replacement string     `json:"replacement,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
	Type        WordType   `json:"type" binding:"required"`
	Match       MatchKind  `json:"match,omitempty"`
	Status      WordStatus `json:"status,omitempty"`
}

// FilterPreview is the result of running text through the engine without
// touching any comment.
type FilterPreview struct {
	FilteredText    string   `json:"filtered_text"`
	ContainsBlocked bool     `json:"contains_blocked"`
	WarningWords    []string `json:"warning_words"`
}
