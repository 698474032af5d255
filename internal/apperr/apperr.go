package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers. Dependency failures (rule store or
// rate-limit store unreachable) are intentionally absent: those paths fail
// open and log instead of surfacing.
type Kind int

const (
	KindValidation Kind = iota // bad input, no retry
	KindPolicy                 // request understood but refused by policy
	KindPermission             // caller may not perform this action
	KindNotFound               // referenced entity does not exist
)

// Machine-readable reason codes surfaced alongside the message.
const (
	CodeArticleNotFound   = "article_not_found"
	CodeCommentNotFound   = "comment_not_found"
	CodeReportNotFound    = "report_not_found"
	CodeUserNotFound      = "user_not_found"
	CodeWordNotFound      = "word_not_found"
	CodeParentMismatch    = "parent_mismatch"
	CodeDepthExceeded     = "depth_exceeded"
	CodeBlockedContent    = "blocked_content"
	CodeBlacklisted       = "blacklisted"
	CodeDuplicateReport   = "duplicate_report"
	CodeDuplicateLike     = "duplicate_like"
	CodeNotLiked          = "not_liked"
	CodeEditWindowExpired = "edit_window_expired"
	CodeEditDeleted       = "edit_deleted_comment"
	CodeNotAuthor         = "not_author"
	CodeRateLimited       = "rate_limited"
	CodeDuplicateWord     = "duplicate_word"
	CodeAlreadyListed     = "already_blacklisted"
	CodeInvalidArgument   = "invalid_argument"
)

// Error is a classified application error
type Error struct {
	Kind    Kind
	Code    string
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// Wrap attaches an underlying cause
func (e *Error) Wrap(err error) *Error {
	e.wrapped = err
	return e
}

// Validation creates a bad-input error
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Policy creates a policy-violation error
func Policy(code, message string) *Error {
	return &Error{Kind: KindPolicy, Code: code, Message: message}
}

// Permission creates a permission error
func Permission(code, message string) *Error {
	return &Error{Kind: KindPermission, Code: code, Message: message}
}

// NotFound creates a stale-reference error, distinct from Validation so
// callers can tell bad input from a missing entity.
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// As extracts an *Error from an error chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == kind
	}
	return false
}
