package models

import (
	"time"
)

// ReportStatus represents the review state of a comment report.
// PENDING transitions to APPROVED or REJECTED, both terminal.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusApproved ReportStatus = "APPROVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// CommentReport is a user report against a comment. At most one report per
// (comment, reporter) pair.
type CommentReport struct {
	ID          string       `json:"id" db:"id"`
	CommentID   string       `json:"comment_id" db:"comment_id"`
	ReporterID  string       `json:"reporter_id" db:"reporter_id"`
	Reason      string       `json:"reason" db:"reason"`
	Description string       `json:"description,omitempty" db:"description"`
	Status      ReportStatus `json:"status" db:"status"`
	ReviewerID  *string      `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// ReportRequest is the payload for reporting a comment
type ReportRequest struct {
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description,omitempty"`
}

// ReviewRequest is the payload for resolving a report
type ReviewRequest struct {
	Status ReportStatus `json:"status" binding:"required"`
}

// ModerationAction is a direct moderator action on a comment
type ModerationAction string

const (
	ModerationActionDelete  ModerationAction = "DELETE"
	ModerationActionApprove ModerationAction = "APPROVE"
)

// ModerationRequest is the payload for moderating a single comment
type ModerationRequest struct {
	Action ModerationAction `json:"action" binding:"required"`
	Reason string           `json:"reason,omitempty"`
}

// BatchModerationRequest applies one action to many comments
type BatchModerationRequest struct {
	CommentIDs []string         `json:"comment_ids" binding:"required"`
	Action     ModerationAction `json:"action" binding:"required"`
	Reason     string           `json:"reason,omitempty"`
}

// BatchItemResult is the per-item outcome of a batch moderation run
type BatchItemResult struct {
	CommentID string `json:"comment_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// ReportStats summarizes report state for the moderation dashboard
type ReportStats struct {
	Pending  int `json:"pending_reports"`
	Approved int `json:"approved_reports"`
	Rejected int `json:"rejected_reports"`
	Total    int `json:"total_reports"`
}
