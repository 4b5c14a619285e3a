package models

import "time"

// SubmissionStatus represents the lifecycle state of a submission.
// Approved and rejected are absorbing: the record is removed from the
// registry when it leaves pending, so persisted submissions are always
// pending in practice.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission is a user-proposed video awaiting an operator decision.
// The ID is the canonical external video id extracted from VideoURL.
type Submission struct {
	ID          string           `json:"id" db:"id"`
	VideoURL    string           `json:"video_url" db:"video_url"`
	Title       string           `json:"title" db:"title"`
	Timestamp   time.Time        `json:"timestamp" db:"timestamp"`
	Status      SubmissionStatus `json:"status" db:"status"`
	SubmittedBy string           `json:"submitted_by" db:"submitted_by"`
	BotID       string           `json:"bot_id,omitempty" db:"bot_id"`
}
