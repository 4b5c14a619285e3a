package workflow

import "errors"

var (
	// ErrSubmissionNotFound is returned when no pending submission
	// matches the given id.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidVideoURL is returned when a video URL does not yield a
	// canonical video id.
	ErrInvalidVideoURL = errors.New("invalid video URL")

	// ErrDuplicateSubmission is returned when a pending submission for
	// the same video already exists. The check runs before any debit so
	// the submitter keeps their coins.
	ErrDuplicateSubmission = errors.New("video already submitted and awaiting review")
)
