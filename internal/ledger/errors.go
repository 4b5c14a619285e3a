package ledger

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the given id.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyClaimed is returned when the daily bonus was already
	// claimed on the current calendar day.
	ErrAlreadyClaimed = errors.New("daily bonus already claimed today, try again tomorrow")

	// ErrDailyLimitReached is returned when the day's watch rewards have
	// hit the daily coin limit.
	ErrDailyLimitReached = errors.New("daily coin limit reached")

	// ErrWouldExceedLimit is returned when crediting the reward would
	// push the daily total past the limit. No partial credit is issued.
	ErrWouldExceedLimit = errors.New("reward would exceed the daily coin limit")

	// ErrSubmissionLimitReached is returned when the account has used all
	// of its submissions.
	ErrSubmissionLimitReached = errors.New("submission limit reached")

	// ErrInsufficientFunds is returned when the balance cannot cover the
	// submission cost.
	ErrInsufficientFunds = errors.New("not enough coins to submit a video")
)
