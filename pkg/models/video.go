package models

import "time"

// ApprovedVideo is a publicly listed video. Created only by approving a
// submission or by a direct administrative add; never mutated afterward.
type ApprovedVideo struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Channel     string    `json:"channel" db:"channel"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	SubmittedBy string    `json:"submitted_by" db:"submitted_by"`
	VideoURL    string    `json:"video_url" db:"video_url"`
	BotID       string    `json:"bot_id,omitempty" db:"bot_id"`
	AddedAt     time.Time `json:"added_at" db:"added_at"`
}

// UnknownChannel is the channel name used when the metadata resolver
// returns an empty value.
const UnknownChannel = "Unknown Channel"
