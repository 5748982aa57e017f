package models

import "time"

// DayReason is a user's note explaining a missed day. There is at most one per user and day.
type DayReason struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
