package models

import (
	"time"

	"github.com/julianstephens/cadence/internal/constants"
)

// Habit represents a recurring commitment owned by a single user
type Habit struct {
	ID         string                   `json:"id"`
	UserID     string                   `json:"user_id"`
	Name       string                   `json:"name"`
	Recurrence constants.RecurrenceType `json:"recurrence"`
	CreatedOn  string                   `json:"created_on"` // YYYY-MM-DD format
	CreatedAt  time.Time                `json:"created_at"`
	DeletedAt  *time.Time               `json:"deleted_at,omitempty"`
}

// HabitEntry is a single occurrence of a habit on a day it falls due
type HabitEntry struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
