package storage

import (
	"github.com/julianstephens/cadence/internal/migration"
	"github.com/julianstephens/cadence/internal/models"
)

// Counts holds row totals reported by the doctor command
type Counts struct {
	Users   int
	Habits  int
	Entries int
	Reasons int
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Users
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetAllUsers() ([]models.User, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitsForUser(userID string, includeDeleted bool) ([]models.Habit, error)
	// DeleteHabit soft-deletes a habit; its entries stay in place.
	DeleteHabit(id string) error
	RestoreHabit(id string) error
	// PurgeHabit removes a habit row for good. Its entries go with it.
	PurgeHabit(id string) error

	// Habit Entries
	// InsertHabitEntry creates an entry unless one already exists for
	// (habit_id, day). It reports whether a row was written; an existing
	// row is left untouched and is not an error.
	InsertHabitEntry(models.HabitEntry) (bool, error)
	GetHabitEntry(id string) (models.HabitEntry, error)
	GetHabitEntryForDay(habitID, day string) (models.HabitEntry, error)
	// GetHabitEntriesForHabit returns entries with startDay <= day <= endDay, ascending by day.
	GetHabitEntriesForHabit(habitID string, startDay, endDay string) ([]models.HabitEntry, error)
	// GetHabitEntriesForUser returns entries of every live habit the user owns, ascending by day.
	GetHabitEntriesForUser(userID string, startDay, endDay string) ([]models.HabitEntry, error)
	// ToggleHabitEntry flips the completed flag in a single statement and returns the new value.
	ToggleHabitEntry(id string) (bool, error)
	// CompleteHabitEntriesForDay marks every entry the user has on day as completed.
	CompleteHabitEntriesForDay(userID, day string) (int, error)
	// DeleteHabitEntriesFrom removes a habit's entries dated on or after fromDay.
	DeleteHabitEntriesFrom(habitID, fromDay string) (int, error)

	// Day Reasons
	// SetDayReason upserts on (user_id, day); the stored row keeps its
	// original id and created_at.
	SetDayReason(models.DayReason) error
	GetDayReason(userID, day string) (models.DayReason, error)
	GetDayReasons(userID string, startDay, endDay string) ([]models.DayReason, error)

	// Utils
	Counts() (Counts, error)
	SchemaVersion() (int, error)
	Migrate(logFn func(string)) (int, error)
	MigrationStatus() (migration.Status, error)
	GetConfigPath() string
}
