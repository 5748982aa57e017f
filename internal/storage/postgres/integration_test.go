package postgres

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

// TestStore_Integration exercises the store against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://cadence@localhost:5432/cadence_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	now := time.Now()
	user := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", CreatedAt: now}
	if err := store.AddUser(user); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	habit := models.Habit{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Name:       "Read",
		Recurrence: constants.RecurrenceDaily,
		CreatedOn:  "2024-06-01",
		CreatedAt:  now,
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	defer store.PurgeHabit(habit.ID)

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if settings.TopReasonsLimit <= 0 {
			t.Errorf("expected a positive top reasons limit, got %d", settings.TopReasonsLimit)
		}
	})

	t.Run("EntriesAreConflictTolerant", func(t *testing.T) {
		entry := models.HabitEntry{ID: uuid.NewString(), HabitID: habit.ID, Day: "2024-06-01", CreatedAt: now, UpdatedAt: now}
		created, err := store.InsertHabitEntry(entry)
		if err != nil || !created {
			t.Fatalf("InsertHabitEntry = %v, %v", created, err)
		}
		entry.ID = uuid.NewString()
		created, err = store.InsertHabitEntry(entry)
		if err != nil || created {
			t.Fatalf("duplicate InsertHabitEntry = %v, %v; want false, nil", created, err)
		}
	})

	t.Run("Toggle", func(t *testing.T) {
		e, err := store.GetHabitEntryForDay(habit.ID, "2024-06-01")
		if err != nil {
			t.Fatalf("GetHabitEntryForDay failed: %v", err)
		}
		first, err := store.ToggleHabitEntry(e.ID)
		if err != nil || !first {
			t.Fatalf("first toggle = %v, %v", first, err)
		}
		second, err := store.ToggleHabitEntry(e.ID)
		if err != nil || second {
			t.Fatalf("second toggle = %v, %v", second, err)
		}
	})

	t.Run("ReasonUpsert", func(t *testing.T) {
		for _, text := range []string{"sick", "travel"} {
			r := models.DayReason{ID: uuid.NewString(), UserID: user.ID, Day: "2024-06-01", Text: text, CreatedAt: now, UpdatedAt: now}
			if err := store.SetDayReason(r); err != nil {
				t.Fatalf("SetDayReason failed: %v", err)
			}
		}
		reasons, err := store.GetDayReasons(user.ID, "2024-06-01", "2024-06-01")
		if err != nil {
			t.Fatalf("GetDayReasons failed: %v", err)
		}
		if len(reasons) != 1 || reasons[0].Text != "travel" {
			t.Errorf("reasons = %+v, want one row with text travel", reasons)
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		if err := store.DeleteHabit(habit.ID); err != nil {
			t.Fatalf("DeleteHabit failed: %v", err)
		}
		if err := store.DeleteHabit(habit.ID); !cerrors.IsNotFound(err) {
			t.Errorf("second DeleteHabit: got %v, want ErrNotFound", err)
		}
		if err := store.RestoreHabit(habit.ID); err != nil {
			t.Fatalf("RestoreHabit failed: %v", err)
		}
	})
}
