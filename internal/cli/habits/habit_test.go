package habits

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
	"github.com/julianstephens/cadence/internal/tracker"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.AddUser(models.User{ID: "u1", Email: "ada@example.com", CreatedAt: time.Now()}))
	return &cli.Context{Store: store, Tracker: tracker.New(store, nil)}
}

func liveHabits(t *testing.T, ctx *cli.Context) []models.Habit {
	t.Helper()
	habits, err := ctx.Store.GetHabitsForUser("u1", false)
	require.NoError(t, err)
	return habits
}

func TestHabitAddCmd(t *testing.T) {
	ctx := setupTestDB(t)

	require.NoError(t, (&HabitAddCmd{Name: "Laundry", Recurrence: "weekly", Date: "2024-06-01"}).Run(ctx))

	habits := liveHabits(t, ctx)
	require.Len(t, habits, 1)
	assert.Equal(t, constants.RecurrenceWeekly, habits[0].Recurrence)
	assert.Equal(t, "2024-06-01", habits[0].CreatedOn)

	entries, err := ctx.Store.GetHabitEntriesForHabit(habits[0].ID, "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	assert.Len(t, entries, 5) // Saturdays 1, 8, 15, 22, 29

	err = (&HabitAddCmd{Name: "  ", Recurrence: "daily", Date: "2024-06-01"}).Run(ctx)
	assert.True(t, cerrors.IsValidation(err))
}

func TestFindHabit(t *testing.T) {
	ctx := setupTestDB(t)
	require.NoError(t, (&HabitAddCmd{Name: "Read", Recurrence: "daily", Date: "today"}).Run(ctx))
	habit := liveHabits(t, ctx)[0]

	found, err := findHabit(ctx, "u1", "read", false)
	require.NoError(t, err)
	assert.Equal(t, habit.ID, found.ID)

	found, err = findHabit(ctx, "u1", habit.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Read", found.Name)

	_, err = findHabit(ctx, "u1", "Write", false)
	assert.True(t, cerrors.IsNotFound(err))

	err = (&HabitAddCmd{Name: "READ", Recurrence: "weekly", Date: "today"}).Run(ctx)
	assert.True(t, cerrors.IsValidation(err))

	// a deleted habit may share its name with a live one
	require.NoError(t, (&HabitDeleteCmd{Habit: "Read"}).Run(ctx))
	require.NoError(t, (&HabitAddCmd{Name: "Read", Recurrence: "weekly", Date: "today"}).Run(ctx))
	_, err = findHabit(ctx, "u1", "read", true)
	assert.True(t, cerrors.IsValidation(err))
	found, err = findHabit(ctx, "u1", "read", false)
	require.NoError(t, err)
	assert.Equal(t, constants.RecurrenceWeekly, found.Recurrence)
}

func TestHabitDeleteRestorePurge(t *testing.T) {
	ctx := setupTestDB(t)
	require.NoError(t, (&HabitAddCmd{Name: "Read", Recurrence: "daily", Date: "today"}).Run(ctx))

	require.NoError(t, (&HabitDeleteCmd{Habit: "Read"}).Run(ctx))
	assert.Empty(t, liveHabits(t, ctx))

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(ctx.Store.GetConfigPath()), constants.BackupDirName, "*pre-remove*"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	require.NoError(t, (&HabitRestoreCmd{Habit: "Read"}).Run(ctx))
	habits := liveHabits(t, ctx)
	require.Len(t, habits, 1)

	require.NoError(t, (&HabitStatsCmd{Habit: "Read"}).Run(ctx))

	require.NoError(t, (&HabitPurgeCmd{Habit: habits[0].ID, Yes: true}).Run(ctx))
	_, err = ctx.Store.GetHabit(habits[0].ID)
	assert.True(t, cerrors.IsNotFound(err))
}

func TestHabitListCmd(t *testing.T) {
	ctx := setupTestDB(t)
	assert.NoError(t, (&HabitListCmd{}).Run(ctx))
	require.NoError(t, (&HabitAddCmd{Name: "Read", Recurrence: "daily", Date: "today"}).Run(ctx))
	assert.NoError(t, (&HabitListCmd{Deleted: true}).Run(ctx))
}
