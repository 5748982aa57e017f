package materializer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// Store is the slice of storage.Provider the materializer writes through
type Store interface {
	InsertHabitEntry(models.HabitEntry) (bool, error)
	GetHabitsForUser(userID string, includeDeleted bool) ([]models.Habit, error)
}

type Materializer struct {
	store Store
	now   func() time.Time
	newID func() string
}

func New(store Store) *Materializer {
	return &Materializer{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// EnsureOccurrences creates one incomplete entry for every day in
// [max(start, createdOn, today), end] on which the habit falls due.
// Existing entries are never touched, so repeated calls over overlapping
// windows are no-ops. Days before today are never materialized.
// It returns the number of entries it created.
func (m *Materializer) EnsureOccurrences(habit models.Habit, start, end, today string) (int, error) {
	for field, day := range map[string]string{"start": start, "end": end, "today": today} {
		if !utils.ValidateDay(day) {
			return 0, cerrors.Invalid(field, "%q is not a YYYY-MM-DD date", day)
		}
	}
	if habit.DeletedAt != nil {
		return 0, nil
	}

	from := utils.MaxDay(start, today)
	if habit.CreatedOn != "" {
		from = utils.MaxDay(from, habit.CreatedOn)
	}
	if from > end {
		return 0, nil
	}

	cursor, err := utils.ParseDay(from)
	if err != nil {
		return 0, err
	}
	last, err := utils.ParseDay(end)
	if err != nil {
		return 0, err
	}

	created := 0
	for d := cursor; !d.After(last); d = d.AddDate(0, 0, 1) {
		if !utils.IsOccurrence(habit, d) {
			continue
		}

		now := m.now()
		entry := models.HabitEntry{
			ID:        m.newID(),
			HabitID:   habit.ID,
			Day:       utils.FormatDay(d),
			Completed: false,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ok, err := m.store.InsertHabitEntry(entry)
		if errors.Is(err, cerrors.ErrConflict) {
			// a concurrent writer got there first
			logger.Debug("occurrence already materialized", "habit", habit.ID, "day", entry.Day)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to materialize %s for habit %s: %w", entry.Day, habit.ID, err)
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		logger.Debug("materialized occurrences", "habit", habit.ID, "from", from, "to", end, "created", created)
	}
	return created, nil
}

// EnsureForUser materializes the window for every live habit the user owns
func (m *Materializer) EnsureForUser(userID, start, end, today string) (int, error) {
	habits, err := m.store.GetHabitsForUser(userID, false)
	if err != nil {
		return 0, fmt.Errorf("failed to load habits for user %s: %w", userID, err)
	}

	total := 0
	for _, h := range habits {
		n, err := m.EnsureOccurrences(h, start, end, today)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
