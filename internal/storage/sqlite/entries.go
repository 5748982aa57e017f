package sqlite

import (
	"database/sql"
	"errors"
	"time"

	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

const entryColumns = "id, habit_id, day, completed, created_at, updated_at"

func (s *Store) InsertHabitEntry(entry models.HabitEntry) (bool, error) {
	result, err := s.db.Exec(`
		INSERT INTO habit_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
		entry.ID, entry.HabitID, entry.Day, entry.Completed,
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	if err != nil {
		return false, mapWriteError(err, "habit entry "+entry.ID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) GetHabitEntry(id string) (models.HabitEntry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM habit_entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, cerrors.NotFound("habit entry", id)
	}
	return e, err
}

func (s *Store) GetHabitEntryForDay(habitID, day string) (models.HabitEntry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM habit_entries WHERE habit_id = ? AND day = ?", habitID, day)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, cerrors.NotFound("habit entry", habitID+"@"+day)
	}
	return e, err
}

func (s *Store) GetHabitEntriesForHabit(habitID string, startDay, endDay string) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+` FROM habit_entries
		WHERE habit_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (s *Store) GetHabitEntriesForUser(userID string, startDay, endDay string) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(`
		SELECT e.id, e.habit_id, e.day, e.completed, e.created_at, e.updated_at
		FROM habit_entries e
		JOIN habits h ON h.id = e.habit_id
		WHERE h.user_id = ? AND h.deleted_at IS NULL AND e.day >= ? AND e.day <= ?
		ORDER BY e.day, e.habit_id`, userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (s *Store) ToggleHabitEntry(id string) (bool, error) {
	var completed bool
	err := s.db.QueryRow(`
		UPDATE habit_entries SET completed = 1 - completed, updated_at = ?
		WHERE id = ?
		RETURNING completed`, formatTime(time.Now()), id).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, cerrors.NotFound("habit entry", id)
	}
	return completed, err
}

func (s *Store) CompleteHabitEntriesForDay(userID, day string) (int, error) {
	result, err := s.db.Exec(`
		UPDATE habit_entries SET completed = 1, updated_at = ?
		WHERE day = ? AND completed = 0 AND habit_id IN (
			SELECT id FROM habits WHERE user_id = ? AND deleted_at IS NULL
		)`, formatTime(time.Now()), day, userID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (s *Store) DeleteHabitEntriesFrom(habitID, fromDay string) (int, error) {
	result, err := s.db.Exec("DELETE FROM habit_entries WHERE habit_id = ? AND day >= ?", habitID, fromDay)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func collectEntries(rows *sql.Rows) ([]models.HabitEntry, error) {
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.HabitID, &e.Day, &e.Completed, &createdAt, &updatedAt); err != nil {
		return models.HabitEntry{}, err
	}

	var err error
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitEntry{}, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.HabitEntry{}, err
	}
	return e, nil
}
