package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

const habitColumns = "id, user_id, name, recurrence, created_on, created_at, deleted_at"

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		habit.ID, habit.UserID, habit.Name, string(habit.Recurrence), habit.CreatedOn, formatTime(habit.CreatedAt))
	return mapWriteError(err, "habit "+habit.ID)
}

// GetHabit returns the habit whether or not it has been soft-deleted
func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, cerrors.NotFound("habit", id)
	}
	return h, err
}

func (s *Store) GetHabitsForUser(userID string, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = ?"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY name, created_at"

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(result, fmt.Errorf("habit %s not found or already deleted: %w", id, cerrors.ErrNotFound))
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result, fmt.Errorf("habit %s not found or not deleted: %w", id, cerrors.ErrNotFound))
}

func (s *Store) PurgeHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_entries WHERE habit_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete entries of habit %s: %w", id, err)
	}
	result, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := requireRow(result, cerrors.NotFound("habit", id)); err != nil {
		return err
	}
	return tx.Commit()
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var recurrence, createdAt string
	var deletedAt sql.NullString

	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &recurrence, &h.CreatedOn, &createdAt, &deletedAt); err != nil {
		return models.Habit{}, err
	}
	h.Recurrence = constants.RecurrenceType(recurrence)

	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt = t

	if deletedAt.Valid {
		d, err := parseTime("deleted_at", deletedAt.String)
		if err != nil {
			return models.Habit{}, err
		}
		h.DeletedAt = &d
	}
	return h, nil
}

func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
