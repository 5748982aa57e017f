package postgres

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
		VALUES ($1, $2, $3, $4, $5, $6, NULL)`,
		habit.ID, habit.UserID, habit.Name, string(habit.Recurrence), habit.CreatedOn, habit.CreatedAt)
	return mapWriteError(err, "habit "+habit.ID)
}

// GetHabit returns the habit whether or not it has been soft-deleted
func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = $1", id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, cerrors.NotFound("habit", id)
	}
	return h, err
}

func (s *Store) GetHabitsForUser(userID string, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = $1"
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
		UPDATE habits SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result, fmt.Errorf("habit %s not found or already deleted: %w", id, cerrors.ErrNotFound))
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result, fmt.Errorf("habit %s not found or not deleted: %w", id, cerrors.ErrNotFound))
}

// PurgeHabit relies on ON DELETE CASCADE to drop the habit's entries
func (s *Store) PurgeHabit(id string) error {
	result, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result, cerrors.NotFound("habit", id))
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var recurrence string
	var deletedAt sql.NullTime

	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &recurrence, &h.CreatedOn, &h.CreatedAt, &deletedAt); err != nil {
		return models.Habit{}, err
	}
	h.Recurrence = constants.RecurrenceType(recurrence)
	if deletedAt.Valid {
		t := deletedAt.Time
		h.DeletedAt = &t
	}
	return h, nil
}
