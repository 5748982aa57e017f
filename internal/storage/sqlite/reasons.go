package sqlite

import (
	"database/sql"
	"errors"

	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

func (s *Store) SetDayReason(reason models.DayReason) error {
	_, err := s.db.Exec(`
		INSERT INTO day_reasons (id, user_id, day, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at`,
		reason.ID, reason.UserID, reason.Day, reason.Text,
		formatTime(reason.CreatedAt), formatTime(reason.UpdatedAt))
	return err
}

func (s *Store) GetDayReason(userID, day string) (models.DayReason, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, day, text, created_at, updated_at
		FROM day_reasons WHERE user_id = ? AND day = ?`, userID, day)
	r, err := scanReason(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayReason{}, cerrors.NotFound("day reason", day)
	}
	return r, err
}

func (s *Store) GetDayReasons(userID string, startDay, endDay string) ([]models.DayReason, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, day, text, created_at, updated_at
		FROM day_reasons WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reasons []models.DayReason
	for rows.Next() {
		r, err := scanReason(rows)
		if err != nil {
			return nil, err
		}
		reasons = append(reasons, r)
	}
	return reasons, rows.Err()
}

func scanReason(row scanner) (models.DayReason, error) {
	var r models.DayReason
	var createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.UserID, &r.Day, &r.Text, &createdAt, &updatedAt); err != nil {
		return models.DayReason{}, err
	}

	var err error
	if r.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.DayReason{}, err
	}
	if r.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.DayReason{}, err
	}
	return r, nil
}
