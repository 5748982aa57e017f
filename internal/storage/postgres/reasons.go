package postgres

import (
	"database/sql"
	"errors"

	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

func (s *Store) SetDayReason(reason models.DayReason) error {
	_, err := s.db.Exec(`
		INSERT INTO day_reasons (id, user_id, day, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, day) DO UPDATE SET
			text = EXCLUDED.text,
			updated_at = EXCLUDED.updated_at`,
		reason.ID, reason.UserID, reason.Day, reason.Text, reason.CreatedAt, reason.UpdatedAt)
	return err
}

func (s *Store) GetDayReason(userID, day string) (models.DayReason, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, day, text, created_at, updated_at
		FROM day_reasons WHERE user_id = $1 AND day = $2`, userID, day)
	r, err := scanReason(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayReason{}, cerrors.NotFound("day reason", day)
	}
	return r, err
}

func (s *Store) GetDayReasons(userID string, startDay, endDay string) ([]models.DayReason, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, day, text, created_at, updated_at
		FROM day_reasons WHERE user_id = $1 AND day >= $2 AND day <= $3
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
	if err := row.Scan(&r.ID, &r.UserID, &r.Day, &r.Text, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return models.DayReason{}, err
	}
	return r, nil
}
