package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

func (s *Store) AddUser(user models.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)`,
		user.ID, strings.ToLower(user.Email), formatTime(user.CreatedAt))
	return mapWriteError(err, "user "+user.Email)
}

func (s *Store) GetUser(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT id, email, created_at FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, cerrors.NotFound("user", id)
	}
	return u, err
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT id, email, created_at FROM users WHERE email = ?", strings.ToLower(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, cerrors.NotFound("user", email)
	}
	return u, err
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, email, created_at FROM users ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &createdAt); err != nil {
		return models.User{}, err
	}
	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}
