package storage

import (
	"database/sql"
	"errors"

	"PilatesStudioManager/internal/models"

	"modernc.org/sqlite"
)

var ErrEmailExists = errors.New("email already registered")

func (s *Store) CreateUser(email, passwordHash, name string) (models.User, error) {
	stmt, err := s.db.Prepare("INSERT INTO users(email, name, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(email, name, passwordHash)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code() == 2067 {
				return models.User{}, ErrEmailExists
			}
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Email: email, Name: name}, nil
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	var user models.User

	row := s.db.QueryRow("SELECT id, email, name, password_hash FROM users WHERE email = ?", email)

	var nullName sql.NullString
	if err := row.Scan(&user.ID, &user.Email, &nullName, &user.PasswordHash); err != nil {
		return user, err // sql.ErrNoRows when no such account
	}
	if nullName.Valid {
		user.Name = nullName.String
	}
	return user, nil
}

func (s *Store) GetUserByID(id int64) (models.User, error) {
	var user models.User

	row := s.db.QueryRow("SELECT id, email, name, password_hash FROM users WHERE id = ?", id)

	var nullName sql.NullString
	if err := row.Scan(&user.ID, &user.Email, &nullName, &user.PasswordHash); err != nil {
		return user, err
	}
	if nullName.Valid {
		user.Name = nullName.String
	}
	return user, nil
}
