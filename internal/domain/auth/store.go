package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = `id, username, COALESCE(email, ''), name, role, COALESCE(employee_id::text, ''), password_hash, last_login, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Role, &u.EmployeeID, &u.PasswordHash, &u.LastLogin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// FindUserByLogin matches either username or email, case-insensitively.
func (s *Store) FindUserByLogin(ctx context.Context, login string) (User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	u, err := scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE lower(username) = $1 OR lower(email) = $1
    ORDER BY username
    LIMIT 1
  `, login))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("find user by login: %w", err)
	}
	return u, err
}

func (s *Store) FindUserByID(ctx context.Context, id string) (User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, err
}

// CreateUser inserts a login. q may be a transaction shared with other writes.
func CreateUser(ctx context.Context, q querier.Querier, u User) (User, error) {
	row := q.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, role, employee_id, name)
    VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, '')::uuid, $6)
    RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.Role, u.EmployeeID, u.Name)
	created, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	return CreateUser(ctx, s.DB, u)
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	if _, err := s.DB.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
