package postgres

import (
	"context"
	"errors"

	"github.com/indatwa/events-api/internal/models"
	"github.com/indatwa/events-api/internal/storage"
	"github.com/jackc/pgx/v5"
)

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	const query = `
	SELECT id, username, role, password_hash, created_at
	FROM users
	ORDER BY created_at DESC, id DESC;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, storage.Wrap("list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storage.Wrap("list users", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list users", err)
	}
	return users, nil
}

// CreateUser inserts a new user row. The unique index on username is the only
// duplicate check.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (username, password_hash, role)
	VALUES ($1, $2, $3)
	RETURNING id, username, role, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, user.Role)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, storage.Wrap("create user", err)
	}
	return created, nil
}

// FindByUsername fetches a user by exact, case-sensitive username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `
	SELECT id, username, role, password_hash, created_at
	FROM users
	WHERE username = $1;
	`
	user, err := scanUser(s.pool.QueryRow(ctx, query, username))
	return user, storage.Wrap("find user", err)
}

// UpdateUser rewrites username and role, and the hash when one is given.
func (s *Store) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (models.User, error) {
	if outOfRange(id) {
		return models.User{}, storage.ErrNotFound
	}
	const query = `
	UPDATE users
	SET username = $1,
		role = $2,
		password_hash = COALESCE($3, password_hash)
	WHERE id = $4
	RETURNING id, username, role, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, update.Username, update.Role, update.PasswordHash, id)
	updated, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, storage.Wrap("update user", err)
	}
	return updated, nil
}

// DeleteUser removes the row permanently.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	if outOfRange(id) {
		return storage.ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return storage.Wrap("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SeedUser inserts the user and silently skips taken usernames.
func (s *Store) SeedUser(ctx context.Context, user models.User) (bool, error) {
	const query = `
	INSERT INTO users (username, password_hash, role)
	VALUES ($1, $2, $3)
	ON CONFLICT (username) DO NOTHING;
	`
	tag, err := s.pool.Exec(ctx, query, user.Username, user.PasswordHash, user.Role)
	if err != nil {
		return false, storage.Wrap("seed user", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Role, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
