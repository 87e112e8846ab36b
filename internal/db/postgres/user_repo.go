package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Yatube/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (username, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.FirstName, user.LastName, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isConstraintViolation(err, pqUniqueViolation, "users_username_key") {
			return nil, users.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	query := `
		SELECT id, username, first_name, last_name, email, password_hash, created_at
		FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	query := `
		SELECT id, username, first_name, last_name, email, password_hash, created_at
		FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash
func (r *postgresUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectOneRow(result, users.ErrUserNotFound)
}

func scanUser(row *sql.Row) (*users.User, error) {
	user := &users.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
