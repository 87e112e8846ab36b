package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Yatube/internal/core/users"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow repository
func NewFollowRepository(db *sql.DB) users.FollowRepository {
	return &postgresFollowRepo{db: db}
}

// Follow records that userID follows authorID.
// This is idempotent - following twice keeps the original row.
func (r *postgresFollowRepo) Follow(ctx context.Context, userID, authorID int64) error {
	query := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, authorID); err != nil {
		if isConstraintViolation(err, pqCheckViolation, "follows_not_self") {
			return users.ErrCannotFollowSelf
		}
		if isConstraintViolation(err, pqForeignKeyViolation, "") {
			return users.ErrUserNotFound
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Unfollow removes the follow row if present
func (r *postgresFollowRepo) Unfollow(ctx context.Context, userID, authorID int64) error {
	query := `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, authorID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether userID follows authorID
func (r *postgresFollowRepo) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}
