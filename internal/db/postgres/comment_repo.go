package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Yatube/internal/core/comments"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

// Create inserts a comment
func (r *postgresCommentRepo) Create(ctx context.Context, comment *comments.Comment) (*comments.Comment, error) {
	query := `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if isConstraintViolation(err, pqForeignKeyViolation, "fk_comments_post") {
			return nil, comments.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListForPost returns the comments on a post, oldest first
func (r *postgresCommentRepo) ListForPost(ctx context.Context, postID int64) ([]*comments.CommentView, error) {
	query := `
		SELECT c.id, c.text, c.created_at, u.id, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*comments.CommentView{}
	for rows.Next() {
		c := &comments.CommentView{}
		if err := rows.Scan(&c.ID, &c.Text, &c.CreatedAt, &c.AuthorID, &c.AuthorUsername); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}
