package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	query := `
		INSERT INTO posts (text, author_id, group_id, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		post.Text, post.AuthorID, nullInt64(post.GroupID), post.Image,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return nil, translatePostWriteError(err)
	}
	return post, nil
}

// GetByID retrieves the bare post row
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	query := `SELECT id, text, author_id, group_id, image, created_at FROM posts WHERE id = $1`

	post := &posts.Post{}
	var groupID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.Text, &post.AuthorID, &groupID, &post.Image, &post.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post.GroupID = int64Ptr(groupID)
	return post, nil
}

// GetViewByID retrieves a post joined with its author and group
func (r *postgresPostRepo) GetViewByID(ctx context.Context, id int64) (*posts.PostView, error) {
	query := postViewSelect + ` WHERE p.id = $1`

	view, err := scanPostView(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post view: %w", err)
	}
	return view, nil
}

// Update replaces the editable fields of a post
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	query := `UPDATE posts SET text = $2, group_id = $3, image = $4 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, post.ID, post.Text, nullInt64(post.GroupID), post.Image)
	if err != nil {
		return translatePostWriteError(err)
	}
	return expectOneRow(result, posts.ErrPostNotFound)
}

// Delete removes a post. Its comments go with it (ON DELETE CASCADE).
func (r *postgresPostRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOneRow(result, posts.ErrPostNotFound)
}

// CountByAuthor returns the number of posts by authorID
func (r *postgresPostRepo) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func translatePostWriteError(err error) error {
	if isConstraintViolation(err, pqForeignKeyViolation, "fk_posts_group") {
		return groups.ErrGroupNotFound
	}
	if isConstraintViolation(err, pqForeignKeyViolation, "fk_posts_author") {
		return users.ErrUserNotFound
	}
	return fmt.Errorf("failed to write post: %w", err)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
