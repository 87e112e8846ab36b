package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Yatube/internal/core/posts"
)

// postViewSelect joins a post with its author and optional group.
// Callers append WHERE / ORDER BY / LIMIT clauses.
const postViewSelect = `
	SELECT
		p.id, p.text, p.image, p.created_at,
		u.id, u.username, u.first_name, u.last_name,
		g.id, g.title, g.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// feedOrder is the total order of every post listing
const feedOrder = ` ORDER BY p.created_at DESC, p.id DESC`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPostView(row rowScanner) (*posts.PostView, error) {
	view := &posts.PostView{Author: &posts.AuthorView{}}
	var (
		groupID    sql.NullInt64
		groupTitle sql.NullString
		groupSlug  sql.NullString
	)

	err := row.Scan(
		&view.ID, &view.Text, &view.Image, &view.CreatedAt,
		&view.Author.ID, &view.Author.Username, &view.Author.FirstName, &view.Author.LastName,
		&groupID, &groupTitle, &groupSlug,
	)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		view.Group = &posts.GroupRef{
			ID:    groupID.Int64,
			Title: groupTitle.String,
			Slug:  groupSlug.String,
		}
	}
	return view, nil
}

// feedFilter returns the WHERE clause and its single argument for scope
func feedFilter(scope posts.FeedScope) (string, []interface{}, error) {
	if err := scope.Validate(); err != nil {
		return "", nil, err
	}

	switch scope.Kind {
	case posts.FeedGroup:
		return ` WHERE p.group_id = $1`, []interface{}{scope.GroupID}, nil
	case posts.FeedAuthor:
		return ` WHERE p.author_id = $1`, []interface{}{scope.AuthorID}, nil
	case posts.FeedFollow:
		return ` WHERE p.author_id IN (SELECT author_id FROM follows WHERE user_id = $1)`,
			[]interface{}{scope.FollowerID}, nil
	default:
		return "", nil, nil
	}
}

// feedCollection is a pagination.Collection of post views bound to one
// transaction, so Count and Slice read the same snapshot.
type feedCollection struct {
	tx    *sql.Tx
	where string
	args  []interface{}
}

func (c *feedCollection) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM posts p` + c.where

	var total int
	if err := c.tx.QueryRowContext(ctx, query, c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count feed: %w", err)
	}
	return total, nil
}

func (c *feedCollection) Slice(ctx context.Context, offset, limit int) ([]*posts.PostView, error) {
	n := len(c.args)
	query := postViewSelect + c.where + feedOrder +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)

	args := append(append([]interface{}{}, c.args...), limit, offset)
	rows, err := c.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*posts.PostView, 0, limit)
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed: %w", err)
	}
	return result, nil
}
