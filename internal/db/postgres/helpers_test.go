package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

var fixtureSeq atomic.Int64

// setupTestDB connects to TEST_DATABASE_URL, runs migrations and empties every table.
// Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL repository tests")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db), "Failed to run migrations")

	_, err = db.Exec(`TRUNCATE comments, follows, posts, groups, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) *users.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &users.User{
		Username:     username,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return user
}

func createTestGroup(t *testing.T, db *sql.DB, slug string) *groups.Group {
	t.Helper()
	group, err := NewGroupRepository(db).Create(context.Background(), &groups.Group{
		Title: "Group " + slug,
		Slug:  slug,
	})
	require.NoError(t, err)
	return group
}

// createTestPost inserts a post with an explicit created_at so feed order is deterministic
func createTestPost(t *testing.T, db *sql.DB, authorID int64, groupID *int64, createdAt time.Time) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO posts (text, author_id, group_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		fmt.Sprintf("post %d", fixtureSeq.Add(1)), authorID, nullInt64(groupID), createdAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func feedIDs(page []*posts.PostView) []int64 {
	ids := make([]int64, len(page))
	for i, p := range page {
		ids[i] = p.ID
	}
	return ids
}
