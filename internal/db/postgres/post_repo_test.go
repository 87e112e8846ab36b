package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Yatube/internal/core/comments"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
)

func TestPostRepo_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	group := createTestGroup(t, db, "cats")

	post, err := repo.Create(ctx, &posts.Post{AuthorID: author.ID, GroupID: &group.ID, Text: "hello", Image: "posts/cat.jpg"})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)

	view, err := repo.GetViewByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", view.Text)
	assert.Equal(t, "author", view.Author.Username)
	require.NotNil(t, view.Group)
	assert.Equal(t, "cats", view.Group.Slug)
	assert.Equal(t, "posts/cat.jpg", view.Image)

	post.Text = "edited"
	post.GroupID = nil
	require.NoError(t, repo.Update(ctx, post))

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Text)
	assert.Nil(t, stored.GroupID)

	count, err := repo.CountByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, post.ID), posts.ErrPostNotFound)
}

func TestPostRepo_UnknownGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "author")

	missing := int64(9999)
	_, err := repo.Create(context.Background(), &posts.Post{AuthorID: author.ID, GroupID: &missing, Text: "x"})
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)
}

func TestPostRepo_GroupDeletionKeepsPosts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	group := createTestGroup(t, db, "cats")
	id := createTestPost(t, db, author.ID, &group.ID, time.Now())

	_, err := db.Exec(`DELETE FROM groups WHERE id = $1`, group.ID)
	require.NoError(t, err)

	post, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, post.GroupID)
}

func TestPostRepo_GlobalFeedPaging(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	base := time.Now().Add(-time.Hour)
	ids := make([]int64, 13)
	for i := range ids {
		ids[i] = createTestPost(t, db, author.ID, nil, base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := repo.FeedPage(ctx, posts.GlobalScope(), 10, "")
	require.NoError(t, err)
	assert.Equal(t, 13, page1.TotalItems)
	assert.Equal(t, 2, page1.NumPages)
	require.Len(t, page1.Items, 10)
	assert.Equal(t, ids[12], page1.Items[0].ID, "newest first")

	page2, err := repo.FeedPage(ctx, posts.GlobalScope(), 10, "2")
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, feedIDs(page2.Items))

	overflow, err := repo.FeedPage(ctx, posts.GlobalScope(), 10, "99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, 2, overflow.Number)

	junk, err := repo.FeedPage(ctx, posts.GlobalScope(), 10, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, junk.Number)
}

func TestPostRepo_FeedTiesBrokenByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	author := createTestUser(t, db, "author")
	same := time.Now().Truncate(time.Second)
	first := createTestPost(t, db, author.ID, nil, same)
	second := createTestPost(t, db, author.ID, nil, same)

	page, err := repo.FeedPage(context.Background(), posts.GlobalScope(), 10, "1")
	require.NoError(t, err)
	assert.Equal(t, []int64{second, first}, feedIDs(page.Items))
}

func TestPostRepo_ScopedFeeds(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	reader := createTestUser(t, db, "reader")
	followed := createTestUser(t, db, "followed")
	stranger := createTestUser(t, db, "stranger")
	cats := createTestGroup(t, db, "cats")
	dogs := createTestGroup(t, db, "dogs")

	now := time.Now()
	catPost := createTestPost(t, db, followed.ID, &cats.ID, now.Add(-3*time.Minute))
	dogPost := createTestPost(t, db, stranger.ID, &dogs.ID, now.Add(-2*time.Minute))
	plainPost := createTestPost(t, db, followed.ID, nil, now.Add(-time.Minute))

	require.NoError(t, NewFollowRepository(db).Follow(ctx, reader.ID, followed.ID))

	group, err := repo.FeedPage(ctx, posts.GroupScope(cats.ID), 10, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{catPost}, feedIDs(group.Items))

	author, err := repo.FeedPage(ctx, posts.AuthorScope(followed.ID), 10, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{plainPost, catPost}, feedIDs(author.Items))

	follow, err := repo.FeedPage(ctx, posts.FollowScope(reader.ID), 10, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{plainPost, catPost}, feedIDs(follow.Items))
	assert.NotContains(t, feedIDs(follow.Items), dogPost)

	empty, err := repo.FeedPage(ctx, posts.FollowScope(stranger.ID), 10, "5")
	require.NoError(t, err)
	assert.Equal(t, 1, empty.Number)
	assert.Empty(t, empty.Items)
	assert.False(t, empty.HasNext)
}

func TestPostRepo_FeedRejectsIncompleteScope(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewPostRepository(db).FeedPage(context.Background(), posts.GroupScope(0), 10, "")
	assert.True(t, posts.IsValidationError(err))
}

func TestCommentRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	postID := createTestPost(t, db, author.ID, nil, time.Now())

	first, err := repo.Create(ctx, &comments.Comment{PostID: postID, AuthorID: author.ID, Text: "first"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &comments.Comment{PostID: postID, AuthorID: author.ID, Text: "second"})
	require.NoError(t, err)

	list, err := repo.ListForPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "oldest first")
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, "author", list[0].AuthorUsername)

	_, err = repo.Create(ctx, &comments.Comment{PostID: 9999, AuthorID: author.ID, Text: "orphan"})
	assert.ErrorIs(t, err, comments.ErrPostNotFound)
}

func TestGroupRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	createTestGroup(t, db, "zebras")
	cats := createTestGroup(t, db, "cats")

	_, err := repo.Create(ctx, &groups.Group{Title: "Other", Slug: "cats"})
	assert.ErrorIs(t, err, groups.ErrSlugTaken)

	got, err := repo.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, cats.ID, got.ID)

	_, err = repo.GetBySlug(ctx, "dogs")
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cats", list[0].Slug)
}
