package posts

import (
	"context"
	"errors"
	"testing"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing
type mockRepository struct {
	createFunc      func(ctx context.Context, post *Post) (*Post, error)
	getByIDFunc     func(ctx context.Context, id int64) (*Post, error)
	getViewByIDFunc func(ctx context.Context, id int64) (*PostView, error)
	updateFunc      func(ctx context.Context, post *Post) error
	deleteFunc      func(ctx context.Context, id int64) error
	feedPageFunc    func(ctx context.Context, scope FeedScope, pageSize int, token string) (*pagination.Page[*PostView], error)
}

func (m *mockRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, post)
	}
	post.ID = 1
	return post, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, ErrPostNotFound
}

func (m *mockRepository) GetViewByID(ctx context.Context, id int64) (*PostView, error) {
	if m.getViewByIDFunc != nil {
		return m.getViewByIDFunc(ctx, id)
	}
	return nil, ErrPostNotFound
}

func (m *mockRepository) Update(ctx context.Context, post *Post) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, post)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return 0, nil
}

func (m *mockRepository) FeedPage(ctx context.Context, scope FeedScope, pageSize int, token string) (*pagination.Page[*PostView], error) {
	if m.feedPageFunc != nil {
		return m.feedPageFunc(ctx, scope, pageSize, token)
	}
	return pagination.Paginate[*PostView](ctx, pagination.NewSliceCollection[*PostView](nil), pageSize, token)
}

// mockGroupService implements groups.Service for testing
type mockGroupService struct {
	groups map[int64]*groups.Group
}

func (m *mockGroupService) CreateGroup(ctx context.Context, req groups.CreateGroupRequest) (*groups.Group, error) {
	return nil, errors.New("not implemented")
}

func (m *mockGroupService) GetByID(ctx context.Context, id int64) (*groups.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, groups.ErrGroupNotFound
}

func (m *mockGroupService) GetBySlug(ctx context.Context, slug string) (*groups.Group, error) {
	for _, g := range m.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, groups.ErrGroupNotFound
}

func (m *mockGroupService) List(ctx context.Context) ([]*groups.Group, error) {
	return nil, nil
}

// mockUserService implements users.UserService for testing
type mockUserService struct {
	users.UserService
	byUsername map[string]*users.User
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func newTestService(repo *mockRepository) Service {
	groupSvc := &mockGroupService{groups: map[int64]*groups.Group{
		5: {ID: 5, Title: "Cats", Slug: "cats"},
	}}
	userSvc := &mockUserService{byUsername: map[string]*users.User{
		"leo": {ID: 1, Username: "leo"},
	}}
	return NewPostService(repo, groupSvc, userSvc, 10)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestCreatePost(t *testing.T) {
	var stored *Post
	svc := newTestService(&mockRepository{
		createFunc: func(ctx context.Context, post *Post) (*Post, error) {
			stored = post
			post.ID = 42
			return post, nil
		},
	})

	post, err := svc.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: 1,
		Text:     "  Hello, Yatube  ",
		GroupID:  int64Ptr(5),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), post.ID)
	assert.Equal(t, "Hello, Yatube", stored.Text)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, int64(5), *stored.GroupID)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   CreatePostRequest
		field string
	}{
		{"blank text", CreatePostRequest{AuthorID: 1, Text: "   "}, "text"},
		{"unknown group", CreatePostRequest{AuthorID: 1, Text: "hi", GroupID: int64Ptr(99)}, "group"},
		{"missing author", CreatePostRequest{Text: "hi"}, "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			svc := newTestService(&mockRepository{
				createFunc: func(ctx context.Context, post *Post) (*Post, error) {
					created = true
					return post, nil
				},
			})

			_, err := svc.CreatePost(context.Background(), tt.req)

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, valErr.Field)
			assert.False(t, created)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	existing := func() *Post { return &Post{ID: 3, AuthorID: 1, Text: "old", GroupID: int64Ptr(5)} }

	t.Run("author edits", func(t *testing.T) {
		var updated *Post
		svc := newTestService(&mockRepository{
			getByIDFunc: func(ctx context.Context, id int64) (*Post, error) { return existing(), nil },
			updateFunc: func(ctx context.Context, post *Post) error {
				updated = post
				return nil
			},
		})

		post, err := svc.UpdatePost(context.Background(), UpdatePostRequest{PostID: 3, UserID: 1, Text: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", post.Text)
		assert.Nil(t, updated.GroupID, "clearing the group is allowed")
	})

	t.Run("non-author rejected", func(t *testing.T) {
		svc := newTestService(&mockRepository{
			getByIDFunc: func(ctx context.Context, id int64) (*Post, error) { return existing(), nil },
			updateFunc: func(ctx context.Context, post *Post) error {
				t.Fatal("update must not be called")
				return nil
			},
		})

		_, err := svc.UpdatePost(context.Background(), UpdatePostRequest{PostID: 3, UserID: 2, Text: "hijack"})
		assert.ErrorIs(t, err, ErrNotAuthor)
	})

	t.Run("missing post", func(t *testing.T) {
		svc := newTestService(&mockRepository{})

		_, err := svc.UpdatePost(context.Background(), UpdatePostRequest{PostID: 3, UserID: 1, Text: "x"})
		assert.True(t, IsNotFound(err))
	})
}

func TestDeletePost(t *testing.T) {
	deleted := int64(0)
	svc := newTestService(&mockRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*Post, error) { return &Post{ID: id, AuthorID: 1}, nil },
		deleteFunc: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	})

	assert.ErrorIs(t, svc.DeletePost(context.Background(), 8, 2), ErrNotAuthor)
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeletePost(context.Background(), 8, 1))
	assert.Equal(t, int64(8), deleted)
}

func TestFeeds_PassScopeAndPageSize(t *testing.T) {
	var gotScope FeedScope
	var gotSize int
	var gotToken string
	svc := newTestService(&mockRepository{
		feedPageFunc: func(ctx context.Context, scope FeedScope, pageSize int, token string) (*pagination.Page[*PostView], error) {
			gotScope, gotSize, gotToken = scope, pageSize, token
			items := make([]*PostView, 13)
			for i := range items {
				items[i] = &PostView{ID: int64(13 - i)}
			}
			return pagination.Paginate[*PostView](ctx, pagination.NewSliceCollection(items), pageSize, token)
		},
	})
	ctx := context.Background()

	page, err := svc.GlobalFeed(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, GlobalScope(), gotScope)
	assert.Equal(t, 10, gotSize)
	assert.Equal(t, "2", gotToken)
	assert.Len(t, page.Items, 3)

	group, err := svc.GroupFeed(ctx, "cats", "")
	require.NoError(t, err)
	assert.Equal(t, GroupScope(5), gotScope)
	assert.Equal(t, "Cats", group.Group.Title)
	assert.Len(t, group.Page.Items, 10)

	author, err := svc.AuthorFeed(ctx, "leo", "abc")
	require.NoError(t, err)
	assert.Equal(t, AuthorScope(1), gotScope)
	assert.Equal(t, 13, author.PostCount)
	assert.Equal(t, 1, author.Page.Number)

	follow, err := svc.FollowFeed(ctx, 1, "999")
	require.NoError(t, err)
	assert.Equal(t, FollowScope(1), gotScope)
	assert.Equal(t, 2, follow.Number)
}

func TestFeeds_UnknownOwners(t *testing.T) {
	svc := newTestService(&mockRepository{})
	ctx := context.Background()

	_, err := svc.GroupFeed(ctx, "dogs", "1")
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)

	_, err = svc.AuthorFeed(ctx, "ghost", "1")
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = svc.FollowFeed(ctx, 0, "1")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestNewPostService_DefaultPageSize(t *testing.T) {
	svc := NewPostService(&mockRepository{}, &mockGroupService{}, &mockUserService{}, 0)
	assert.Equal(t, DefaultPageSize, svc.PageSize())
}

func TestFeedScope_Validate(t *testing.T) {
	assert.NoError(t, GlobalScope().Validate())
	assert.NoError(t, GroupScope(1).Validate())
	assert.True(t, IsValidationError(GroupScope(0).Validate()))
	assert.True(t, IsValidationError(AuthorScope(0).Validate()))
	assert.True(t, IsValidationError(FollowScope(-1).Validate()))
	assert.True(t, IsValidationError(FeedScope{Kind: "popular"}.Validate()))
}

func TestPost_String(t *testing.T) {
	post := &Post{Text: "Тестовый текст для проверки длины"}
	assert.Equal(t, "Тестовый текст ", post.String())
	assert.Equal(t, "short", (&Post{Text: "short"}).String())
	assert.Equal(t, "Тестовый текст ", (&PostView{Text: post.Text}).Short())
}

func TestAuthorView_FullName(t *testing.T) {
	assert.Equal(t, "Leo Tolstoy", (&AuthorView{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}).FullName())
	assert.Equal(t, "leo", (&AuthorView{Username: "leo"}).FullName())
}
