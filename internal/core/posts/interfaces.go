package posts

import (
	"context"

	"Yatube/internal/core/pagination"
)

// Service defines the business logic interface for posts and feeds
type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id int64) (*PostView, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id, userID int64) error
	CountByAuthor(ctx context.Context, authorID int64) (int, error)

	// Feeds resolve the page token with the paginator policy: missing or
	// malformed tokens give page 1, out-of-range tokens give the last page.
	GlobalFeed(ctx context.Context, token string) (*pagination.Page[*PostView], error)
	GroupFeed(ctx context.Context, slug, token string) (*GroupFeedResult, error)
	AuthorFeed(ctx context.Context, username, token string) (*AuthorFeedResult, error)
	FollowFeed(ctx context.Context, userID int64, token string) (*pagination.Page[*PostView], error)

	// PageSize is the number of posts on a full feed page
	PageSize() int
}

// Repository defines the data access interface for posts
type Repository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	GetViewByID(ctx context.Context, id int64) (*PostView, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
	CountByAuthor(ctx context.Context, authorID int64) (int, error)

	// FeedPage returns one page of the posts selected by scope, newest first.
	// The count and the page slice must come from the same snapshot of the data.
	FeedPage(ctx context.Context, scope FeedScope, pageSize int, token string) (*pagination.Page[*PostView], error)
}
