package comments

import "context"

// Repository defines the data access interface for comments
type Repository interface {
	// Create inserts a comment. A missing post returns ErrPostNotFound.
	Create(ctx context.Context, comment *Comment) (*Comment, error)

	// ListForPost returns the comments on a post, oldest first
	ListForPost(ctx context.Context, postID int64) ([]*CommentView, error)
}

// Service defines the business logic interface for comments
type Service interface {
	AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error)
	ListForPost(ctx context.Context, postID int64) ([]*CommentView, error)
}
