package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MaxCommentLength is the maximum comment length in characters
const MaxCommentLength = 10000

type commentService struct {
	repo Repository
}

// NewCommentService creates a new comment service
func NewCommentService(repo Repository) Service {
	return &commentService{repo: repo}
}

// AddComment validates and stores a comment on a post
func (s *commentService) AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error) {
	if req.AuthorID <= 0 {
		return nil, ErrNotAuthenticated
	}
	if req.PostID <= 0 {
		return nil, ErrPostNotFound
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrContentEmpty
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, ErrContentTooLong
	}

	comment, err := s.repo.Create(ctx, &Comment{
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
		Text:     text,
	})
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	slog.Info("[COMMENTS] comment added",
		"comment_id", comment.ID,
		"post_id", comment.PostID,
		"author_id", comment.AuthorID,
	)
	return comment, nil
}

// ListForPost returns the comments on a post, oldest first
func (s *commentService) ListForPost(ctx context.Context, postID int64) ([]*CommentView, error) {
	if postID <= 0 {
		return []*CommentView{}, nil
	}

	list, err := s.repo.ListForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if list == nil {
		list = []*CommentView{}
	}
	return list, nil
}
