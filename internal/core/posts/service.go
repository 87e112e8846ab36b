package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/users"
)

const (
	DefaultPageSize = 10
	MaxImageLength  = 255
)

type postService struct {
	repo         Repository
	groupService groups.Service
	userService  users.UserService
	pageSize     int
}

// NewPostService creates a new post service.
// A non-positive pageSize falls back to DefaultPageSize.
func NewPostService(
	repo Repository,
	groupService groups.Service,
	userService users.UserService,
	pageSize int,
) Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &postService{
		repo:         repo,
		groupService: groupService,
		userService:  userService,
		pageSize:     pageSize,
	}
}

func (s *postService) PageSize() int {
	return s.pageSize
}

// CreatePost validates and stores a new post by req.AuthorID
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.AuthorID <= 0 {
		return nil, NewValidationError("author", "author is required")
	}

	text, image, err := s.validateContent(ctx, req.Text, req.Image, req.GroupID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, &Post{
		AuthorID: req.AuthorID,
		GroupID:  req.GroupID,
		Text:     text,
		Image:    image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("[POSTS] post created", "post_id", post.ID, "author_id", post.AuthorID)
	return post, nil
}

// GetPost returns the post with its author and group
func (s *postService) GetPost(ctx context.Context, id int64) (*PostView, error) {
	if id <= 0 {
		return nil, ErrPostNotFound
	}
	return s.repo.GetViewByID(ctx, id)
}

// UpdatePost replaces the text, group and image of a post. Only the author may edit.
func (s *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	post, err := s.authorPost(ctx, req.PostID, req.UserID)
	if err != nil {
		return nil, err
	}

	text, image, err := s.validateContent(ctx, req.Text, req.Image, req.GroupID)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = req.GroupID
	post.Image = image

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	slog.Info("[POSTS] post updated", "post_id", post.ID, "author_id", post.AuthorID)
	return post, nil
}

// DeletePost removes a post and its comments. Only the author may delete.
func (s *postService) DeletePost(ctx context.Context, id, userID int64) error {
	post, err := s.authorPost(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	slog.Info("[POSTS] post deleted", "post_id", post.ID, "author_id", post.AuthorID)
	return nil
}

// CountByAuthor returns how many posts the author has published
func (s *postService) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return s.repo.CountByAuthor(ctx, authorID)
}

// GlobalFeed returns a page of all posts
func (s *postService) GlobalFeed(ctx context.Context, token string) (*pagination.Page[*PostView], error) {
	return s.repo.FeedPage(ctx, GlobalScope(), s.pageSize, token)
}

// GroupFeed returns a page of the posts in the group identified by slug
func (s *postService) GroupFeed(ctx context.Context, slug, token string) (*GroupFeedResult, error) {
	group, err := s.groupService.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FeedPage(ctx, GroupScope(group.ID), s.pageSize, token)
	if err != nil {
		return nil, err
	}

	return &GroupFeedResult{Group: group, Page: page}, nil
}

// AuthorFeed returns a page of the posts written by username
func (s *postService) AuthorFeed(ctx context.Context, username, token string) (*AuthorFeedResult, error) {
	author, err := s.userService.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FeedPage(ctx, AuthorScope(author.ID), s.pageSize, token)
	if err != nil {
		return nil, err
	}

	return &AuthorFeedResult{
		Author:    author,
		Page:      page,
		PostCount: page.TotalItems,
	}, nil
}

// FollowFeed returns a page of the posts by authors userID follows
func (s *postService) FollowFeed(ctx context.Context, userID int64, token string) (*pagination.Page[*PostView], error) {
	if userID <= 0 {
		return nil, users.ErrUserNotFound
	}
	return s.repo.FeedPage(ctx, FollowScope(userID), s.pageSize, token)
}

func (s *postService) authorPost(ctx context.Context, postID, userID int64) (*Post, error) {
	if postID <= 0 {
		return nil, ErrPostNotFound
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	return post, nil
}

func (s *postService) validateContent(ctx context.Context, text, image string, groupID *int64) (string, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", NewValidationError("text", "post text is required")
	}

	image = strings.TrimSpace(image)
	if len(image) > MaxImageLength {
		return "", "", NewValidationError("image", fmt.Sprintf("image reference must be at most %d characters", MaxImageLength))
	}

	if groupID != nil {
		if _, err := s.groupService.GetByID(ctx, *groupID); err != nil {
			if errors.Is(err, groups.ErrGroupNotFound) {
				return "", "", NewValidationError("group", "select a valid group")
			}
			return "", "", fmt.Errorf("failed to load group: %w", err)
		}
	}

	return text, image, nil
}
