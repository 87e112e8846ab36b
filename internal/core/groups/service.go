package groups

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength = 200
	MaxSlugLength  = 200
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

type groupService struct {
	repo Repository
}

// NewGroupService creates a new group service
func NewGroupService(repo Repository) Service {
	return &groupService{repo: repo}
}

// CreateGroup validates and stores a new group.
// Groups are created by operators (seed data, admin tooling), not by site visitors.
func (s *groupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Description = strings.TrimSpace(req.Description)

	if req.Title == "" {
		return nil, NewValidationError("title", "title is required")
	}
	if utf8.RuneCountInString(req.Title) > MaxTitleLength {
		return nil, NewValidationError("title", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	if !validSlug(req.Slug) {
		return nil, NewValidationError("slug", "slug may contain only lowercase letters, digits, hyphens and underscores")
	}

	return s.repo.Create(ctx, &Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
}

// GetByID retrieves a group by ID
func (s *groupService) GetByID(ctx context.Context, id int64) (*Group, error) {
	if id <= 0 {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a group by its slug. Malformed slugs are reported as not found.
func (s *groupService) GetBySlug(ctx context.Context, slug string) (*Group, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !validSlug(slug) {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// List returns all groups
func (s *groupService) List(ctx context.Context) ([]*Group, error) {
	return s.repo.List(ctx)
}

func validSlug(slug string) bool {
	return slug != "" && len(slug) <= MaxSlugLength && slugRegex.MatchString(slug)
}
