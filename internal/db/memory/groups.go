package memory

import (
	"context"
	"sort"

	"Yatube/internal/core/groups"
)

type groupRepo struct {
	s *Store
}

func (r *groupRepo) Create(ctx context.Context, group *groups.Group) (*groups.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.groups {
		if existing.Slug == group.Slug {
			return nil, groups.ErrSlugTaken
		}
	}

	stored := *group
	stored.ID = r.s.id()
	r.s.groups[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *groupRepo) GetByID(ctx context.Context, id int64) (*groups.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	group, ok := r.s.groups[id]
	if !ok {
		return nil, groups.ErrGroupNotFound
	}
	out := *group
	return &out, nil
}

func (r *groupRepo) GetBySlug(ctx context.Context, slug string) (*groups.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, group := range r.s.groups {
		if group.Slug == slug {
			out := *group
			return &out, nil
		}
	}
	return nil, groups.ErrGroupNotFound
}

func (r *groupRepo) List(ctx context.Context) ([]*groups.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]*groups.Group, 0, len(r.s.groups))
	for _, group := range r.s.groups {
		out := *group
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Title != list[j].Title {
			return list[i].Title < list[j].Title
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
