package memory

import (
	"context"
	"sort"

	"Yatube/internal/core/comments"
)

type commentRepo struct {
	s *Store
}

func (r *commentRepo) Create(ctx context.Context, comment *comments.Comment) (*comments.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return nil, comments.ErrPostNotFound
	}

	stored := *comment
	stored.ID = r.s.id()
	stored.CreatedAt = r.s.now()
	r.s.comments[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *commentRepo) ListForPost(ctx context.Context, postID int64) ([]*comments.CommentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := []*comments.CommentView{}
	for _, comment := range r.s.comments {
		if comment.PostID != postID {
			continue
		}
		view := &comments.CommentView{
			ID:        comment.ID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
			AuthorID:  comment.AuthorID,
		}
		if author, ok := r.s.users[comment.AuthorID]; ok {
			view.AuthorUsername = author.Username
		}
		list = append(list, view)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
