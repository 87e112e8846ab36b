package memory

import (
	"context"
	"sort"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

type postRepo struct {
	s *Store
}

func (r *postRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkPostRefs(post); err != nil {
		return nil, err
	}

	stored := *post
	stored.GroupID = copyID(post.GroupID)
	stored.ID = r.s.id()
	stored.CreatedAt = r.s.now()
	r.s.posts[stored.ID] = &stored

	return copyPost(&stored), nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	return copyPost(post), nil
}

func (r *postRepo) GetViewByID(ctx context.Context, id int64) (*posts.PostView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	return r.s.view(post), nil
}

func (r *postRepo) Update(ctx context.Context, post *posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[post.ID]
	if !ok {
		return posts.ErrPostNotFound
	}
	if err := r.s.checkPostRefs(post); err != nil {
		return err
	}

	stored.Text = post.Text
	stored.Image = post.Image
	stored.GroupID = copyID(post.GroupID)
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return posts.ErrPostNotFound
	}
	delete(r.s.posts, id)
	for commentID, comment := range r.s.comments {
		if comment.PostID == id {
			delete(r.s.comments, commentID)
		}
	}
	return nil
}

func (r *postRepo) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, post := range r.s.posts {
		if post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

// FeedPage filters and orders the posts under the read lock, then pages the snapshot
func (r *postRepo) FeedPage(ctx context.Context, scope posts.FeedScope, pageSize int, token string) (*pagination.Page[*posts.PostView], error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	selected := make([]*posts.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		if r.s.inScope(post, scope) {
			selected = append(selected, post)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].CreatedAt.Equal(selected[j].CreatedAt) {
			return selected[i].CreatedAt.After(selected[j].CreatedAt)
		}
		return selected[i].ID > selected[j].ID
	})
	views := make([]*posts.PostView, len(selected))
	for i, post := range selected {
		views[i] = r.s.view(post)
	}
	r.s.mu.RUnlock()

	return pagination.Paginate[*posts.PostView](ctx, pagination.NewSliceCollection(views), pageSize, token)
}

func (s *Store) inScope(post *posts.Post, scope posts.FeedScope) bool {
	switch scope.Kind {
	case posts.FeedGroup:
		return post.GroupID != nil && *post.GroupID == scope.GroupID
	case posts.FeedAuthor:
		return post.AuthorID == scope.AuthorID
	case posts.FeedFollow:
		_, ok := s.follows[followKey{userID: scope.FollowerID, authorID: post.AuthorID}]
		return ok
	default:
		return true
	}
}

// checkPostRefs mirrors the foreign keys of the posts table. Callers hold the lock.
func (s *Store) checkPostRefs(post *posts.Post) error {
	if _, ok := s.users[post.AuthorID]; !ok {
		return users.ErrUserNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return groups.ErrGroupNotFound
		}
	}
	return nil
}

// view joins a post with its author and group. Callers hold the lock.
func (s *Store) view(post *posts.Post) *posts.PostView {
	v := &posts.PostView{
		ID:        post.ID,
		Text:      post.Text,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
		Author:    &posts.AuthorView{ID: post.AuthorID},
	}
	if author, ok := s.users[post.AuthorID]; ok {
		v.Author.Username = author.Username
		v.Author.FirstName = author.FirstName
		v.Author.LastName = author.LastName
	}
	if post.GroupID != nil {
		if group, ok := s.groups[*post.GroupID]; ok {
			v.Group = &posts.GroupRef{ID: group.ID, Title: group.Title, Slug: group.Slug}
		}
	}
	return v
}

func copyPost(post *posts.Post) *posts.Post {
	out := *post
	out.GroupID = copyID(post.GroupID)
	return &out
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
