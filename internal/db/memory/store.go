// Package memory keeps every Yatube record in process memory.
// It backs local development without PostgreSQL and the handler tests.
// Data is lost when the process exits.
package memory

import (
	"sync"
	"time"

	"Yatube/internal/core/comments"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

type followKey struct {
	userID   int64
	authorID int64
}

// Store holds all tables behind one lock, so a feed page always reads a consistent snapshot
type Store struct {
	now      func() time.Time
	users    map[int64]*users.User
	follows  map[followKey]time.Time
	groups   map[int64]*groups.Group
	posts    map[int64]*posts.Post
	comments map[int64]*comments.Comment
	nextID   int64
	mu       sync.RWMutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[int64]*users.User),
		follows:  make(map[followKey]time.Time),
		groups:   make(map[int64]*groups.Group),
		posts:    make(map[int64]*posts.Post),
		comments: make(map[int64]*comments.Comment),
	}
}

// SetClock replaces the time source used for created_at values
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Users returns the user repository view of the store
func (s *Store) Users() users.UserRepository {
	return &userRepo{s: s}
}

// Follows returns the follow repository view of the store
func (s *Store) Follows() users.FollowRepository {
	return &followRepo{s: s}
}

// Groups returns the group repository view of the store
func (s *Store) Groups() groups.Repository {
	return &groupRepo{s: s}
}

// Posts returns the post repository view of the store
func (s *Store) Posts() posts.Repository {
	return &postRepo{s: s}
}

// Comments returns the comment repository view of the store
func (s *Store) Comments() comments.Repository {
	return &commentRepo{s: s}
}

// id allocates the next identifier. IDs are unique across tables. Callers hold the write lock.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}
