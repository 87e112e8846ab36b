package memory

import (
	"context"

	"Yatube/internal/core/users"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return nil, users.ErrUsernameTaken
		}
	}

	stored := *user
	stored.ID = r.s.id()
	stored.CreatedAt = r.s.now()
	r.s.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if user := r.s.userByName(username); user != nil {
		out := *user
		return &out, nil
	}
	return nil, users.ErrUserNotFound
}

func (r *userRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return users.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

type followRepo struct {
	s *Store
}

func (r *followRepo) Follow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return users.ErrCannotFollowSelf
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.users[userID] == nil || r.s.users[authorID] == nil {
		return users.ErrUserNotFound
	}

	key := followKey{userID: userID, authorID: authorID}
	if _, ok := r.s.follows[key]; !ok {
		r.s.follows[key] = r.s.now()
	}
	return nil
}

func (r *followRepo) Unfollow(ctx context.Context, userID, authorID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.follows, followKey{userID: userID, authorID: authorID})
	return nil
}

func (r *followRepo) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.follows[followKey{userID: userID, authorID: authorID}]
	return ok, nil
}

// userByName scans the users table. Callers hold the lock.
func (s *Store) userByName(username string) *users.User {
	for _, user := range s.users {
		if user.Username == username {
			return user
		}
	}
	return nil
}
