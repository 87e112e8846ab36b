package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a user. A duplicate username returns ErrUsernameTaken.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// FollowRepository defines the interface for follow persistence.
// Follow and Unfollow are idempotent.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID int64) error
	Unfollow(ctx context.Context, userID, authorID int64) error
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
}

// UserService defines the interface for account and follow business logic
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	// ChangePassword replaces the password after checking the current one.
	// A wrong current password returns ErrInvalidCredentials.
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// Follow subscribes userID to the author's posts. Following an author twice is a no-op.
	Follow(ctx context.Context, userID int64, authorUsername string) error
	Unfollow(ctx context.Context, userID int64, authorUsername string) error
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
}
