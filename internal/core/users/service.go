package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	MaxPasswordLength = 72
)

// Usernames are lowercase letters, digits, and . _ -
var usernameRegex = regexp.MustCompile(`^[a-z0-9_.-]+$`)

type userService struct {
	userRepo   UserRepository
	followRepo FollowRepository
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, followRepo FollowRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		followRepo: followRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// NewUserServiceWithCost creates a user service with a custom bcrypt cost.
// Tests use bcrypt.MinCost to keep hashing fast.
func NewUserServiceWithCost(userRepo UserRepository, followRepo FollowRepository, cost int) UserService {
	return &userService{
		userRepo:   userRepo,
		followRepo: followRepo,
		bcryptCost: cost,
	}
}

// Register validates the signup request, hashes the password and creates the user
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Username = normalizeUsername(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("[USERS] account registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks a username/password pair
func (s *userService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Info("[USERS] failed login", "username", username)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// ChangePassword verifies oldPassword and stores a hash of newPassword
func (s *userService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("[USERS] password changed", "user_id", user.ID)
	return nil
}

// Follow subscribes userID to the author's posts
func (s *userService) Follow(ctx context.Context, userID int64, authorUsername string) error {
	author, err := s.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return ErrCannotFollowSelf
	}

	if err := s.followRepo.Follow(ctx, userID, author.ID); err != nil {
		return fmt.Errorf("failed to follow %s: %w", author.Username, err)
	}
	return nil
}

// Unfollow removes a subscription. Unfollowing an author that is not followed is a no-op.
func (s *userService) Unfollow(ctx context.Context, userID int64, authorUsername string) error {
	author, err := s.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}

	if err := s.followRepo.Unfollow(ctx, userID, author.ID); err != nil {
		return fmt.Errorf("failed to unfollow %s: %w", author.Username, err)
	}
	return nil
}

// IsFollowing reports whether userID follows authorID
func (s *userService) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID <= 0 || authorID <= 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.IsFollowing(ctx, userID, authorID)
}

func (s *userService) validateRegisterRequest(req RegisterRequest) error {
	if req.Username == "" {
		return NewValidationError("username", "username is required")
	}
	if len(req.Username) > MaxUsernameLength {
		return NewValidationError("username", fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !usernameRegex.MatchString(req.Username) {
		return NewValidationError("username", "username may contain only letters, digits and . _ -")
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return NewValidationError("email", "enter a valid email address")
		}
	}

	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength))
	}
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
