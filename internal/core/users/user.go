package users

import (
	"time"
)

// User is a registered Yatube account
type User struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Username     string    `json:"username" db:"username"`
	FirstName    string    `json:"firstName,omitempty" db:"first_name"`
	LastName     string    `json:"lastName,omitempty" db:"last_name"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ID           int64     `json:"id" db:"id"`
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// String returns the username
func (u *User) String() string {
	return u.Username
}

// RegisterRequest represents the signup form input
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Follow is a subscription of UserID to the posts of AuthorID
type Follow struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserID    int64     `json:"userId" db:"user_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}
