package posts

import (
	"time"
	"unicode/utf8"
)

// shortTextLength is the number of characters shown by Post.String
const shortTextLength = 15

// Post is a single publication. GroupID is nil for posts outside any group.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	GroupID   *int64    `json:"groupId,omitempty" db:"group_id"`
	Text      string    `json:"text" db:"text"`
	Image     string    `json:"image,omitempty" db:"image"`
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// String returns the first 15 characters of the post text
func (p *Post) String() string {
	return truncate(p.Text, shortTextLength)
}

// CreatePostRequest represents input for creating a new post
type CreatePostRequest struct {
	GroupID  *int64 `json:"groupId,omitempty"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
	AuthorID int64  `json:"-"`
}

// UpdatePostRequest represents input for editing a post.
// UserID is the editor and must be the post author.
type UpdatePostRequest struct {
	GroupID *int64 `json:"groupId,omitempty"`
	Text    string `json:"text"`
	Image   string `json:"image,omitempty"`
	PostID  int64  `json:"-"`
	UserID  int64  `json:"-"`
}

// PostView is a post joined with its author and group, as shown in feeds
type PostView struct {
	CreatedAt time.Time   `json:"createdAt"`
	Author    *AuthorView `json:"author"`
	Group     *GroupRef   `json:"group,omitempty"`
	Text      string      `json:"text"`
	Image     string      `json:"image,omitempty"`
	ID        int64       `json:"id"`
}

// Short returns the first 15 characters of the post text
func (v *PostView) Short() string {
	return truncate(v.Text, shortTextLength)
}

// AuthorView represents author information in post views
type AuthorView struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	ID        int64  `json:"id"`
}

// FullName returns "First Last", falling back to the username
func (a *AuthorView) FullName() string {
	name := a.FirstName
	if a.LastName != "" {
		if name != "" {
			name += " "
		}
		name += a.LastName
	}
	if name == "" {
		return a.Username
	}
	return name
}

// GroupRef represents minimal group info in post views
type GroupRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	ID    int64  `json:"id"`
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
