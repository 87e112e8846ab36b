package comments

import "time"

// Comment is a reply left under a post
type Comment struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Text      string    `json:"text" db:"text"`
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// CommentView is a comment with its author's username, as listed under a post
type CommentView struct {
	CreatedAt      time.Time `json:"createdAt"`
	Text           string    `json:"text"`
	AuthorUsername string    `json:"authorUsername"`
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"authorId"`
}

// AddCommentRequest represents the comment form input
type AddCommentRequest struct {
	Text     string `json:"text"`
	PostID   int64  `json:"-"`
	AuthorID int64  `json:"-"`
}
