package posts

import (
	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/users"
)

// FeedKind selects which posts a feed contains
type FeedKind string

const (
	FeedGlobal FeedKind = "global"
	FeedGroup  FeedKind = "group"
	FeedAuthor FeedKind = "author"
	FeedFollow FeedKind = "follow"
)

// FeedScope is the filter of a feed query. Only the ID matching Kind is read.
type FeedScope struct {
	Kind       FeedKind
	GroupID    int64
	AuthorID   int64
	FollowerID int64
}

// GlobalScope selects every post
func GlobalScope() FeedScope {
	return FeedScope{Kind: FeedGlobal}
}

// GroupScope selects the posts of one group
func GroupScope(groupID int64) FeedScope {
	return FeedScope{Kind: FeedGroup, GroupID: groupID}
}

// AuthorScope selects the posts of one author
func AuthorScope(authorID int64) FeedScope {
	return FeedScope{Kind: FeedAuthor, AuthorID: authorID}
}

// FollowScope selects the posts of every author followerID follows
func FollowScope(followerID int64) FeedScope {
	return FeedScope{Kind: FeedFollow, FollowerID: followerID}
}

// Validate checks that the scope carries the ID its kind needs
func (s FeedScope) Validate() error {
	switch s.Kind {
	case FeedGlobal:
		return nil
	case FeedGroup:
		if s.GroupID <= 0 {
			return NewValidationError("group", "group feed requires a group")
		}
	case FeedAuthor:
		if s.AuthorID <= 0 {
			return NewValidationError("author", "author feed requires an author")
		}
	case FeedFollow:
		if s.FollowerID <= 0 {
			return NewValidationError("follower", "follow feed requires a user")
		}
	default:
		return NewValidationError("kind", "unknown feed kind "+string(s.Kind))
	}
	return nil
}

// GroupFeedResult is one page of a group feed together with the group
type GroupFeedResult struct {
	Group *groups.Group
	Page  *pagination.Page[*PostView]
}

// AuthorFeedResult is one page of an author's posts with the profile header data
type AuthorFeedResult struct {
	Author    *users.User
	Page      *pagination.Page[*PostView]
	PostCount int
}
