package groups

// Group is a topic community that posts can optionally belong to
type Group struct {
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
	ID          int64  `json:"id" db:"id"`
}

// String returns the group title
func (g *Group) String() string {
	return g.Title
}

// CreateGroupRequest represents the input for creating a group
type CreateGroupRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}
