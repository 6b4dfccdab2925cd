package models

// Group represents a named set of members that share expenses.
// Membership is fixed after creation; every member ID must reference
// an existing User.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates"). Unique.
	Name string

	// Members is the list of member user IDs. Order carries no meaning.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
