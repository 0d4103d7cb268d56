package domain

import "time"

// Team is a sub-group of workspace agents that tickets can be routed to.
type Team struct {
	ID          string
	WorkspaceID string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMember links a user to a team. The only role within a team is
// currently "member"; a user may belong to multiple teams.
type TeamMember struct {
	TeamID    string
	UserID    string
	Role      string
	CreatedAt time.Time

	// Joined on listing.
	UserEmail string
	UserRole  UserRole
}

// TeamMemberRole is the only member role in use.
const TeamMemberRole = "member"

// TeamCategoryRoute declares that tickets of Category are associated with
// the team. A category may map to more than one team; the mapping is
// advisory data consulted through the routing lookup, not applied
// automatically on ticket creation.
type TeamCategoryRoute struct {
	TeamID   string
	Category string
}
