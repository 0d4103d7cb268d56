package domain

import "time"

// UserRole enumerates workspace member roles. Roles are immutable after
// creation; there is no role-change operation.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleAgent   UserRole = "agent"
	RoleEndUser UserRole = "end_user"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleEndUser:
		return true
	}
	return false
}

// User is a workspace member. Email is unique within a workspace.
type User struct {
	ID           string
	WorkspaceID  string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user may perform agent-level operations.
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleAgent)
}
