package domain

import "time"

// InvitationStatus tracks the single-use token lifecycle.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation provisions a new workspace member with a pre-assigned role.
// The token is single-use: redemption is valid only while the status is
// pending and the expiry has not passed.
type Invitation struct {
	ID          string
	WorkspaceID string
	InvitedByID string
	Email       string
	Role        UserRole
	Token       string
	Status      InvitationStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
}
