package dto

import (
	"time"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// CreateInvitationRequest payload.
type CreateInvitationRequest struct {
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// CreateBulkInvitationsRequest payload.
type CreateBulkInvitationsRequest struct {
	Emails []string        `json:"emails"`
	Role   domain.UserRole `json:"role"`
}

// AcceptInvitationRequest payload.
type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// InvitationResponse is the invitation wire shape. The token is only
// returned to the admin who created it; listings omit it.
type InvitationResponse struct {
	ID          string                  `json:"id"`
	WorkspaceID string                  `json:"workspace_id"`
	Email       string                  `json:"email"`
	Role        domain.UserRole         `json:"role"`
	Status      domain.InvitationStatus `json:"status"`
	Token       string                  `json:"token,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	ExpiresAt   time.Time               `json:"expires_at"`
}

// BulkInvitationsResponse reports partial success per email.
type BulkInvitationsResponse struct {
	Created      []InvitationResponse `json:"created"`
	FailedEmails []string             `json:"failed_emails"`
}

// NewInvitationResponse maps a domain invitation.
func NewInvitationResponse(inv *domain.Invitation, includeToken bool) InvitationResponse {
	resp := InvitationResponse{
		ID:          inv.ID,
		WorkspaceID: inv.WorkspaceID,
		Email:       inv.Email,
		Role:        inv.Role,
		Status:      inv.Status,
		CreatedAt:   inv.CreatedAt,
		ExpiresAt:   inv.ExpiresAt,
	}
	if includeToken {
		resp.Token = inv.Token
	}
	return resp
}

// NewInvitationList maps an invitation slice without tokens.
func NewInvitationList(invitations []domain.Invitation) []InvitationResponse {
	out := make([]InvitationResponse, 0, len(invitations))
	for i := range invitations {
		out = append(out, NewInvitationResponse(&invitations[i], false))
	}
	return out
}
