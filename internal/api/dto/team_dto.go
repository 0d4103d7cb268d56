package dto

import (
	"time"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddTeamMemberRequest payload.
type AddTeamMemberRequest struct {
	UserID string `json:"user_id"`
}

// AddRouteRequest payload.
type AddRouteRequest struct {
	Category string `json:"category"`
}

// TeamResponse is the team wire shape.
type TeamResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMemberResponse is the membership wire shape with joined user details.
type TeamMemberResponse struct {
	TeamID    string          `json:"team_id"`
	UserID    string          `json:"user_id"`
	Role      string          `json:"role"`
	UserEmail string          `json:"user_email"`
	UserRole  domain.UserRole `json:"user_role"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTeamResponse maps a domain team.
func NewTeamResponse(t *domain.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTeamList maps a team slice.
func NewTeamList(teams []domain.Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, NewTeamResponse(&teams[i]))
	}
	return out
}

// NewTeamMemberList maps a membership slice.
func NewTeamMemberList(members []domain.TeamMember) []TeamMemberResponse {
	out := make([]TeamMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, TeamMemberResponse{
			TeamID:    m.TeamID,
			UserID:    m.UserID,
			Role:      m.Role,
			UserEmail: m.UserEmail,
			UserRole:  m.UserRole,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
