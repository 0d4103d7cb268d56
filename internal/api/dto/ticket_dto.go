package dto

import (
	"time"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// UpdateAssigneeRequest payload. A null assignee unassigns.
type UpdateAssigneeRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// UpdateTeamRequest payload. A null team removes the ticket from its team.
type UpdateTeamRequest struct {
	TeamID *string `json:"team_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content        string `json:"content"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// TicketResponse is the ticket wire shape.
type TicketResponse struct {
	ID          string                `json:"id"`
	WorkspaceID string                `json:"workspace_id"`
	CreatedByID string                `json:"created_by_id"`
	AssigneeID  *string               `json:"assignee_id"`
	TeamID      *string               `json:"team_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category,omitempty"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CommentResponse is the comment wire shape.
type CommentResponse struct {
	ID          string             `json:"id"`
	TicketID    string             `json:"ticket_id"`
	AuthorID    string             `json:"author_id"`
	AuthorEmail string             `json:"author_email,omitempty"`
	Content     string             `json:"content"`
	Type        domain.CommentType `json:"type"`
	CreatedAt   time.Time          `json:"created_at"`
}

// TicketDetailResponse bundles a ticket with its visible thread.
type TicketDetailResponse struct {
	Ticket   TicketResponse    `json:"ticket"`
	Comments []CommentResponse `json:"comments"`
}

// TicketStatsResponse aggregates workspace dashboard counts.
type TicketStatsResponse struct {
	Total          int `json:"total"`
	New            int `json:"new"`
	Open           int `json:"open"`
	Pending        int `json:"pending"`
	Solved         int `json:"solved"`
	Closed         int `json:"closed"`
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		CreatedByID: t.CreatedByID,
		AssigneeID:  t.AssigneeID,
		TeamID:      t.TeamID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		TicketID:    c.TicketID,
		AuthorID:    c.AuthorID,
		AuthorEmail: c.AuthorEmail,
		Content:     c.Content,
		Type:        c.Type,
		CreatedAt:   c.CreatedAt,
	}
}

// NewTicketList maps a ticket slice.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewCommentList maps a comment slice.
func NewCommentList(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}

// NewTicketStatsResponse maps workspace stats.
func NewTicketStatsResponse(s *domain.TicketStats) TicketStatsResponse {
	return TicketStatsResponse{
		Total:          s.Total,
		New:            s.New,
		Open:           s.Open,
		Pending:        s.Pending,
		Solved:         s.Solved,
		Closed:         s.Closed,
		HighPriority:   s.HighPriority,
		MediumPriority: s.MediumPriority,
		LowPriority:    s.LowPriority,
	}
}
