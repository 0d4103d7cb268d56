package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle: creation, listing and the
// status/priority/assignee/team mutations. Every mutation is authorized in
// the service regardless of what the caller's UI showed, and every lifecycle
// change writes its audit comment in the same transaction as the primary
// write.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	teams      repository.TeamRepository
	visibility *VisibilityFilter
	bus        changebus.Bus
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	TeamRepo    repository.TeamRepository
	Visibility  *VisibilityFilter
	Bus         changebus.Bus
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

// TicketListFilter describes listing filters on top of the actor's
// workspace scope.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	AssigneeIDs []string
	TeamIDs     []string
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		teams:      deps.TeamRepo,
		visibility: deps.Visibility,
		bus:        deps.Bus,
		logger:     deps.Logger,
	}
}

// CreateTicket creates a ticket for any authenticated workspace member.
// Status always starts at new.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authenticated member required")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLen {
		return nil, apperrors.NewValidationError("title too long", map[string]any{"max": domain.TitleMaxLen})
	}
	if utf8.RuneCountInString(description) > domain.DescriptionMaxLen {
		return nil, apperrors.NewValidationError("description too long", map[string]any{"max": domain.DescriptionMaxLen})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		WorkspaceID: actor.WorkspaceID,
		CreatedByID: actor.ID,
		Title:       title,
		Description: description,
		Category:    strings.TrimSpace(input.Category),
		Status:      domain.TicketStatusNew,
		Priority:    priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, changebus.Change{
		Kind:        changebus.KindTicket,
		WorkspaceID: ticket.WorkspaceID,
		TicketID:    ticket.ID,
		EntityID:    ticket.ID,
	})
	return ticket, nil
}

// GetTicket fetches a ticket with its comment thread, projected through the
// viewer's visibility.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	if actor == nil {
		return nil, nil, apperrors.NewUnauthorized("authenticated member required")
	}
	ticket, err := s.getScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, actor.WorkspaceID, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, s.visibility.VisibleComments(actor.Role, comments), nil
}

// ListTickets returns workspace tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authenticated member required")
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		WorkspaceID: actor.WorkspaceID,
		AssigneeIDs: filter.AssigneeIDs,
		TeamIDs:     filter.TeamIDs,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Stats aggregates workspace ticket counts for the dashboard.
func (s *TicketService) Stats(ctx context.Context, actor *domain.User) (*domain.TicketStats, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authenticated member required")
	}
	stats, err := s.tickets.Stats(ctx, actor.WorkspaceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// ChangeStatus moves the ticket to newStatus and records the audit comment.
// A change to the current status still succeeds and still writes its audit
// comment; the source behaves the same way and callers rely on the trail.
func (s *TicketService) ChangeStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	ticket, err := s.getScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("status transition not allowed", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	ticket.Status = newStatus
	audit := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  fmt.Sprintf("Status changed to %s", newStatus),
		Type:     domain.CommentTypeStatusChange,
	}
	return s.applyMutation(ctx, ticket, audit)
}

// ChangePriority updates ticket priority and records the audit comment.
func (s *TicketService) ChangePriority(ctx context.Context, actor *domain.User, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}

	ticket, err := s.getScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.Priority = newPriority
	audit := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  fmt.Sprintf("Priority changed to %s", newPriority),
		Type:     domain.CommentTypeSystem,
	}
	return s.applyMutation(ctx, ticket, audit)
}

// ChangeAssignee assigns the ticket to an agent, or unassigns it when
// assigneeID is nil. The assignee must be a workspace member other than an
// end user.
func (s *TicketService) ChangeAssignee(ctx context.Context, actor *domain.User, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	ticket, err := s.getScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	content := "Ticket unassigned"
	if assigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *assigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assignee not found", map[string]any{"user_id": *assigneeID})
			}
			return nil, apperrors.MapError(err)
		}
		if assignee.WorkspaceID != actor.WorkspaceID {
			return nil, apperrors.NewValidationError("assignee outside workspace", map[string]any{"user_id": *assigneeID})
		}
		if assignee.Role == domain.RoleEndUser {
			return nil, apperrors.NewValidationError("assignee must be an agent or admin", map[string]any{"user_id": *assigneeID})
		}
		content = fmt.Sprintf("Ticket assigned to %s", assignee.Email)
	}

	ticket.AssigneeID = assigneeID
	audit := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  content,
		Type:     domain.CommentTypeSystem,
	}
	return s.applyMutation(ctx, ticket, audit)
}

// ChangeTeam routes the ticket to a team, or removes it from its team when
// teamID is nil.
func (s *TicketService) ChangeTeam(ctx context.Context, actor *domain.User, ticketID string, teamID *string) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	ticket, err := s.getScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	content := "Ticket removed from team"
	if teamID != nil {
		team, err := s.teams.GetByID(ctx, actor.WorkspaceID, *teamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("team not found", map[string]any{"team_id": *teamID})
			}
			return nil, apperrors.MapError(err)
		}
		content = fmt.Sprintf("Ticket assigned to team: %s", team.Name)
	}

	ticket.TeamID = teamID
	audit := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  content,
		Type:     domain.CommentTypeSystem,
	}
	return s.applyMutation(ctx, ticket, audit)
}

// AddComment appends a reply, or an internal note when the actor is staff.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, content string, isInternalNote bool) (*domain.Comment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authenticated member required")
	}
	if isInternalNote && !actor.IsStaff() {
		return nil, apperrors.NewForbidden("internal notes require agent or admin role")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content required", nil)
	}

	ticket, err := s.getScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	commentType := domain.CommentTypeReply
	if isInternalNote {
		commentType = domain.CommentTypeNote
	}
	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  content,
		Type:     commentType,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	comment.AuthorEmail = actor.Email

	s.publish(ctx, changebus.Change{
		Kind:        changebus.KindComment,
		WorkspaceID: ticket.WorkspaceID,
		TicketID:    ticket.ID,
		EntityID:    comment.ID,
	})
	return comment, nil
}

// applyMutation persists the ticket with its audit comment atomically and
// fans out one change signal per affected entity. The two signals may reach
// subscribers in any order; each is only a refetch trigger.
func (s *TicketService) applyMutation(ctx context.Context, ticket *domain.Ticket, audit *domain.Comment) (*domain.Ticket, error) {
	if err := s.tickets.UpdateWithAudit(ctx, ticket, audit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, changebus.Change{
		Kind:        changebus.KindTicket,
		WorkspaceID: ticket.WorkspaceID,
		TicketID:    ticket.ID,
		EntityID:    ticket.ID,
	})
	s.publish(ctx, changebus.Change{
		Kind:        changebus.KindComment,
		WorkspaceID: ticket.WorkspaceID,
		TicketID:    ticket.ID,
		EntityID:    audit.ID,
	})
	return ticket, nil
}

func (s *TicketService) getScoped(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, actor.WorkspaceID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// publish is fire-and-forget: fan-out failures are logged, never surfaced
// to the mutating caller.
func (s *TicketService) publish(ctx context.Context, change changebus.Change) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, change); err != nil && s.logger != nil {
		s.logger.Warn("change fan-out failed", zap.String("kind", string(change.Kind)), zap.Error(err))
	}
}

func requireStaff(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	if !actor.IsStaff() {
		return apperrors.NewForbidden("agent or admin role required")
	}
	return nil
}
