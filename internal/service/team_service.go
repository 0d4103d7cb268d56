package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// TeamService manages teams and their membership.
type TeamService struct {
	teams  repository.TeamRepository
	users  repository.UserRepository
	bus    changebus.Bus
	logger *zap.Logger
}

// TeamDependencies bundles collaborators for the team service.
type TeamDependencies struct {
	TeamRepo repository.TeamRepository
	UserRepo repository.UserRepository
	Bus      changebus.Bus
	Logger   *zap.Logger
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		teams:  deps.TeamRepo,
		users:  deps.UserRepo,
		bus:    deps.Bus,
		logger: deps.Logger,
	}
}

// Create adds a team to the actor's workspace.
func (s *TeamService) Create(ctx context.Context, actor *domain.User, name, description string) (*domain.Team, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("team name required", nil)
	}

	team := &domain.Team{
		WorkspaceID: actor.WorkspaceID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, changebus.KindTeam, actor.WorkspaceID, team.ID)
	return team, nil
}

// Delete removes a team. Tickets routed to it keep a dangling reference
// cleared by the database's ON DELETE SET NULL.
func (s *TeamService) Delete(ctx context.Context, actor *domain.User, teamID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, actor.WorkspaceID, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, changebus.KindTeam, actor.WorkspaceID, teamID)
	return nil
}

// List returns the workspace's teams.
func (s *TeamService) List(ctx context.Context, actor *domain.User) ([]domain.Team, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	teams, err := s.teams.List(ctx, actor.WorkspaceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// AddMember adds a staff user to a team. End users cannot join teams.
// Adding an existing member is a no-op.
func (s *TeamService) AddMember(ctx context.Context, actor *domain.User, teamID, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	team, err := s.teams.GetByID(ctx, actor.WorkspaceID, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("user not found", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if user.WorkspaceID != actor.WorkspaceID {
		return apperrors.NewValidationError("user outside workspace", map[string]any{"user_id": userID})
	}
	if !user.IsStaff() {
		return apperrors.NewValidationError("team members must be agents or admins", map[string]any{"user_id": userID})
	}

	if err := s.teams.AddMember(ctx, &domain.TeamMember{
		TeamID: team.ID,
		UserID: user.ID,
		Role:   domain.TeamMemberRole,
	}); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, changebus.KindTeamMember, actor.WorkspaceID, team.ID)
	return nil
}

// RemoveMember drops a user from a team. Removing a non-member is a no-op.
func (s *TeamService) RemoveMember(ctx context.Context, actor *domain.User, teamID, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.teams.GetByID(ctx, actor.WorkspaceID, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return apperrors.MapError(err)
	}
	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, changebus.KindTeamMember, actor.WorkspaceID, teamID)
	return nil
}

// ListMembers returns a team's membership with joined user details.
func (s *TeamService) ListMembers(ctx context.Context, actor *domain.User, teamID string) ([]domain.TeamMember, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, actor.WorkspaceID, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return nil, apperrors.MapError(err)
	}
	members, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

func (s *TeamService) publish(ctx context.Context, kind changebus.Kind, workspaceID, entityID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, changebus.Change{
		Kind:        kind,
		WorkspaceID: workspaceID,
		EntityID:    entityID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("change fan-out failed", zap.Error(err))
	}
}
