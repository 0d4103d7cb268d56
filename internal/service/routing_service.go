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

// RoutingService manages the category-to-team mapping. Routes are advisory:
// they tell the UI which teams handle a category, and deleting a route never
// touches tickets already routed through it.
type RoutingService struct {
	routes repository.TeamRouteRepository
	teams  repository.TeamRepository
	bus    changebus.Bus
	logger *zap.Logger
}

// RoutingDependencies bundles collaborators for the routing service.
type RoutingDependencies struct {
	RouteRepo repository.TeamRouteRepository
	TeamRepo  repository.TeamRepository
	Bus       changebus.Bus
	Logger    *zap.Logger
}

// NewRoutingService constructs the service.
func NewRoutingService(deps RoutingDependencies) *RoutingService {
	return &RoutingService{
		routes: deps.RouteRepo,
		teams:  deps.TeamRepo,
		bus:    deps.Bus,
		logger: deps.Logger,
	}
}

// AddRoute maps a category to a team. Adding an existing mapping is a no-op.
func (s *RoutingService) AddRoute(ctx context.Context, actor *domain.User, teamID, category string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return apperrors.NewValidationError("category required", nil)
	}

	// The team must belong to the actor's workspace before a route may
	// reference it.
	if _, err := s.teams.GetByID(ctx, actor.WorkspaceID, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return apperrors.MapError(err)
	}

	if err := s.routes.Add(ctx, &domain.TeamCategoryRoute{
		TeamID:   teamID,
		Category: category,
	}); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, actor.WorkspaceID, teamID)
	return nil
}

// RemoveRoute deletes a category mapping. Removing an absent mapping is a
// no-op; tickets already routed keep their team.
func (s *RoutingService) RemoveRoute(ctx context.Context, actor *domain.User, teamID, category string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.teams.GetByID(ctx, actor.WorkspaceID, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return apperrors.MapError(err)
	}
	if err := s.routes.Remove(ctx, teamID, strings.TrimSpace(category)); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actor.WorkspaceID, teamID)
	return nil
}

// TeamsForCategory resolves which teams handle a category.
func (s *RoutingService) TeamsForCategory(ctx context.Context, actor *domain.User, category string) ([]domain.Team, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	teams, err := s.routes.ListTeamsForCategory(ctx, actor.WorkspaceID, strings.TrimSpace(category))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// CategoriesForTeam lists the categories routed to a team.
func (s *RoutingService) CategoriesForTeam(ctx context.Context, actor *domain.User, teamID string) ([]string, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, actor.WorkspaceID, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return nil, apperrors.MapError(err)
	}
	categories, err := s.routes.ListCategoriesForTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *RoutingService) publish(ctx context.Context, workspaceID, teamID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, changebus.Change{
		Kind:        changebus.KindRoute,
		WorkspaceID: workspaceID,
		EntityID:    teamID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("change fan-out failed", zap.Error(err))
	}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}
