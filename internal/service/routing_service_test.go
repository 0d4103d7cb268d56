package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

func newRoutingFixture() (*RoutingService, *MockTeamRouteRepository, *MockTeamRepository, *recordingBus) {
	routeRepo := new(MockTeamRouteRepository)
	teamRepo := new(MockTeamRepository)
	bus := &recordingBus{}
	svc := NewRoutingService(RoutingDependencies{
		RouteRepo: routeRepo,
		TeamRepo:  teamRepo,
		Bus:       bus,
		Logger:    zap.NewNop(),
	})
	return svc, routeRepo, teamRepo, bus
}

func adminUser() *domain.User {
	return &domain.User{ID: "admin-1", WorkspaceID: "ws-1", Email: "admin@acme.test", Role: domain.RoleAdmin}
}

func TestRoutingService_AddRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, routeRepo, teamRepo, _ := newRoutingFixture()
		teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
		routeRepo.On("Add", ctx, mock.AnythingOfType("*domain.TeamCategoryRoute")).Return(nil)

		err := svc.AddRoute(ctx, adminUser(), "team-1", "billing")
		assert.NoError(t, err)
		routeRepo.AssertExpectations(t)
	})

	t.Run("unknown team rejected", func(t *testing.T) {
		svc, _, teamRepo, _ := newRoutingFixture()
		teamRepo.On("GetByID", ctx, "ws-1", "ghost").Return(nil, pgx.ErrNoRows)

		err := svc.AddRoute(ctx, adminUser(), "ghost", "billing")
		assertDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("empty category rejected", func(t *testing.T) {
		svc, _, _, _ := newRoutingFixture()
		err := svc.AddRoute(ctx, adminUser(), "team-1", "  ")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("agent forbidden", func(t *testing.T) {
		svc, _, _, _ := newRoutingFixture()
		err := svc.AddRoute(ctx, agentUser(), "team-1", "billing")
		assertDomainCode(t, err, "FORBIDDEN")
	})
}

func TestRoutingService_RemoveRoute(t *testing.T) {
	ctx := context.Background()

	// The repository treats a missing route as a no-op, so removal of an
	// absent mapping succeeds.
	svc, routeRepo, teamRepo, _ := newRoutingFixture()
	teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
	routeRepo.On("Remove", ctx, "team-1", "billing").Return(nil)

	err := svc.RemoveRoute(ctx, adminUser(), "team-1", "billing")
	assert.NoError(t, err)
	routeRepo.AssertExpectations(t)
}

func TestRoutingService_TeamsForCategory(t *testing.T) {
	ctx := context.Background()

	svc, routeRepo, _, _ := newRoutingFixture()
	teams := []domain.Team{
		{ID: "team-1", Name: "Billing"},
		{ID: "team-2", Name: "Billing Escalations"},
	}
	routeRepo.On("ListTeamsForCategory", ctx, "ws-1", "billing").Return(teams, nil)

	got, err := svc.TeamsForCategory(ctx, agentUser(), "billing")
	assert.NoError(t, err)
	// A category may map to more than one team.
	assert.Len(t, got, 2)
}

func TestRoutingService_CategoriesForTeam(t *testing.T) {
	ctx := context.Background()

	svc, routeRepo, teamRepo, _ := newRoutingFixture()
	teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
	routeRepo.On("ListCategoriesForTeam", ctx, "team-1").Return([]string{"billing", "refunds"}, nil)

	got, err := svc.CategoriesForTeam(ctx, agentUser(), "team-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"billing", "refunds"}, got)
}
