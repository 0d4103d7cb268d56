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

func newTeamFixture() (*TeamService, *MockTeamRepository, *MockUserRepository, *recordingBus) {
	teamRepo := new(MockTeamRepository)
	userRepo := new(MockUserRepository)
	bus := &recordingBus{}
	svc := NewTeamService(TeamDependencies{
		TeamRepo: teamRepo,
		UserRepo: userRepo,
		Bus:      bus,
		Logger:   zap.NewNop(),
	})
	return svc, teamRepo, userRepo, bus
}

func TestTeamService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates team", func(t *testing.T) {
		svc, teamRepo, _, _ := newTeamFixture()
		teamRepo.On("Create", ctx, mock.AnythingOfType("*domain.Team")).Return(nil)

		team, err := svc.Create(ctx, adminUser(), "Billing", "payment issues")
		assert.NoError(t, err)
		assert.Equal(t, "ws-1", team.WorkspaceID)
		assert.Equal(t, "Billing", team.Name)
	})

	t.Run("agent forbidden", func(t *testing.T) {
		svc, _, _, _ := newTeamFixture()
		_, err := svc.Create(ctx, agentUser(), "Billing", "")
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("blank name rejected", func(t *testing.T) {
		svc, _, _, _ := newTeamFixture()
		_, err := svc.Create(ctx, adminUser(), "   ", "")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestTeamService_AddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("staff member added", func(t *testing.T) {
		svc, teamRepo, userRepo, _ := newTeamFixture()
		teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
		userRepo.On("GetByID", ctx, "agent-1").Return(agentUser(), nil)
		teamRepo.On("AddMember", ctx, mock.MatchedBy(func(m *domain.TeamMember) bool {
			return m.TeamID == "team-1" && m.UserID == "agent-1" && m.Role == domain.TeamMemberRole
		})).Return(nil)

		err := svc.AddMember(ctx, adminUser(), "team-1", "agent-1")
		assert.NoError(t, err)
		teamRepo.AssertExpectations(t)
	})

	t.Run("end user cannot join", func(t *testing.T) {
		svc, teamRepo, userRepo, _ := newTeamFixture()
		teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
		userRepo.On("GetByID", ctx, "enduser-1").Return(endUser(), nil)

		err := svc.AddMember(ctx, adminUser(), "team-1", "enduser-1")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("cross workspace user rejected", func(t *testing.T) {
		svc, teamRepo, userRepo, _ := newTeamFixture()
		outsider := &domain.User{ID: "agent-9", WorkspaceID: "ws-2", Role: domain.RoleAgent}
		teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
		userRepo.On("GetByID", ctx, "agent-9").Return(outsider, nil)

		err := svc.AddMember(ctx, adminUser(), "team-1", "agent-9")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestTeamService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, teamRepo, _, _ := newTeamFixture()
		teamRepo.On("Delete", ctx, "ws-1", "team-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, adminUser(), "team-1"))
	})

	t.Run("missing team", func(t *testing.T) {
		svc, teamRepo, _, _ := newTeamFixture()
		teamRepo.On("Delete", ctx, "ws-1", "ghost").Return(pgx.ErrNoRows)

		err := svc.Delete(ctx, adminUser(), "ghost")
		assertDomainCode(t, err, "NOT_FOUND")
	})
}

func TestTeamService_RemoveMember_NoOpForNonMember(t *testing.T) {
	ctx := context.Background()
	svc, teamRepo, _, _ := newTeamFixture()
	teamRepo.On("GetByID", ctx, "ws-1", "team-1").Return(&domain.Team{ID: "team-1", WorkspaceID: "ws-1"}, nil)
	teamRepo.On("RemoveMember", ctx, "team-1", "stranger").Return(nil)

	assert.NoError(t, svc.RemoveMember(ctx, adminUser(), "team-1", "stranger"))
}
