package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
)

// MockTicketRepository mocks the TicketRepository interface
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateWithAudit(ctx context.Context, ticket *domain.Ticket, audit *domain.Comment) error {
	args := m.Called(ctx, ticket, audit)
	return args.Error(0)
}

func (m *MockTicketRepository) Stats(ctx context.Context, workspaceID string) (*domain.TicketStats, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketStats), args.Error(1)
}

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]domain.Comment, error) {
	args := m.Called(ctx, workspaceID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListAgents(ctx context.Context, workspaceID string) ([]domain.User, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockTeamRepository mocks the TeamRepository interface
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, workspaceID, id string) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Team, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, workspaceID string) ([]domain.Team, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockTeamRepository) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamMember), args.Error(1)
}

// MockTeamRouteRepository mocks the TeamRouteRepository interface
type MockTeamRouteRepository struct {
	mock.Mock
}

func (m *MockTeamRouteRepository) Add(ctx context.Context, route *domain.TeamCategoryRoute) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *MockTeamRouteRepository) Remove(ctx context.Context, teamID, category string) error {
	args := m.Called(ctx, teamID, category)
	return args.Error(0)
}

func (m *MockTeamRouteRepository) ListTeamsForCategory(ctx context.Context, workspaceID, category string) ([]domain.Team, error) {
	args := m.Called(ctx, workspaceID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

func (m *MockTeamRouteRepository) ListCategoriesForTeam(ctx context.Context, teamID string) ([]string, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockInvitationRepository mocks the InvitationRepository interface
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListPending(ctx context.Context, workspaceID string) ([]domain.Invitation, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Delete(ctx context.Context, workspaceID, id string) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockInvitationRepository) Redeem(ctx context.Context, invitation *domain.Invitation, user *domain.User) error {
	args := m.Called(ctx, invitation, user)
	return args.Error(0)
}

func (m *MockInvitationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSearchRepository mocks the SearchRepository interface
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) SearchTickets(ctx context.Context, workspaceID, query string, includeNotes bool, limit int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, workspaceID, query, includeNotes, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

// MockMailer mocks the Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendInvitation(ctx context.Context, email, acceptURL string) error {
	args := m.Called(ctx, email, acceptURL)
	return args.Error(0)
}

// recordingBus captures published changes for assertions. Service tests
// only care about what was published, not delivery.
type recordingBus struct {
	mu      sync.Mutex
	changes []changebus.Change
}

func (b *recordingBus) Publish(_ context.Context, change changebus.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
	return nil
}

func (b *recordingBus) SubscribeWorkspace(context.Context, string) (changebus.Subscription, error) {
	return nil, nil
}

func (b *recordingBus) SubscribeTicket(context.Context, string) (changebus.Subscription, error) {
	return nil, nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) kinds() []changebus.Kind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]changebus.Kind, 0, len(b.changes))
	for _, c := range b.changes {
		out = append(out, c.Kind)
	}
	return out
}
