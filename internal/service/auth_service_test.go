package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/domain"
)

func newAuthFixture() (*AuthService, *MockUserRepository, *mockWorkspaceRepository) {
	workspaceRepo := new(mockWorkspaceRepository)
	userRepo := new(MockUserRepository)
	svc := NewAuthService(AuthDependencies{
		WorkspaceRepo: workspaceRepo,
		UserRepo:      userRepo,
		Tokens:        auth.NewTokenManager("test-secret", 60),
		Logger:        zap.NewNop(),
		BcryptCost:    bcrypt.MinCost,
	})
	return svc, userRepo, workspaceRepo
}

type mockWorkspaceRepository struct {
	mock.Mock
}

func (m *mockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *mockWorkspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *mockWorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps workspace with admin", func(t *testing.T) {
		svc, userRepo, workspaceRepo := newAuthFixture()
		workspaceRepo.On("GetBySlug", ctx, "acme").Return(nil, pgx.ErrNoRows)
		workspaceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Workspace).ID = "ws-1"
			}).
			Return(nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		result, err := svc.Register(ctx, "Acme", "acme", "founder@acme.test", "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, result.User.Role)
		assert.Equal(t, "ws-1", result.User.WorkspaceID)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("taken slug rejected", func(t *testing.T) {
		svc, _, workspaceRepo := newAuthFixture()
		workspaceRepo.On("GetBySlug", ctx, "acme").Return(&domain.Workspace{ID: "ws-1", Slug: "acme"}, nil)

		_, err := svc.Register(ctx, "Acme", "acme", "founder@acme.test", "s3cret-pass")
		assertDomainCode(t, err, "CONFLICT")
	})

	t.Run("weak password rejected", func(t *testing.T) {
		svc, _, _ := newAuthFixture()
		_, err := svc.Register(ctx, "Acme", "acme", "founder@acme.test", "short")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret-pass", bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &domain.User{ID: "u-1", WorkspaceID: "ws-1", Email: "agent@acme.test", PasswordHash: hash, Role: domain.RoleAgent}

	t.Run("success", func(t *testing.T) {
		svc, userRepo, _ := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "agent@acme.test").Return(stored, nil)

		result, err := svc.Login(ctx, "Agent@Acme.Test", "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, "u-1", result.User.ID)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "agent@acme.test").Return(stored, nil)

		_, err := svc.Login(ctx, "agent@acme.test", "wrong")
		assertDomainCode(t, err, "UNAUTHORIZED")
	})

	t.Run("unknown email indistinguishable from wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "ghost@acme.test").Return(nil, pgx.ErrNoRows)

		_, err := svc.Login(ctx, "ghost@acme.test", "s3cret-pass")
		assertDomainCode(t, err, "UNAUTHORIZED")
	})
}
