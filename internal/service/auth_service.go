package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// AuthService handles workspace bootstrap and credential login.
type AuthService struct {
	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
	tokens     *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	WorkspaceRepo repository.WorkspaceRepository
	UserRepo      repository.UserRepository
	Tokens        *auth.TokenManager
	Logger        *zap.Logger
	BcryptCost    int
}

// AuthResult is a successful login or registration outcome.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		workspaces: deps.WorkspaceRepo,
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		logger:     deps.Logger,
		bcryptCost: cost,
	}
}

// Register creates a workspace and its first admin in one request. Every
// later member arrives through an invitation instead.
func (s *AuthService) Register(ctx context.Context, workspaceName, slug, email, password string) (*AuthResult, error) {
	workspaceName = strings.TrimSpace(workspaceName)
	slug = strings.ToLower(strings.TrimSpace(slug))
	email = strings.ToLower(strings.TrimSpace(email))
	if workspaceName == "" || slug == "" {
		return nil, apperrors.NewValidationError("workspace name and slug required", nil)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	if _, err := s.workspaces.GetBySlug(ctx, slug); err == nil {
		return nil, apperrors.NewConflict("workspace slug already taken", map[string]any{"slug": slug})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	workspace := &domain.Workspace{Name: workspaceName, Slug: slug}
	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		WorkspaceID:  workspace.ID,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("workspace registered",
		zap.String("workspace_id", workspace.ID),
		zap.String("slug", slug),
	)
	return s.issue(user)
}

// Login authenticates by email and password. Email is the login key across
// workspaces; the issued token carries the user's workspace scope.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// ListAgents returns the workspace's staff, used for assignee pickers.
func (s *AuthService) ListAgents(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	agents, err := s.users.ListAgents(ctx, actor.WorkspaceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
