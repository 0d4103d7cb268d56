package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// PrincipalKey is the fiber locals key holding the authenticated user.
const PrincipalKey = "auth_principal"

// Middleware validates bearer tokens and loads the authenticated member.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The user record is
// reloaded so revoked accounts fail even with a live token.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.WorkspaceID != claims.WorkspaceID {
		return apperrors.NewUnauthorized("workspace mismatch")
	}

	c.Locals(PrincipalKey, user)
	return c.Next()
}

// UserFromContext retrieves the authenticated workspace member.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(PrincipalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
