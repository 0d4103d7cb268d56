package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/helpdesk-service/internal/domain"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// RequireRole ensures the caller has one of the allowed roles. The route
// gate is a convenience only; services re-check roles on every mutation.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[user.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff allows agents and admins through.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.RoleAdmin, domain.RoleAgent)
}

// RequireMember allows any authenticated workspace member through.
func RequireMember() fiber.Handler {
	return RequireRole()
}
