package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/helpdesk-service/internal/api/dto"
	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/service"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// TeamsHandler manages team, membership and routing endpoints.
type TeamsHandler struct {
	teams   *service.TeamService
	routing *service.RoutingService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService, routingService *service.RoutingService) *TeamsHandler {
	return &TeamsHandler{teams: teamService, routing: routingService}
}

// CreateTeam POST /teams.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.teams.Create(c.UserContext(), user, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// ListTeams GET /teams.
func (h *TeamsHandler) ListTeams(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	teams, err := h.teams.List(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamList(teams)})
}

// DeleteTeam DELETE /teams/:id.
func (h *TeamsHandler) DeleteTeam(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	if err := h.teams.Delete(c.UserContext(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMember POST /teams/:id/members.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	var req dto.AddTeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.teams.AddMember(c.UserContext(), user, c.Params("id"), req.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveMember DELETE /teams/:id/members/:userID.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	if err := h.teams.RemoveMember(c.UserContext(), user, c.Params("id"), c.Params("userID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers GET /teams/:id/members.
func (h *TeamsHandler) ListMembers(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	members, err := h.teams.ListMembers(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamMemberList(members)})
}

// AddRoute POST /teams/:id/categories.
func (h *TeamsHandler) AddRoute(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	var req dto.AddRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.routing.AddRoute(c.UserContext(), user, c.Params("id"), req.Category); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveRoute DELETE /teams/:id/categories/:category.
func (h *TeamsHandler) RemoveRoute(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	if err := h.routing.RemoveRoute(c.UserContext(), user, c.Params("id"), c.Params("category")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRoutes GET /teams/:id/categories.
func (h *TeamsHandler) ListRoutes(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	categories, err := h.routing.CategoriesForTeam(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// TeamsForCategory GET /routing/categories/:category/teams.
func (h *TeamsHandler) TeamsForCategory(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	teams, err := h.routing.TeamsForCategory(c.UserContext(), user, c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamList(teams)})
}
