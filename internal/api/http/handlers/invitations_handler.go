package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/helpdesk-service/internal/api/dto"
	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/service"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// InvitationsHandler manages workspace onboarding endpoints.
type InvitationsHandler struct {
	service *service.InvitationService
}

// NewInvitationsHandler constructs handler.
func NewInvitationsHandler(invitationService *service.InvitationService) *InvitationsHandler {
	return &InvitationsHandler{service: invitationService}
}

// Create POST /invitations.
func (h *InvitationsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	var req dto.CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	invitation, err := h.service.Create(c.UserContext(), user, req.Email, req.Role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewInvitationResponse(invitation, true)})
}

// CreateBulk POST /invitations/bulk. Partial success returns 207.
func (h *InvitationsHandler) CreateBulk(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	var req dto.CreateBulkInvitationsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Emails) == 0 {
		return apperrors.NewValidationError("at least one email required", nil)
	}

	result, err := h.service.CreateBulk(c.UserContext(), user, req.Emails, req.Role)
	if err != nil {
		return err
	}

	resp := dto.BulkInvitationsResponse{
		Created:      dto.NewInvitationList(result.Created),
		FailedEmails: result.FailedEmails,
	}
	status := fiber.StatusCreated
	if len(result.FailedEmails) > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(fiber.Map{"data": resp})
}

// List GET /invitations.
func (h *InvitationsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	invitations, err := h.service.List(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvitationList(invitations)})
}

// Remove DELETE /invitations/:id.
func (h *InvitationsHandler) Remove(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	if err := h.service.Remove(c.UserContext(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Accept POST /invitations/accept. Unauthenticated; the token is the
// credential.
func (h *InvitationsHandler) Accept(c *fiber.Ctx) error {
	var req dto.AcceptInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.Accept(c.UserContext(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(member)})
}
