package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/helpdesk-service/internal/api/dto"
	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/service"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// SearchHandler exposes ranked ticket search.
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler constructs handler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{service: searchService}
}

// Search GET /search?q=. Debouncing lives in the streaming session; this
// endpoint executes one query immediately for non-interactive callers.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	query := c.Query("q")
	results, err := h.service.Search(c.UserContext(), user, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSearchResponse(query, results)})
}
