package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/domain"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// heartbeatInterval keeps idle SSE connections from being reaped by
// intermediaries, and doubles as the liveness probe for gone clients.
const heartbeatInterval = 25 * time.Second

// ticketResolver is the slice of ticket persistence the stream needs to
// verify a ticket belongs to the caller's workspace.
type ticketResolver interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Ticket, error)
}

// EventsHandler streams change signals over server-sent events. A client
// receiving a signal refetches the scoped state; the stream never carries
// entity payloads.
type EventsHandler struct {
	bus     changebus.Bus
	tickets ticketResolver
	logger  *zap.Logger
}

// NewEventsHandler constructs handler.
func NewEventsHandler(bus changebus.Bus, tickets ticketResolver, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{bus: bus, tickets: tickets, logger: logger}
}

// StreamWorkspace GET /events. Streams every change in the caller's
// workspace.
func (h *EventsHandler) StreamWorkspace(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	sub, err := h.bus.SubscribeWorkspace(c.UserContext(), user.WorkspaceID)
	if err != nil {
		return apperrors.NewUnavailable("subscription failed", err)
	}
	h.stream(c, sub)
	return nil
}

// StreamTicket GET /events/tickets/:id. Streams changes for one ticket.
// The ticket is resolved within the caller's workspace before subscribing
// so signal metadata never crosses tenants.
func (h *EventsHandler) StreamTicket(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authenticated member required")
	}
	ticket, err := h.tickets.GetByID(c.UserContext(), user.WorkspaceID, c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return apperrors.MapError(err)
	}
	sub, err := h.bus.SubscribeTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return apperrors.NewUnavailable("subscription failed", err)
	}
	h.stream(c, sub)
	return nil
}

// stream takes over the response body. The fiber context must not be
// touched after the handler returns, so everything the writer needs is
// captured here.
func (h *EventsHandler) stream(c *fiber.Ctx, sub changebus.Subscription) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := h.logger
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Unsubscribe()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case change, open := <-sub.Signals():
				if !open {
					return
				}
				payload, err := json.Marshal(change)
				if err != nil {
					logger.Warn("change encode failed", zap.Error(err))
					continue
				}
				if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}
