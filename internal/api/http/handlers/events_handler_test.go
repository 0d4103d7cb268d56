package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/domain"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

type stubTicketResolver struct {
	ticket         *domain.Ticket
	err            error
	gotWorkspaceID string
	gotTicketID    string
}

func (s *stubTicketResolver) GetByID(_ context.Context, workspaceID, id string) (*domain.Ticket, error) {
	s.gotWorkspaceID = workspaceID
	s.gotTicketID = id
	return s.ticket, s.err
}

type stubSubscription struct {
	signals chan changebus.Change
}

func (s *stubSubscription) Signals() <-chan changebus.Change { return s.signals }

func (s *stubSubscription) Unsubscribe() {}

type stubBus struct {
	subscribedTickets []string
}

func (b *stubBus) Publish(context.Context, changebus.Change) error { return nil }

func (b *stubBus) SubscribeWorkspace(context.Context, string) (changebus.Subscription, error) {
	return nil, nil
}

func (b *stubBus) SubscribeTicket(_ context.Context, ticketID string) (changebus.Subscription, error) {
	b.subscribedTickets = append(b.subscribedTickets, ticketID)
	closed := make(chan changebus.Change)
	close(closed)
	return &stubSubscription{signals: closed}, nil
}

func (b *stubBus) Close() error { return nil }

func newEventsApp(handler *EventsHandler, caller *domain.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.PrincipalKey, caller)
		err := c.Next()
		if err == nil {
			return nil
		}
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
	})
	app.Get("/events/tickets/:id", handler.StreamTicket)
	return app
}

func TestEventsHandler_StreamTicket(t *testing.T) {
	caller := &domain.User{ID: "u-1", WorkspaceID: "ws-1", Role: domain.RoleAgent}

	t.Run("foreign ticket rejected before subscribing", func(t *testing.T) {
		resolver := &stubTicketResolver{err: pgx.ErrNoRows}
		bus := &stubBus{}
		app := newEventsApp(NewEventsHandler(bus, resolver, zap.NewNop()), caller)

		resp, err := app.Test(httptest.NewRequest("GET", "/events/tickets/t-other", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "ws-1", resolver.gotWorkspaceID)
		assert.Equal(t, "t-other", resolver.gotTicketID)
		assert.Empty(t, bus.subscribedTickets)
	})

	t.Run("owned ticket subscribes by resolved id", func(t *testing.T) {
		resolver := &stubTicketResolver{ticket: &domain.Ticket{ID: "t-1", WorkspaceID: "ws-1"}}
		bus := &stubBus{}
		app := newEventsApp(NewEventsHandler(bus, resolver, zap.NewNop()), caller)

		resp, err := app.Test(httptest.NewRequest("GET", "/events/tickets/t-1", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, []string{"t-1"}, bus.subscribedTickets)
	})
}
