package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/helpdesk-service/internal/api/http/handlers"
	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Teams          *handlers.TeamsHandler
	Invitations    *handlers.InvitationsHandler
	Search         *handlers.SearchHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/invitations/accept", cfg.Invitations.Accept)

	authed := app.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/auth/me", cfg.Auth.Me)

	staff := auth.RequireStaff()
	admin := auth.RequireRole(domain.RoleAdmin)

	authed.Get("/agents", staff, cfg.Auth.ListAgents)

	tickets := authed.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", staff, cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/priority", staff, cfg.Tickets.UpdatePriority)
	tickets.Patch("/:id/assignee", staff, cfg.Tickets.UpdateAssignee)
	tickets.Patch("/:id/team", staff, cfg.Tickets.UpdateTeam)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	teams := authed.Group("/teams", staff)
	teams.Post("", admin, cfg.Teams.CreateTeam)
	teams.Get("", cfg.Teams.ListTeams)
	teams.Delete("/:id", admin, cfg.Teams.DeleteTeam)
	teams.Get("/:id/members", cfg.Teams.ListMembers)
	teams.Post("/:id/members", admin, cfg.Teams.AddMember)
	teams.Delete("/:id/members/:userID", admin, cfg.Teams.RemoveMember)
	teams.Get("/:id/categories", cfg.Teams.ListRoutes)
	teams.Post("/:id/categories", admin, cfg.Teams.AddRoute)
	teams.Delete("/:id/categories/:category", admin, cfg.Teams.RemoveRoute)

	authed.Get("/routing/categories/:category/teams", staff, cfg.Teams.TeamsForCategory)

	invitations := authed.Group("/invitations", admin)
	invitations.Post("", cfg.Invitations.Create)
	invitations.Post("/bulk", cfg.Invitations.CreateBulk)
	invitations.Get("", cfg.Invitations.List)
	invitations.Delete("/:id", cfg.Invitations.Remove)

	authed.Get("/search", cfg.Search.Search)

	authed.Get("/events", cfg.Events.StreamWorkspace)
	authed.Get("/events/tickets/:id", cfg.Events.StreamTicket)
}
