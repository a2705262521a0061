package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig holds the handlers every route group depends on.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Tickets    *handlers.TicketsHandler
	Comments   *handlers.CommentsHandler
	Categories *handlers.CategoriesHandler

	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires all HTTP endpoints onto the Fiber app.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)
	app.Get("/categories", cfg.Categories.ListPublic)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	authed.Get("/me", cfg.Users.Me)
	authed.Post("/logout", cfg.Users.Logout)
	authed.Get("/agents", auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Users.ListAgents)

	authed.Get("/tickets", cfg.Tickets.ListTickets)
	authed.Post("/tickets", cfg.Tickets.CreateTicket)
	authed.Get("/tickets/:id", cfg.Tickets.GetTicket)
	authed.Put("/tickets/:id", cfg.Tickets.UpdateTicket)
	authed.Patch("/tickets/:id/status",
		auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.UpdateStatus)
	authed.Post("/tickets/:id/update-status",
		auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.AssignOrUpdate)
	authed.Get("/tickets/:id/activity", cfg.Tickets.ListActivity)

	authed.Get("/tickets/:id/comments", cfg.Comments.ListComments)
	authed.Post("/tickets/:id/comments", cfg.Comments.CreateComment)

	authed.Post("/attachments/upload", cfg.Tickets.UploadAttachment)

	adminCategories := authed.Group("/admin/categories", auth.RequireRole(domain.RoleAdmin))
	adminCategories.Get("/", cfg.Categories.ListAll)
	adminCategories.Post("/", cfg.Categories.Create)
	adminCategories.Put("/:id", cfg.Categories.Update)
	adminCategories.Delete("/:id", cfg.Categories.Delete)
}
