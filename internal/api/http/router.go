package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/campus-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	student := api.Group("/tickets", auth.RequireStudent())
	student.Post("", cfg.Tickets.CreateTicket)
	student.Get("", cfg.Tickets.ListTickets)
	student.Get("/:id", cfg.Tickets.GetTicket)
	student.Post("/:id/comments", cfg.Tickets.AddComment)
	student.Post("/:id/feedback", cfg.Tickets.SubmitFeedback)
	student.Put("/:id/status", cfg.Tickets.ChangeStatus)

	staff := api.Group("/staff", auth.RequireEmployeeRole())
	// stats registered before /tickets/:id so the literal path wins
	staff.Get("/tickets/stats", cfg.Stats.TicketStats)
	staff.Get("/tickets", cfg.StaffTickets.ListTickets)
	staff.Get("/tickets/number/:number", cfg.StaffTickets.GetTicketByNumber)
	staff.Get("/tickets/:id", cfg.StaffTickets.GetTicket)
	staff.Post("/tickets/:id/assign", auth.RequirePermission("tickets:assign"), cfg.StaffTickets.Assign)
	staff.Put("/tickets/:id/status", auth.RequirePermission("tickets:update_status"), cfg.StaffTickets.ChangeStatus)
	staff.Post("/tickets/:id/comments", cfg.StaffTickets.AddComment)
	staff.Get("/employees/:id/history", cfg.Stats.EmployeeHistory)
}
