package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Grievances      *handlers.GrievancesHandler
	StaffGrievances *handlers.StaffGrievancesHandler
	Admin           *handlers.AdminHandler
	Attachments     *handlers.AttachmentsHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	// static segments are registered before /:id so they win the match
	grievances := app.Group("/grievances", cfg.AuthMiddleware.Handle)
	grievances.Post("", cfg.Grievances.Submit)
	grievances.Post("/analyze", cfg.Grievances.Analyze)
	grievances.Post("/attachments", cfg.Attachments.Upload)
	grievances.Get("/mine", cfg.Grievances.Mine)
	grievances.Get("/track/:ticketId", cfg.Grievances.Track)
	grievances.Get("/:id", auth.RequireStaff(), cfg.Grievances.Get)
	grievances.Get("/:id/comments", cfg.Grievances.ListComments)
	grievances.Post("/:id/comments", cfg.Grievances.AddComment)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/grievances/assigned", cfg.StaffGrievances.Assigned)
	staff.Patch("/grievances/:id/status", cfg.StaffGrievances.UpdateStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/grievances", cfg.Admin.List)
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/staff", cfg.Admin.Roster)
	admin.Post("/grievances/bulk/status", cfg.Admin.BulkStatus)
	admin.Post("/grievances/bulk/assign", cfg.Admin.BulkAssign)
	admin.Patch("/grievances/:id/assignee", cfg.Admin.Assign)
	admin.Post("/grievances/:id/auto-assign", cfg.Admin.AutoAssign)
	admin.Put("/users/:id/role", cfg.Admin.SetRole)
}
