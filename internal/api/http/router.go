package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/issue-reporting-service/internal/api/http/handlers"
	"github.com/spec-kit/issue-reporting-service/internal/auth"
	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Issues         *handlers.IssuesHandler
	StaffIssues    *handlers.StaffIssuesHandler
	Stats          *handlers.StatsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStudent))
	issues.Post("", cfg.Issues.CreateIssue)
	issues.Get("", cfg.Issues.ListIssues)
	issues.Get("/:id", cfg.Issues.GetIssue)
	issues.Post("/:id/comments", cfg.Issues.AddComment)

	staff := app.Group("/staff/issues", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleDeptStaff, domain.RoleDSWAdmin))
	staff.Get("", cfg.StaffIssues.ListIssues)
	staff.Get("/:id", cfg.StaffIssues.GetIssue)
	staff.Post("/:id/status", cfg.StaffIssues.UpdateStatus)
	staff.Post("/:id/comments", cfg.StaffIssues.AddComment)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleDSWAdmin))
	admin.Post("/issues/:id/assign", cfg.StaffIssues.AssignIssue)
	admin.Get("/stats", cfg.Stats.Overview)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
