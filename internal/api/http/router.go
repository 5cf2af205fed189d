package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/heardesk/complaint-service/internal/api/http/handlers"
	"github.com/heardesk/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Complaints      *handlers.ComplaintsHandler
	AdminComplaints *handlers.AdminComplaintsHandler
	Stream          *handlers.StreamHandler
	AuthMiddleware  *auth.AuthMiddleware
	// RoleGatedMutations guards the triage routes with the administrator
	// role check. The remote deployment sets it; local mode leaves triage
	// open to any authenticated caller.
	RoleGatedMutations bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Landing)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/admin/login", cfg.Users.AdminLogin)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	complaints := api.Group("/complaints")
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/stats", cfg.Complaints.Stats)
	if cfg.Stream != nil {
		complaints.Use("/stream", cfg.Stream.Upgrade)
		complaints.Get("/stream", cfg.Stream.Handle())
	}
	complaints.Get("/:id", cfg.Complaints.Get)

	admin := api.Group("/admin")
	if cfg.RoleGatedMutations {
		admin.Use(auth.RequireAdmin())
	}
	admin.Get("/complaints", cfg.AdminComplaints.List)
	admin.Patch("/complaints/:id/status", cfg.AdminComplaints.UpdateStatus)
	admin.Patch("/complaints/:id/priority", cfg.AdminComplaints.UpdatePriority)
	admin.Patch("/complaints/:id/assignee", cfg.AdminComplaints.Assign)
	admin.Delete("/complaints/:id", cfg.AdminComplaints.Delete)

	// catch-all not-found page
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "NOT_FOUND",
				"message": "page not found",
				"path":    c.Path(),
			},
		})
	})
}
