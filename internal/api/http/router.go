package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/http/handlers"
	"github.com/spec-kit/bug-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Projects       *handlers.ProjectsHandler
	Bugs           *handlers.BugsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/forgot-password", cfg.Auth.ForgotPassword)
	app.Post("/reset-password", cfg.Auth.ResetPassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/me", cfg.Users.Me)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	projects := app.Group("/projects", cfg.AuthMiddleware.Handle)
	projects.Get("/", cfg.Projects.List)
	projects.Post("/", cfg.Projects.Create)
	projects.Get("/assigned-projects", cfg.Projects.ListAssigned)
	projects.Get("/:id", cfg.Projects.Get)
	projects.Put("/:id", cfg.Projects.Update)
	projects.Delete("/:id", cfg.Projects.Delete)
	projects.Put("/:id/assign-qa", cfg.Projects.AssignQA)
	projects.Put("/:id/assign-developers", cfg.Projects.AssignDevelopers)

	bugs := app.Group("/bugs", cfg.AuthMiddleware.Handle)
	bugs.Get("/", cfg.Bugs.List)
	bugs.Post("/", cfg.Bugs.Create)
	bugs.Get("/:id", cfg.Bugs.Get)
	bugs.Put("/:id", cfg.Bugs.Update)
	bugs.Patch("/:id/status", cfg.Bugs.UpdateStatus)
	bugs.Delete("/:id", cfg.Bugs.Delete)
}
