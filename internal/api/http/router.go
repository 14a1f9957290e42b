package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registration-service/internal/api/http/handlers"
	"github.com/spec-kit/registration-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Registrations  *handlers.RegistrationsHandler
	Certificates   *handlers.CertificatesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	events := api.Group("/events")
	events.Get("/", cfg.Events.List)
	events.Post("/", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.Create)
	events.Get("/my-events", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.ListMine)
	events.Get("/:eventId", cfg.Events.Get)
	events.Delete("/:eventId", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.Delete)
	events.Get("/:eventId/registrations", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Registrations.ListByEvent)

	registrations := api.Group("/registrations")
	registrations.Post("/:eventId/start", cfg.Registrations.Start)
	registrations.Post("/verify-and-complete", cfg.Registrations.VerifyAndComplete)

	certificates := api.Group("/certificates", cfg.AuthMiddleware.Handle, auth.RequireOrganizer())
	certificates.Post("/generate/:eventId", cfg.Certificates.Generate)
	certificates.Get("/:eventId", cfg.Certificates.List)
}
