package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/http/handlers"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Appointments   *handlers.AppointmentsHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	if cfg.RateLimiter != nil {
		authGroup.Use(cfg.RateLimiter.Handle)
	}
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	appointments := app.Group("/appointments", cfg.AuthMiddleware.Handle)
	appointments.Post("/", cfg.Appointments.Create)
	appointments.Get("/", cfg.Appointments.ListForPatient)
	appointments.Get("/doctor", cfg.Appointments.ListForDoctor)
	appointments.Patch("/:id", cfg.Appointments.UpdateStatus)
}
