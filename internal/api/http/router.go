package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-service/internal/api/http/handlers"
	"github.com/spec-kit/staffing-service/internal/auth"
	"github.com/spec-kit/staffing-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Shifts         *handlers.ShiftsHandler
	Applications   *handlers.ApplicationsHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	shifts := authed.Group("/shifts")
	shifts.Post("", auth.RequireRole(domain.RoleOrganizer), cfg.Shifts.CreateShift)
	shifts.Get("", cfg.Shifts.ListShifts)
	shifts.Get("/:id", cfg.Shifts.GetShift)
	shifts.Post("/:id/applications", auth.RequireRole(domain.RoleTherapist), cfg.Applications.Submit)

	applications := authed.Group("/applications")
	applications.Post("/:id/withdraw", auth.RequireRole(domain.RoleTherapist), cfg.Applications.Withdraw)
	applications.Post("/:id/decision", auth.RequireRole(domain.RoleOrganizer), cfg.Applications.Decide)

	bookings := authed.Group("/bookings")
	bookings.Post("/:id/check-in", auth.RequireRole(domain.RoleTherapist), cfg.Bookings.CheckIn)
	bookings.Post("/:id/check-out", auth.RequireRole(domain.RoleTherapist), cfg.Bookings.CheckOut)
	bookings.Post("/:id/complete", auth.RequireRole(domain.RoleOrganizer), cfg.Bookings.Complete)
	bookings.Post("/:id/cancel", cfg.Bookings.Cancel)

	authed.Post("/therapists/:id/verify-credentials",
		auth.RequireRole(domain.RoleAdmin), cfg.Users.VerifyCredentials)
}
