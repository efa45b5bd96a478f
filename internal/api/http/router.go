package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/feedback-service/internal/api/http/handlers"
	"github.com/spec-kit/feedback-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Feedback       *handlers.FeedbackHandler
	StaffFeedback  *handlers.StaffFeedbackHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	feedback := app.Group("/feedback", cfg.AuthMiddleware.Handle, auth.RequireClient())
	feedback.Post("/", cfg.Feedback.Submit)
	feedback.Get("/", cfg.Feedback.List)
	feedback.Get("/:id", cfg.Feedback.Get)
	feedback.Post("/:id/messages", cfg.Feedback.Reply)
	feedback.Post("/:id/read", cfg.Feedback.MarkRead)
	feedback.Post("/:id/reopen", cfg.Feedback.Reopen)

	staff := app.Group("/staff/feedback", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/", cfg.StaffFeedback.List)
	staff.Get("/:id", cfg.StaffFeedback.Get)
	staff.Post("/:id/messages", cfg.StaffFeedback.Reply)
	staff.Post("/:id/read", cfg.StaffFeedback.MarkRead)
	staff.Patch("/:id/status", cfg.StaffFeedback.UpdateStatus)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/stats", cfg.Notifications.Stats)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
