package routes

import (
	"random-coffee/internal/delivery/http/handler"
	"random-coffee/internal/delivery/http/middleware"
	"random-coffee/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds every handler mounted on the admin server.
type Registry struct {
	Health         *handler.HealthHandler
	Auth           *handler.AuthHandler
	Stats          *handler.StatsHandler
	Schedule       *handler.ScheduleHandler
	Matching       *handler.MatchingHandler
	EmailTemplates *handler.EmailTemplateHandler
	WS             *ws.Handler

	AuthMiddleware *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.Health.RegisterRoutes(app)
	r.registerV1(app.Group("/api").Group("/v1"))

	if r.WS != nil {
		app.Get("/ws/admin", r.WS.HandleAdminWS)
	}
}

func (r *Registry) registerV1(v1 fiber.Router) {
	r.Auth.RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("", r.AuthMiddleware.Middleware())
	r.Stats.RegisterRoutes(protected)
	r.Schedule.RegisterRoutes(protected)
	r.Matching.RegisterRoutes(protected)
	r.EmailTemplates.RegisterRoutes(protected)
}
