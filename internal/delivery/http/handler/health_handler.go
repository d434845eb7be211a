package handler

import (
	"context"
	"time"

	"random-coffee/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(app fiber.Router) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := fiber.Map{"status": "ok"}
	if h.db == nil {
		return response.Success(c, fiber.StatusOK, response.MessageOK, data)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		data["status"] = "degraded"
		data["database"] = "unreachable"
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, data)
	}
	data["database"] = "ok"
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
