package handler

import (
	"random-coffee/internal/pkg/response"
	"random-coffee/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatsHandler struct {
	uc usecase.AdminUsecase
}

func NewStatsHandler(uc usecase.AdminUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

func (h *StatsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/stats", h.Get)
}

func (h *StatsHandler) Get(c fiber.Ctx) error {
	s, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapUsecaseError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}
