package handler

import (
	"random-coffee/internal/delivery/http/dto"
	"random-coffee/internal/pkg/response"
	"random-coffee/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ScheduleHandler struct {
	uc usecase.TriggerUsecase
}

func NewScheduleHandler(uc usecase.TriggerUsecase) *ScheduleHandler {
	return &ScheduleHandler{uc: uc}
}

func (h *ScheduleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/schedule", h.Get)
	r.Post("/schedule", h.Update)
}

func (h *ScheduleHandler) Get(c fiber.Ctx) error {
	v, err := h.uc.Schedule(c.Context())
	if err != nil {
		return mapUsecaseError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toScheduleResponse(v))
}

func (h *ScheduleHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateScheduleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	v, err := h.uc.UpdateSchedule(c.Context(), usecase.ScheduleInput{Days: req.ScheduleDays, Time: req.ScheduleTime})
	if err != nil {
		return mapUsecaseError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toScheduleResponse(v))
}

func toScheduleResponse(v usecase.ScheduleView) dto.ScheduleResponse {
	days := v.Days
	if days == nil {
		days = []string{}
	}
	return dto.ScheduleResponse{
		ScheduleDays:    days,
		ScheduleTime:    v.Time,
		LastRunAt:       v.LastRunAt,
		CanRunNow:       v.CanRunNow,
		CooldownMinutes: v.CooldownMinutes,
	}
}
