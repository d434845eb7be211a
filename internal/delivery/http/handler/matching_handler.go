package handler

import (
	"strconv"

	"random-coffee/internal/delivery/http/dto"
	"random-coffee/internal/delivery/http/middleware"
	"random-coffee/internal/pkg/response"
	"random-coffee/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchingHandler struct {
	uc usecase.TriggerUsecase
}

func NewMatchingHandler(uc usecase.TriggerUsecase) *MatchingHandler {
	return &MatchingHandler{uc: uc}
}

func (h *MatchingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matching")
	grp.Post("/run", h.Run)
	grp.Get("/history", h.History)
}

// Run performs a manual matching run and answers once notifications are out.
func (h *MatchingHandler) Run(c fiber.Ctx) error {
	adminID, ok := middleware.AdminID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	out, err := h.uc.RunManual(c.Context(), adminID)
	if err != nil {
		return mapUsecaseError(c, err)
	}

	res := dto.RunResponse{
		RunID:         out.RunID,
		Pairs:         len(out.Result.Pairs),
		Unmatched:     make([]int64, 0, len(out.Result.Unmatched)),
		Matches:       make([]dto.PairResponse, 0, len(out.Result.Pairs)),
		Notifications: out.Result.Notifications,
	}
	for _, p := range out.Result.Pairs {
		k := p.Key()
		res.Matches = append(res.Matches, dto.PairResponse{UserA: k.Low, UserB: k.High})
	}
	for _, u := range out.Result.Unmatched {
		res.Unmatched = append(res.Unmatched, u.UserID)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MatchingHandler) History(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest("limit must be a number", err)
		}
		limit = n
	}

	logs, err := h.uc.History(c.Context(), limit)
	if err != nil {
		return mapUsecaseError(c, err)
	}

	out := make([]dto.RunLogResponse, 0, len(logs))
	for _, l := range logs {
		item := dto.RunLogResponse{
			ID:             l.ID,
			RunType:        l.RunType,
			StartedAt:      l.StartedAt,
			FinishedAt:     l.FinishedAt,
			PairsCount:     l.PairsCount,
			UnmatchedCount: l.UnmatchedCount,
			Status:         l.Status,
			TriggeredBy:    l.TriggeredBy,
		}
		if l.ErrorText != "" {
			txt := l.ErrorText
			item.ErrorText = &txt
		}
		out = append(out, item)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
