package handler

import (
	"errors"
	"strconv"

	"random-coffee/internal/delivery/http/middleware"
	"random-coffee/internal/pkg/response"
	"random-coffee/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(c fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var cd *usecase.CooldownError
	switch {
	case errors.As(err, &cd):
		mins := usecase.CeilMinutes(cd.Remaining)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(cd.Remaining.Seconds())+1))
		return middleware.NewAppError(fiber.StatusTooManyRequests, "Cooldown: "+strconv.Itoa(mins)+" min", fiber.Map{"cooldown_minutes": mins}, err)
	case errors.Is(err, usecase.ErrRunInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Matching run already in progress", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(msg string, err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
}
