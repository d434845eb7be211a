package handler

import (
	"random-coffee/internal/delivery/http/dto"
	"random-coffee/internal/pkg/response"
	"random-coffee/internal/usecase"
	ucauth "random-coffee/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/token", h.Token)
}

// Token exchanges an admin id and API key for a bearer token.
func (h *AuthHandler) Token(c fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	tok, err := h.uc.Login(c.Context(), ucauth.LoginInput{AdminID: req.AdminID, APIKey: req.APIKey})
	if err != nil {
		return mapUsecaseError(c, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
	})
}
