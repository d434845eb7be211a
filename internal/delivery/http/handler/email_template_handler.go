package handler

import (
	"strconv"

	"random-coffee/internal/delivery/http/dto"
	"random-coffee/internal/pkg/response"
	"random-coffee/internal/repository"
	"random-coffee/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type EmailTemplateHandler struct {
	uc usecase.AdminUsecase
}

func NewEmailTemplateHandler(uc usecase.AdminUsecase) *EmailTemplateHandler {
	return &EmailTemplateHandler{uc: uc}
}

func (h *EmailTemplateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/email-templates")
	grp.Get("", h.List)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Update)
}

func (h *EmailTemplateHandler) List(c fiber.Ctx) error {
	list, err := h.uc.ListTemplates(c.Context())
	if err != nil {
		return mapUsecaseError(c, err)
	}
	out := make([]dto.EmailTemplateSummary, 0, len(list))
	for _, t := range list {
		out = append(out, toTemplateSummary(t))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *EmailTemplateHandler) Get(c fiber.Ctx) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	t, err := h.uc.GetTemplate(c.Context(), id)
	if err != nil {
		return mapUsecaseError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toTemplateResponse(t))
}

func (h *EmailTemplateHandler) Update(c fiber.Ctx) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEmailTemplateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	t, err := h.uc.UpdateTemplate(c.Context(), id, repository.EmailTemplatePatch{
		Subject:     req.Subject,
		HTMLBody:    req.HTMLBody,
		TextBody:    req.TextBody,
		Description: req.Description,
	})
	if err != nil {
		return mapUsecaseError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toTemplateResponse(t))
}

func templateID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid template ID", err)
	}
	return id, nil
}

func toTemplateSummary(t repository.EmailTemplate) dto.EmailTemplateSummary {
	vars := t.Variables
	if vars == nil {
		vars = []string{}
	}
	return dto.EmailTemplateSummary{
		ID:          t.ID,
		Name:        t.Name,
		Subject:     t.Subject,
		Description: t.Description,
		Variables:   vars,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTemplateResponse(t repository.EmailTemplate) dto.EmailTemplateResponse {
	return dto.EmailTemplateResponse{
		EmailTemplateSummary: toTemplateSummary(t),
		HTMLBody:             t.HTMLBody,
		TextBody:             t.TextBody,
	}
}
