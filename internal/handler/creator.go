package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/service"
	"github.com/WarriorSushi/supaviewer/pkg/slug"
)

type CreatorHandler struct {
	svc *service.CreatorService
}

func NewCreatorHandler(svc *service.CreatorService) *CreatorHandler {
	return &CreatorHandler{svc: svc}
}

// List handles GET /api/creators
func (h *CreatorHandler) List(c fiber.Ctx) error {
	creators, err := h.svc.ListPublic(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch creators")
	}
	return c.JSON(fiber.Map{"creators": creators})
}

// Profile handles GET /api/creators/:slug
func (h *CreatorHandler) Profile(c fiber.Ctx) error {
	s := c.Params("slug")
	if !slug.Valid(s) {
		return badRequest(c, "slug contains invalid characters")
	}

	resp, err := h.svc.Profile(c.Context(), s)
	if err != nil {
		return respondError(c, err, "Failed to fetch creator")
	}
	return c.JSON(resp)
}
