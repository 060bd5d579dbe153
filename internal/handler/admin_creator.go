package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/service"
)

type AdminCreatorHandler struct {
	svc *service.CreatorService
}

func NewAdminCreatorHandler(svc *service.CreatorService) *AdminCreatorHandler {
	return &AdminCreatorHandler{svc: svc}
}

// List handles GET /api/admin/creators
func (h *AdminCreatorHandler) List(c fiber.Ctx) error {
	page, limit := middleware.Pagination(c)
	search := middleware.ValidateSearch(fiber.Query[string](c, "search"))

	resp, err := h.svc.AdminList(c.Context(), search, page, limit)
	if err != nil {
		return respondError(c, err, "Failed to fetch creators")
	}
	return c.JSON(resp)
}

// Search handles GET /api/admin/creators/search?q=X
func (h *AdminCreatorHandler) Search(c fiber.Ctx) error {
	q := middleware.ValidateSearch(fiber.Query[string](c, "q"))
	creators, err := h.svc.Search(c.Context(), q)
	if err != nil {
		return respondError(c, err, "Failed to search creators")
	}
	return c.JSON(fiber.Map{"creators": creators})
}

// Create handles POST /api/admin/creators
func (h *AdminCreatorHandler) Create(c fiber.Ctx) error {
	var req model.CreatorRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalidBody(c)
	}
	cr, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to create creator")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "creator": cr})
}

// Get handles GET /api/admin/creators/:id
func (h *AdminCreatorHandler) Get(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	cr, n, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch creator")
	}
	return c.JSON(fiber.Map{"creator": cr, "video_count": n})
}

// Update handles PATCH /api/admin/creators/:id
func (h *AdminCreatorHandler) Update(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	var p model.CreatorPatch
	if err := c.Bind().JSON(&p); err != nil {
		return invalidBody(c)
	}
	cr, err := h.svc.Update(c.Context(), id, p)
	if err != nil {
		return respondError(c, err, "Failed to update creator")
	}
	return c.JSON(fiber.Map{"success": true, "creator": cr})
}

// Delete handles DELETE /api/admin/creators/:id
func (h *AdminCreatorHandler) Delete(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return respondError(c, err, "Failed to delete creator")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Creator deleted successfully"})
}
