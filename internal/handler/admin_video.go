package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/service"
)

type AdminVideoHandler struct {
	svc *service.VideoService
}

func NewAdminVideoHandler(svc *service.VideoService) *AdminVideoHandler {
	return &AdminVideoHandler{svc: svc}
}

// List handles GET /api/admin/videos
func (h *AdminVideoHandler) List(c fiber.Ctx) error {
	page, limit := middleware.Pagination(c)
	f := model.VideoFilter{
		Status:    model.VideoStatus(middleware.ValidateFilter(fiber.Query[string](c, "status"))),
		AITool:    middleware.ValidateFilter(fiber.Query[string](c, "ai_tool")),
		Search:    middleware.ValidateSearch(fiber.Query[string](c, "search")),
		SortBy:    fiber.Query[string](c, "sort_by"),
		Ascending: strings.EqualFold(fiber.Query[string](c, "sort_order"), "asc"),
		Page:      page,
		Limit:     limit,
	}

	if raw := fiber.Query[string](c, "creator_id"); raw != "" {
		id, errMsg := middleware.ValidateUUID(raw, "creator_id")
		if errMsg != "" {
			return badRequest(c, errMsg)
		}
		f.CreatorID = &id
	}

	var errMsg string
	if f.Featured, errMsg = middleware.ValidateBool(fiber.Query[string](c, "featured"), "featured"); errMsg != "" {
		return badRequest(c, errMsg)
	}
	if f.DateFrom, errMsg = middleware.ValidateDate(fiber.Query[string](c, "date_from"), "date_from"); errMsg != "" {
		return badRequest(c, errMsg)
	}
	if f.DateTo, errMsg = middleware.ValidateDate(fiber.Query[string](c, "date_to"), "date_to"); errMsg != "" {
		return badRequest(c, errMsg)
	}

	resp, err := h.svc.AdminList(c.Context(), f)
	if err != nil {
		return respondError(c, err, "Failed to fetch videos")
	}
	return c.JSON(resp)
}

// Get handles GET /api/admin/videos/:id
func (h *AdminVideoHandler) Get(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	v, err := h.svc.AdminGet(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch video")
	}
	return c.JSON(fiber.Map{"video": v})
}

// Update handles PATCH /api/admin/videos/:id
func (h *AdminVideoHandler) Update(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	var p model.VideoPatch
	if err := c.Bind().JSON(&p); err != nil {
		return invalidBody(c)
	}
	if p.Empty() {
		return badRequest(c, "No fields to update")
	}

	v, err := h.svc.AdminUpdate(c.Context(), id, p)
	if err != nil {
		return respondError(c, err, "Failed to update video")
	}
	return c.JSON(fiber.Map{"success": true, "video": v})
}

// Delete handles DELETE /api/admin/videos/:id
func (h *AdminVideoHandler) Delete(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	if err := h.svc.AdminDelete(c.Context(), id); err != nil {
		return respondError(c, err, "Failed to delete video")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Video deleted successfully"})
}

// Stats handles GET /api/admin/stats
func (h *AdminVideoHandler) Stats(c fiber.Ctx) error {
	st, err := h.svc.Stats(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch statistics")
	}
	return c.JSON(st)
}
