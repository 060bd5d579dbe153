package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Browse handles GET /api/videos
func (h *VideoHandler) Browse(c fiber.Ctx) error {
	page, limit := middleware.Pagination(c)
	q := service.BrowseQuery{
		AITool: middleware.ValidateFilter(fiber.Query[string](c, "ai_tool")),
		Genre:  middleware.ValidateFilter(fiber.Query[string](c, "genre")),
		Search: middleware.ValidateSearch(fiber.Query[string](c, "search")),
		Sort:   fiber.Query[string](c, "sort"),
		Page:   page,
		Limit:  limit,
	}

	resp, err := h.svc.Browse(c.Context(), q)
	if err != nil {
		return respondError(c, err, "Failed to fetch videos")
	}
	return c.JSON(resp)
}

// Detail handles GET /api/videos/:id
func (h *VideoHandler) Detail(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	resp, err := h.svc.Detail(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch video")
	}
	return c.JSON(resp)
}
