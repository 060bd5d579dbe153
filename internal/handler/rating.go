package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// Get handles GET /api/ratings?video_id=X and returns the caller's rating.
func (h *RatingHandler) Get(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateUUID(fiber.Query[string](c, "video_id"), "video_id")
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	r, err := h.svc.Get(c.Context(), middleware.CurrentUserID(c), videoID)
	if err != nil {
		return respondError(c, err, "Failed to fetch rating")
	}
	return c.JSON(fiber.Map{"rating": r})
}

// Create handles POST /api/ratings
func (h *RatingHandler) Create(c fiber.Ctx) error {
	var req model.RatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalidBody(c)
	}
	if req.VideoID == uuid.Nil {
		return badRequest(c, "video_id is required")
	}

	resp, err := h.svc.Create(c.Context(), middleware.CurrentUserID(c), req.VideoID, req.Rating)
	if err != nil {
		return respondError(c, err, "Failed to create rating")
	}
	Metrics.RatingsTotal.WithLabelValues("create").Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update handles PATCH /api/ratings/:id
func (h *RatingHandler) Update(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	var req model.RatingUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.svc.Update(c.Context(), middleware.CurrentUserID(c), id, req.Rating)
	if err != nil {
		return respondError(c, err, "Failed to update rating")
	}
	Metrics.RatingsTotal.WithLabelValues("update").Inc()
	return c.JSON(resp)
}

// Delete handles DELETE /api/ratings/:id
func (h *RatingHandler) Delete(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	agg, err := h.svc.Delete(c.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return respondError(c, err, "Failed to delete rating")
	}
	Metrics.RatingsTotal.WithLabelValues("delete").Inc()
	return c.JSON(fiber.Map{"success": true, "aggregate": agg})
}
