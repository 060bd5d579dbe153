package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit handles POST /api/submissions. Anonymous submitters are allowed.
func (h *SubmissionHandler) Submit(c fiber.Ctx) error {
	var req model.SubmissionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.svc.Submit(c.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, err, "Failed to submit video")
	}
	Metrics.SubmissionsTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}
