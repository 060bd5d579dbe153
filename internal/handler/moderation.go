package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/service"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

func moderator(c fiber.Ctx) string {
	if id := middleware.CurrentIdentity(c); id != nil {
		if id.Email != "" {
			return id.Email
		}
		return id.UserID
	}
	return ""
}

// List handles GET /api/admin/submissions
func (h *ModerationHandler) List(c fiber.Ctx) error {
	page, limit := middleware.Pagination(c)
	status := model.VideoStatus(middleware.ValidateFilter(fiber.Query[string](c, "status")))
	search := middleware.ValidateSearch(fiber.Query[string](c, "search"))

	resp, err := h.svc.List(c.Context(), status, search, page, limit)
	if err != nil {
		return respondError(c, err, "Failed to fetch submissions")
	}
	return c.JSON(resp)
}

// Get handles GET /api/admin/submissions/:id
func (h *ModerationHandler) Get(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	v, notes, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch submission")
	}
	return c.JSON(fiber.Map{"video": v, "notes": notes})
}

// SetStatus handles PATCH /api/admin/submissions/:id
func (h *ModerationHandler) SetStatus(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	var req model.StatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalidBody(c)
	}

	v, err := h.svc.SetStatus(c.Context(), moderator(c), id, req.Status)
	if err != nil {
		return respondError(c, err, "Failed to update submission")
	}
	Metrics.ModerationTotal.WithLabelValues("status_" + string(req.Status)).Inc()
	return c.JSON(model.ModerationResponse{Success: true, Video: v, Message: "Submission status updated"})
}

// Approve handles POST /api/admin/submissions/:id/approve
func (h *ModerationHandler) Approve(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	var req model.ApproveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalidBody(c)
	}

	v, err := h.svc.Approve(c.Context(), moderator(c), id, req)
	if err != nil {
		return respondError(c, err, "Failed to approve submission")
	}
	Metrics.ModerationTotal.WithLabelValues("approved").Inc()
	return c.JSON(model.ModerationResponse{Success: true, Video: v, Message: "Video approved successfully"})
}

// Reject handles POST /api/admin/submissions/:id/reject. An empty body is a
// rejection without notes.
func (h *ModerationHandler) Reject(c fiber.Ctx) error {
	id, errMsg := pathID(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	var req model.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
	}

	v, err := h.svc.Reject(c.Context(), moderator(c), id, req)
	if err != nil {
		return respondError(c, err, "Failed to reject submission")
	}
	Metrics.ModerationTotal.WithLabelValues("rejected").Inc()
	return c.JSON(model.ModerationResponse{Success: true, Video: v, Message: "Video rejected"})
}
