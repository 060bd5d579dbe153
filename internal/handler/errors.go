package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/middleware"
)

// respondError writes the error envelope for a service error. Dependency and
// unclassified failures are logged and reported as a generic 500 with msg.
func respondError(c fiber.Ctx, err error, msg string) error {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind == apperr.KindDependency || e.Kind == apperr.KindInternal {
		middleware.Logger.Error().Err(err).Str("path", c.Path()).Msg(msg)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
	return middleware.ErrorResponse(c, statusFor(e.Kind), e.Code, e.Message)
}

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c fiber.Ctx, msg string) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", msg)
}

func invalidBody(c fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
}

// pathID parses the :id route parameter.
func pathID(c fiber.Ctx) (uuid.UUID, string) {
	return middleware.ValidateUUID(c.Params("id"), "id")
}
