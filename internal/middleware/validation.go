package middleware

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Query parameter limits.
const (
	MaxSearchLen = 100
	MaxFilterLen = 100
	MaxPageLimit = 100
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateUUID parses an id path or query value.
func ValidateUUID(raw, field string) (uuid.UUID, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, field + " is required"
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, field + " must be a valid UUID"
	}
	return id, ""
}

// ValidateSearch trims a free-text query and truncates it to MaxSearchLen runes.
func ValidateSearch(q string) string {
	return truncate(strings.TrimSpace(q), MaxSearchLen)
}

// ValidateFilter trims an exact-match filter value and truncates it to MaxFilterLen runes.
func ValidateFilter(v string) string {
	return truncate(strings.TrimSpace(v), MaxFilterLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ValidateDate parses an optional RFC 3339 timestamp or YYYY-MM-DD date.
func ValidateDate(raw, field string) (*time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, ""
		}
	}
	return nil, field + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
}

// ValidateBool parses an optional "true"/"false" filter.
func ValidateBool(raw, field string) (*bool, string) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, ""
	case "true", "1":
		v := true
		return &v, ""
	case "false", "0":
		v := false
		return &v, ""
	}
	return nil, field + " must be true or false"
}

// Pagination reads page and limit query parameters. Missing or non-numeric
// values become 0 and the service applies its defaults.
func Pagination(c fiber.Ctx) (page, limit int) {
	page = fiber.Query[int](c, "page", 0)
	limit = fiber.Query[int](c, "limit", 0)
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
