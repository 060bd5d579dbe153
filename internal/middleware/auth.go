package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/WarriorSushi/supaviewer/internal/auth"
)

const identityKey = "identity"

// Authenticate resolves an optional bearer token into an identity stored on
// the request. A request without a token passes through anonymously; a
// malformed or invalid token is rejected.
func Authenticate(a *auth.Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header")
		}
		id, err := a.Verify(strings.TrimSpace(token))
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		}
		c.Locals(identityKey, id)
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if CurrentIdentity(c) == nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers that are anonymous or not on the admin allow-list.
func RequireAdmin(a *auth.Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := CurrentIdentity(c)
		if id == nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
		if !a.IsAdmin(id) {
			return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Admin access required")
		}
		return c.Next()
	}
}

// CurrentIdentity returns the authenticated caller, or nil.
func CurrentIdentity(c fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(identityKey).(*auth.Identity)
	return id
}

// CurrentUserID returns the caller's user id, or "" when anonymous.
func CurrentUserID(c fiber.Ctx) string {
	if id := CurrentIdentity(c); id != nil {
		return id.UserID
	}
	return ""
}
