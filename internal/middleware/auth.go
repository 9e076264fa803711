package middleware

import (
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// RequireAdmin gates administrative routes (fee and bid-increment setters)
// on the admin role. This is the only authorization capability the core
// carries; broader role administration lives upstream.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		m, ok := user.(map[string]interface{})
		if !ok {
			return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
		}
		if role, _ := m["role"].(string); role != "admin" {
			return response.Error(c, "User is Forbidden from performing this action", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// ActorID extracts the authenticated account UUID from the session user.
func ActorID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
