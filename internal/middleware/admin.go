package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/textscan/textscan/internal/identity"
)

// RequireAdmin rejects callers whose role is not admin. It assumes JWTAuth
// already ran and populated the role local.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != identity.RoleAdmin {
			return fiber.NewError(http.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}
