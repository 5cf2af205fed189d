package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// RequireAuthenticated ensures a caller is logged in.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller holds the administrator role. Non-admins
// receive an access-denied body rather than a redirect.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsAdmin() {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "ACCESS_DENIED",
					"message": "administrator role required",
				},
			})
		}
		return c.Next()
	}
}
