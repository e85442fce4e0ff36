package middlewares

import (
	"strings"

	"campushub.events/models"
	"campushub.events/pkg/token"
	"campushub.events/repositories"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the Locals key holding the authenticated *models.User.
const CurrentUserKey = "currentUser"

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error", "code": "UNAUTHORIZED", "message": message,
	})
}

// RequireAuth resolves the bearer token to a fresh user record. Loading the
// user on every request keeps role and active-status checks current instead
// of trusting stale token claims.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "missing bearer token")
		}

		claims, err := token.Parse(parts[1])
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		user, err := repositories.NewUserRepository().FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return unauthorized(c, "account no longer exists")
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error", "code": "ACCOUNT_INACTIVE", "message": "account is deactivated",
			})
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// RequireAdmin gates a route group to admin accounts. Must run after
// RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(CurrentUserKey).(*models.User)
		if !ok || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error", "code": "FORBIDDEN", "message": "admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}
