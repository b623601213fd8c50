package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hritikarora28/AppstoreBackend/internal/catalog"
	"github.com/hritikarora28/AppstoreBackend/internal/database"
	"github.com/hritikarora28/AppstoreBackend/internal/models"
	"github.com/hritikarora28/AppstoreBackend/internal/services"
)

const identityKey = "identity"

// RequireAuth checks the Authorization: Bearer token, resolves the user and
// stores the caller identity for handlers. A request without a verified
// identity never reaches a handler.
func RequireAuth(c *fiber.Ctx) error {
	authz := c.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	token := strings.TrimPrefix(authz, "Bearer ")
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	claims, err := services.ParseToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	var user models.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}
	c.Locals(identityKey, catalog.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	return c.Next()
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := Caller(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		for _, r := range roles {
			if r == ident.Role {
				return c.Next()
			}
		}
		return fiber.ErrForbidden
	}
}

// Caller returns the identity stored by RequireAuth.
func Caller(c *fiber.Ctx) (catalog.Identity, bool) {
	ident, ok := c.Locals(identityKey).(catalog.Identity)
	return ident, ok
}
