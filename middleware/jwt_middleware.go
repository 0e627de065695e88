package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docuhub/config"
	"docuhub/models"
	"docuhub/utils"
)

// Protected authenticates the request from its Bearer token and stores the
// resolved user in locals. Tokens minted before the user's current token
// version (password change, reset) are rejected.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization required",
			})
		}

		claims, err := utils.ParseJWTToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		var user models.User
		if err := config.DB.First(&user, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is not active",
			})
		}
		if claims.TokenVersion != user.TokenVersion {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session is no longer valid",
			})
		}

		c.Locals("user", &user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}
