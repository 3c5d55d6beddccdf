package middleware

import (
	"vportal/database"
	"vportal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRole returns a middleware that checks the authenticated user's role
// against the local user record, not just the token claim, so a revoked
// account is locked out even with a still-valid token
func RequireRole(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := c.Locals("email").(string)
		if !ok || email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: User identity not found",
				"data":    nil,
			})
		}

		var user models.User
		err := database.Database.Db.Where("email = ? AND role = ? AND is_deleted = false AND is_blocked = false",
			email, requiredRole).First(&user).Error

		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status":  false,
					"message": "You do not have permission to access this resource!",
					"data":    nil,
				})
			}
			// Other DB error
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Server error while checking permissions!",
				"data":    nil,
			})
		}

		return c.Next()
	}
}

// AdminOnly guards the admin voucher and checklist endpoints
func AdminOnly(c *fiber.Ctx) error {
	return RequireRole(models.RoleAdmin)(c)
}
