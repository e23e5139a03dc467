package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/database"
	"invoicing-backend/repository"
	"invoicing-backend/services"
)

// RequirePermission resolves the caller's grant for the token's business and
// denies unless the named capability is present. Resolution is a read, so it
// runs against the shared handle rather than the request transaction.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId, _ := c.Locals("userID").(string)
		businessId, _ := c.Locals("businessID").(string)
		if userId == "" || businessId == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "token is not scoped to a business"})
		}

		store := repository.New(database.DB)
		auth := &services.Authorization{
			Members:     repository.Members{Store: store},
			Roles:       repository.Roles{Store: store},
			Permissions: store,
		}
		grant, err := auth.Resolve(userId, businessId)
		if err != nil {
			return err
		}
		if !grant.Has(permission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "insufficient permissions"})
		}
		return c.Next()
	}
}
