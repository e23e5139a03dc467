package middlewares

import (
	"go.uber.org/zap"

	"invoicing-backend/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequestTx opens a per-request DB transaction. It is the unit-of-work
// boundary the domain requires: every mutation a handler performs commits or
// rolls back as one, so a crash between "invitation accepted" and "member
// created" cannot leave half the work behind.
func RequestTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				zap.L().Error("tx commit failed", zap.Error(e))
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via Tx(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}

// Tx returns the request's transaction, falling back to the shared handle
// for routes outside the transactional group.
func Tx(c *fiber.Ctx) *gorm.DB {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return database.DB
}
