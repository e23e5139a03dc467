package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/services"
)

// FactPublisher hands accumulated facts to the notifier once the request has
// fully succeeded. Register it BEFORE RequestTx so publication happens after
// the commit, never for a rolled-back request.
func FactPublisher(notifier services.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if facts, ok := c.Locals("facts").([]services.Fact); ok && len(facts) > 0 {
			notifier.Publish(facts)
		}
		return nil
	}
}

// AddFacts queues facts for publication after commit.
func AddFacts(c *fiber.Ctx, facts []services.Fact) {
	if len(facts) == 0 {
		return
	}
	existing, _ := c.Locals("facts").([]services.Fact)
	c.Locals("facts", append(existing, facts...))
}
