package webhooks

import (
	"database/sql"
	"schoolpay/app/payments"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes sets up the provider webhook endpoint. The route is
// unauthenticated; each request authenticates itself by signature.
func SetupWebhookRoutes(app *fiber.App, db *sql.DB, manager *payments.Manager) {
	store := NewStore(db)
	app.Post("/webhooks/payments", func(c *fiber.Ctx) error {
		return PaymentWebhookAPI(c, store, manager)
	})
}
