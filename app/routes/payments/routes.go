package payments

import (
	"database/sql"
	"schoolpay/app/payments"
	"schoolpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentsRoutes sets up the payments routes
func SetupPaymentsRoutes(app *fiber.App, db *sql.DB, manager *payments.Manager) {
	// Return leg from the provider's hosted page. Unauthenticated: the payer
	// may not hold a portal session, and the handler trusts only what the
	// provider's verify endpoint confirms.
	app.Get("/payments/callback", func(c *fiber.Ctx) error {
		return PaymentCallbackAPI(c, db, manager)
	})

	paymentsAPI := app.Group("/api/payments")
	paymentsAPI.Use(auth.AuthMiddleware)

	paymentsAPI.Post("/initiate", func(c *fiber.Ctx) error {
		return InitiatePaymentAPI(c, db, manager)
	})

	paymentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetPaymentsAPI(c, db)
	})

	paymentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetPaymentByIDAPI(c, db)
	})
}
