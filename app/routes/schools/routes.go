package schools

import (
	"schoolpay/app/config"
	"schoolpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupSchoolsRoutes sets up the schools routes
func SetupSchoolsRoutes(app *fiber.App) {
	schoolsAPI := app.Group("/api/schools")
	schoolsAPI.Use(auth.AuthMiddleware)
	schoolsAPI.Use(auth.RequireRole("admin"))

	schoolsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetSchoolsAPI(c, config.GetDB())
	})

	schoolsAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateSchoolAPI(c, config.GetDB())
	})

	schoolsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetSchoolAPI(c, config.GetDB())
	})

	schoolsAPI.Get("/:id/gateways", func(c *fiber.Ctx) error {
		return GetGatewaySettingsAPI(c, config.GetDB())
	})

	schoolsAPI.Put("/:id/gateways/:provider", func(c *fiber.Ctx) error {
		return UpdateGatewaySettingsAPI(c, config.GetDB())
	})
}
