package students

import (
	"database/sql"
	"schoolpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentsRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/students", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return GetStudentsAPI(c, db)
	})
	api.Get("/:id", func(c *fiber.Ctx) error {
		return GetStudentAPI(c, db)
	})
	api.Post("/", auth.RequireRole("admin"), func(c *fiber.Ctx) error {
		return CreateStudentAPI(c, db)
	})
}
