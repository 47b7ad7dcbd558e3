package main

import (
	"encoding/json"
	"log"

	"schoolpay/app/config"
	"schoolpay/app/database"
	"schoolpay/app/payments"
	"schoolpay/app/routes/auth"
	"schoolpay/app/routes/fees"
	paymentroutes "schoolpay/app/routes/payments"
	"schoolpay/app/routes/schools"
	"schoolpay/app/routes/students"
	"schoolpay/app/routes/webhooks"
	"schoolpay/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// customErrorHandler handles HTTP errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// API requests get JSON, everything else gets a rendered page
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	return c.Status(code).Render("error", fiber.Map{
		"Title":        "Error - SchoolPay",
		"ErrorCode":    code,
		"ErrorMessage": err.Error(),
	})
}

func main() {
	config.LoadEnv()

	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Payment gateway manager, shared by routes and the scheduler
	manager := payments.NewManager(
		payments.NewStoreResolver(config.GetDB()),
		config.AppConfig.PublicBaseURL,
	)

	// Start background reconciliation
	services.StartScheduler(config.GetDB(), manager)

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "schoolpay",
			"status":  "ok",
		})
	})

	auth.SetupAuthRoutes(app)
	schools.SetupSchoolsRoutes(app)
	students.SetupStudentsRoutes(app, config.GetDB())
	fees.SetupFeesRoutes(app)
	paymentroutes.SetupPaymentsRoutes(app, config.GetDB(), manager)
	webhooks.SetupWebhookRoutes(app, config.GetDB(), manager)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	log.Println("Server starting on :" + config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
