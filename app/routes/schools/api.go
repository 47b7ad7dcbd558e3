package schools

import (
	"database/sql"
	"schoolpay/app/database"
	"schoolpay/app/models"
	"schoolpay/app/payments"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateSchoolAPI registers a new tenant
func CreateSchoolAPI(c *fiber.Ctx, db *sql.DB) error {
	school := &models.School{}
	if err := c.BodyParser(school); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(school); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := database.CreateSchool(db, school); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create school")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    school,
	})
}

// GetSchoolsAPI lists all tenants
func GetSchoolsAPI(c *fiber.Ctx, db *sql.DB) error {
	schools, err := database.GetSchools(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch schools")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    schools,
	})
}

// GetSchoolAPI returns one school without its gateway credentials
func GetSchoolAPI(c *fiber.Ctx, db *sql.DB) error {
	school, err := database.GetSchoolByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch school")
	}
	school.PaymentSettings = nil
	return c.JSON(fiber.Map{
		"success": true,
		"data":    school,
	})
}

// GetGatewaySettingsAPI returns the school's configured providers with
// secrets masked.
func GetGatewaySettingsAPI(c *fiber.Ctx, db *sql.DB) error {
	settings, err := database.GetSchoolGatewaySettings(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch gateway settings")
	}

	redacted := make(map[models.Provider]*models.GatewayConfig, len(settings))
	for provider, cfg := range settings {
		if cfg != nil {
			redacted[provider] = cfg.Redacted()
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    redacted,
	})
}

// UpdateGatewaySettingsAPI replaces one provider's credential bundle. The
// bundle is validated up front so initiation never trips over a malformed
// config at payment time.
func UpdateGatewaySettingsAPI(c *fiber.Ctx, db *sql.DB) error {
	provider, err := models.ParseProvider(c.Params("provider"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cfg := &models.GatewayConfig{}
	if err := c.BodyParser(cfg); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payments.ValidateConfig(provider, cfg); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := database.UpdateSchoolGatewayConfig(db, c.Params("id"), provider, cfg); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update gateway settings")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gateway settings updated successfully",
	})
}
