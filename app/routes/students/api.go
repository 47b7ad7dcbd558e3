package students

import (
	"database/sql"
	"schoolpay/app/database"
	"schoolpay/app/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetStudentsAPI lists the school's active students
func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	schoolID := c.Locals("school_id").(string)

	students, err := database.GetStudentsBySchool(db, schoolID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
	})
}

// GetStudentAPI returns one student
func GetStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	schoolID := c.Locals("school_id").(string)

	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}
	if student.SchoolID != schoolID {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// CreateStudentAPI enrolls a student
func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	schoolID := c.Locals("school_id").(string)

	student := &models.Student{}
	if err := c.BodyParser(student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	student.SchoolID = schoolID

	if err := validate.Struct(student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := database.CreateStudent(db, student); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}
