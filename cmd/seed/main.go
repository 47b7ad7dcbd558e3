package main

import (
	"fmt"
	"log"

	"schoolpay/app/config"
	"schoolpay/app/database"
	"schoolpay/app/models"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo school with an admin account so the portal is usable
// right after the first migration run.
func main() {
	config.LoadEnv()
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	school := &models.School{
		Name:     "Demo High School",
		Email:    "bursar@demo-high.example",
		Phone:    "+2348000000000",
		Currency: "NGN",
	}
	if err := database.CreateSchool(db, school); err != nil {
		log.Fatal("Error creating school:", err)
	}
	fmt.Printf("School created: %s (%s)\n", school.Name, school.ID)

	password := config.GetEnv("SEED_ADMIN_PASSWORD", "changeme123")
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error hashing password:", err)
	}

	admin := &models.User{
		SchoolID:  &school.ID,
		Email:     config.GetEnv("SEED_ADMIN_EMAIL", "admin@demo-high.example"),
		Password:  string(hashed),
		FirstName: "Demo",
		LastName:  "Admin",
		Roles:     []string{"admin"},
	}
	if err := database.CreateUser(db, admin); err != nil {
		log.Fatal("Error creating admin user:", err)
	}
	fmt.Printf("Admin user created: %s\n", admin.Email)

	student := &models.Student{
		SchoolID:    school.ID,
		StudentCode: "DHS-0001",
		FirstName:   "Ada",
		LastName:    "Obi",
		Email:       "ada.obi@demo-high.example",
	}
	if err := database.CreateStudent(db, student); err != nil {
		log.Fatal("Error creating student:", err)
	}
	fmt.Printf("Student created: %s (%s)\n", student.FullName(), student.StudentCode)
}
