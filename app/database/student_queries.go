package database

import (
	"database/sql"
	"schoolpay/app/models"
)

func CreateStudent(db *sql.DB, student *models.Student) error {
	query := `INSERT INTO students (school_id, student_code, first_name, last_name, email)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, is_active, created_at, updated_at`

	return db.QueryRow(query,
		student.SchoolID, student.StudentCode, student.FirstName, student.LastName, student.Email,
	).Scan(&student.ID, &student.IsActive, &student.CreatedAt, &student.UpdatedAt)
}

func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	student := &models.Student{}
	query := `SELECT id, school_id, student_code, first_name, last_name, email, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.SchoolID, &student.StudentCode, &student.FirstName,
		&student.LastName, &student.Email, &student.IsActive, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func GetStudentsBySchool(db *sql.DB, schoolID string) ([]*models.Student, error) {
	query := `SELECT id, school_id, student_code, first_name, last_name, email, is_active, created_at, updated_at
			  FROM students
			  WHERE school_id = $1 AND is_active = true AND deleted_at IS NULL
			  ORDER BY first_name, last_name`

	rows, err := db.Query(query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		err := rows.Scan(
			&student.ID, &student.SchoolID, &student.StudentCode, &student.FirstName,
			&student.LastName, &student.Email, &student.IsActive, &student.CreatedAt, &student.UpdatedAt,
		)
		if err != nil {
			continue
		}
		students = append(students, student)
	}
	return students, nil
}
