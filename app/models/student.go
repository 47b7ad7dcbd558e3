package models

import "time"

// Student is the person a fee is billed to. Only the fields the payment
// layer needs are modeled; academic records live elsewhere.
type Student struct {
	ID          string     `json:"id"`
	SchoolID    string     `json:"school_id" validate:"required,uuid"`
	StudentCode string     `json:"student_code" validate:"required"`
	FirstName   string     `json:"first_name" validate:"required"`
	LastName    string     `json:"last_name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
