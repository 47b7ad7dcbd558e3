package models

import "time"

// Fee represents an actual charge for a specific student. It is the ledger
// entry the payment layer settles: the only status transition is
// pending -> paid, driven by a verified provider response.
type Fee struct {
	ID            string     `json:"id"`
	SchoolID      string     `json:"school_id" validate:"required,uuid"`
	StudentID     string     `json:"student_id" validate:"required,uuid"`
	Title         string     `json:"title" validate:"required"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	Balance       float64    `json:"balance"`
	Currency      string     `json:"currency" validate:"required,len=3"`
	Paid          bool       `json:"paid"`
	DueDate       time.Time  `json:"due_date" validate:"required"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`

	Student *Student `json:"student,omitempty"`
}

// IsFullyPaid returns true if the fee is marked as paid.
func (f *Fee) IsFullyPaid() bool {
	return f.Paid
}

// IsOverdue reports whether an unpaid fee is past its due date.
func (f *Fee) IsOverdue(now time.Time) bool {
	return !f.Paid && now.After(f.DueDate)
}

// MarkAsPaid marks the fee as fully paid.
func (f *Fee) MarkAsPaid() {
	f.Balance = 0
	f.Paid = true
	now := time.Now()
	f.PaidAt = &now
}
