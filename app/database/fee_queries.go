package database

import (
	"database/sql"
	"fmt"
	"schoolpay/app/models"
)

func CreateFee(db *sql.DB, fee *models.Fee) error {
	query := `INSERT INTO fees (school_id, student_id, title, amount, balance, currency, due_date)
			  VALUES ($1, $2, $3, $4, $4, $5, $6)
			  RETURNING id, paid, created_at, updated_at`

	return db.QueryRow(query,
		fee.SchoolID, fee.StudentID, fee.Title, fee.Amount, fee.Currency, fee.DueDate,
	).Scan(&fee.ID, &fee.Paid, &fee.CreatedAt, &fee.UpdatedAt)
}

func GetFeeByID(db *sql.DB, feeID string) (*models.Fee, error) {
	fee := &models.Fee{}
	query := `SELECT id, school_id, student_id, title, amount, balance, currency, paid,
			  due_date, paid_at, payment_method, transaction_id, created_at, updated_at
			  FROM fees WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, feeID).Scan(
		&fee.ID, &fee.SchoolID, &fee.StudentID, &fee.Title, &fee.Amount, &fee.Balance,
		&fee.Currency, &fee.Paid, &fee.DueDate, &fee.PaidAt, &fee.PaymentMethod,
		&fee.TransactionID, &fee.CreatedAt, &fee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fee, nil
}

// AttachTransaction stores the provider transaction reference on the fee row
// before the payer is redirected, so the webhook and return leg can
// correlate the provider's answer back to this fee.
func AttachTransaction(db *sql.DB, feeID string, provider models.Provider, reference string) error {
	query := `UPDATE fees SET transaction_id = $1, payment_method = $2, updated_at = NOW()
			  WHERE id = $3 AND paid = false AND deleted_at IS NULL`

	result, err := db.Exec(query, reference, string(provider), feeID)
	if err != nil {
		return fmt.Errorf("failed to attach transaction to fee: %v", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return err
}
