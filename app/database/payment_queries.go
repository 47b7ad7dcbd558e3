package database

import (
	"database/sql"
	"fmt"
	"schoolpay/app/models"
	"time"
)

// CreatePayment records the intent to pay before the payer is redirected to
// the provider's hosted page.
func CreatePayment(db *sql.DB, payment *models.Payment) error {
	query := `INSERT INTO payments (school_id, student_id, fee_id, provider, reference, amount, currency, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
			  RETURNING id, status, created_at, updated_at`

	return db.QueryRow(query,
		payment.SchoolID, payment.StudentID, payment.FeeID, string(payment.Provider),
		payment.Reference, payment.Amount, payment.Currency,
	).Scan(&payment.ID, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
}

func GetPaymentByID(db *sql.DB, paymentID string) (*models.Payment, error) {
	query := `SELECT id, school_id, student_id, fee_id, provider, reference, amount, currency,
			  status, failure_reason, paid_at, created_at, updated_at
			  FROM payments WHERE id = $1`
	return scanPayment(db.QueryRow(query, paymentID))
}

func GetPaymentByReference(db *sql.DB, provider models.Provider, reference string) (*models.Payment, error) {
	query := `SELECT id, school_id, student_id, fee_id, provider, reference, amount, currency,
			  status, failure_reason, paid_at, created_at, updated_at
			  FROM payments WHERE provider = $1 AND reference = $2`
	return scanPayment(db.QueryRow(query, string(provider), reference))
}

func GetPaymentsBySchool(db *sql.DB, schoolID string) ([]*models.Payment, error) {
	query := `SELECT id, school_id, student_id, fee_id, provider, reference, amount, currency,
			  status, failure_reason, paid_at, created_at, updated_at
			  FROM payments WHERE school_id = $1 ORDER BY created_at DESC`

	rows, err := db.Query(query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			continue
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// GetStalePendingPayments fetches pending payments older than the cutoff for
// the reconciliation sweep.
func GetStalePendingPayments(db *sql.DB, olderThan time.Duration, limit int) ([]*models.Payment, error) {
	query := `SELECT id, school_id, student_id, fee_id, provider, reference, amount, currency,
			  status, failure_reason, paid_at, created_at, updated_at
			  FROM payments
			  WHERE status = 'pending' AND created_at < $1
			  ORDER BY created_at
			  LIMIT $2`

	rows, err := db.Query(query, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			continue
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// SettlePayment marks the payment completed and the fee paid in one
// transaction. Amount and currency come from the verified provider response,
// not from the original request, so the ledger reflects what was actually
// charged. Settling an already-completed payment is a no-op: the settled
// payment is returned with settledNow=false.
func SettlePayment(db *sql.DB, provider models.Provider, reference string, amount float64, currency string) (*models.Payment, bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	query := `SELECT id, school_id, student_id, fee_id, provider, reference, amount, currency,
			  status, failure_reason, paid_at, created_at, updated_at
			  FROM payments WHERE provider = $1 AND reference = $2 FOR UPDATE`
	payment, err := scanPayment(tx.QueryRow(query, string(provider), reference))
	if err != nil {
		return nil, false, err
	}

	if payment.Status == models.PaymentCompleted {
		return payment, false, tx.Commit()
	}

	now := time.Now()
	updatePayment := `UPDATE payments
					  SET status = 'completed', amount = $1, currency = $2, paid_at = $3,
						  failure_reason = NULL, updated_at = NOW()
					  WHERE id = $4`
	if _, err := tx.Exec(updatePayment, amount, currency, now, payment.ID); err != nil {
		return nil, false, fmt.Errorf("failed to update payment: %v", err)
	}

	updateFee := `UPDATE fees
				  SET paid = true, balance = 0, paid_at = $1, amount = $2, currency = $3,
					  payment_method = $4, transaction_id = $5, updated_at = NOW()
				  WHERE id = $6 AND deleted_at IS NULL`
	if _, err := tx.Exec(updateFee, now, amount, currency, string(provider), reference, payment.FeeID); err != nil {
		return nil, false, fmt.Errorf("failed to update fee: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	payment.Status = models.PaymentCompleted
	payment.Amount = amount
	payment.Currency = currency
	payment.PaidAt = &now
	return payment, true, nil
}

// MarkPaymentFailed records a definitive provider failure. Completed
// payments are never downgraded.
func MarkPaymentFailed(db *sql.DB, provider models.Provider, reference, reason string) error {
	query := `UPDATE payments
			  SET status = 'failed', failure_reason = $1, updated_at = NOW()
			  WHERE provider = $2 AND reference = $3 AND status = 'pending'`
	_, err := db.Exec(query, reason, string(provider), reference)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	var provider, status string
	err := row.Scan(
		&p.ID, &p.SchoolID, &p.StudentID, &p.FeeID, &provider, &p.Reference,
		&p.Amount, &p.Currency, &status, &p.FailureReason, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Provider = models.Provider(provider)
	p.Status = models.PaymentStatus(status)
	return p, nil
}
