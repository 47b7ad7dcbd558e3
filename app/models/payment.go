package models

import "time"

// Payment records one gateway transaction against a fee. The Reference is
// the provider-side handle (Paystack/Flutterwave tx_ref, Stripe session id,
// Razorpay order id, PayPal order id) and is the correlation key for both
// webhooks and the synchronous verify-on-return leg.
type Payment struct {
	ID            string        `json:"id"`
	SchoolID      string        `json:"school_id"`
	StudentID     string        `json:"student_id"`
	FeeID         string        `json:"fee_id"`
	Provider      Provider      `json:"provider"`
	Reference     string        `json:"reference"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	FailureReason *string       `json:"failure_reason,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
