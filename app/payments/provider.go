package payments

import (
	"context"
	"net/http"
	"schoolpay/app/models"
	"time"
)

// InitiateRequest carries everything a gateway needs to open a hosted
// checkout for one fee. It is consumed once; afterwards the provider-side
// reference is the durable handle.
type InitiateRequest struct {
	Provider     models.Provider
	SchoolID     string
	StudentID    string
	StudentEmail string
	FeeID        string
	Amount       float64
	Currency     string
	Description  string
}

// CheckoutSession is the result of initiation. Most providers return a
// hosted page to redirect to; Razorpay instead returns parameters for its
// client-side widget (OrderID, KeyID, AmountMinor), so callers must branch
// on RedirectURL being empty.
type CheckoutSession struct {
	Provider    models.Provider `json:"provider"`
	Reference   string          `json:"reference"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	KeyID       string          `json:"key_id,omitempty"`
	AmountMinor int64           `json:"amount_minor,omitempty"`
}

// VerifiedPayment is the normalized answer of a verify/capture call. Amount
// is always in major units regardless of what the provider reported.
type VerifiedPayment struct {
	Provider  models.Provider
	Reference string
	Amount    float64
	Currency  string
	PaidAt    time.Time
}

// Gateway is implemented once per provider. Credentials arrive with every
// call so that concurrent requests for different schools cannot
// cross-contaminate.
type Gateway interface {
	Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error)
	Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error)
}

// newHTTPClient builds the client used for all outbound provider calls.
// Providers can be slow; the timeout keeps a stalled gateway from pinning a
// request indefinitely.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// toMinorUnits converts a major-unit amount to the smallest currency unit.
func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// fromMinorUnits converts a provider-reported minor-unit amount back to
// major units so downstream fee updates are denomination-consistent.
func fromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
