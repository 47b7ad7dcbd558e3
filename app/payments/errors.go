package payments

import (
	"errors"
	"fmt"
	"schoolpay/app/models"
)

var (
	// ErrGatewayNotConfigured means the school has no usable credential
	// bundle for the requested provider. Initiation must fail before any
	// network call is made.
	ErrGatewayNotConfigured = errors.New("payment gateway not configured for school")

	// ErrUnsupportedProvider means the caller asked for a provider outside
	// the closed enum.
	ErrUnsupportedProvider = errors.New("unsupported payment provider")

	// ErrInvalidSignature means a webhook failed authentication. The event
	// must be discarded without touching any state.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ProviderError is returned when the provider rejected an initiation
// request. It is never retried automatically; the provider's own message is
// kept for the caller to surface.
type ProviderError struct {
	Provider models.Provider
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// VerificationError is returned when a verify/capture call did not confirm
// success. Callers may treat the payment as still pending and let the
// webhook settle it later.
type VerificationError struct {
	Provider  models.Provider
	Reference string
	Message   string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s verification failed for %s: %s", e.Provider, e.Reference, e.Message)
}
