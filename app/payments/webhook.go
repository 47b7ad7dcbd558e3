package payments

import (
	"context"
	"net/http"
	"schoolpay/app/models"
	"time"
)

// WebhookVerifier is implemented by gateways whose webhook authentication
// needs a provider API call instead of a local HMAC check (PayPal).
type WebhookVerifier interface {
	VerifyWebhookSignature(ctx context.Context, cfg *models.GatewayConfig, headers http.Header, rawEvent []byte) error
}

// AuthenticateWebhook verifies an inbound webhook against the school's
// credentials. It must run before the payload is parsed or used: a failed
// check means the event is discarded with no state change.
func (m *Manager) AuthenticateWebhook(ctx context.Context, provider models.Provider, cfg *models.GatewayConfig, headers http.Header, body []byte) error {
	switch provider {
	case models.ProviderPaystack:
		if !VerifyPaystackSignature(body, headers.Get("x-paystack-signature"), cfg.SecretKey) {
			return ErrInvalidSignature
		}
	case models.ProviderStripe:
		if !VerifyStripeSignature(body, headers.Get("Stripe-Signature"), cfg.WebhookSecret, time.Now()) {
			return ErrInvalidSignature
		}
	case models.ProviderFlutterwave:
		if !VerifyFlutterwaveHash(headers.Get("verif-hash"), cfg.WebhookHash) {
			return ErrInvalidSignature
		}
	case models.ProviderRazorpay:
		if !VerifyRazorpaySignature(body, headers.Get("x-razorpay-signature"), cfg.WebhookSecret) {
			return ErrInvalidSignature
		}
	case models.ProviderPayPal:
		gw, err := m.Gateway(provider)
		if err != nil {
			return err
		}
		verifier, ok := gw.(WebhookVerifier)
		if !ok {
			return ErrInvalidSignature
		}
		return verifier.VerifyWebhookSignature(ctx, cfg, headers, body)
	default:
		return ErrUnsupportedProvider
	}
	return nil
}
