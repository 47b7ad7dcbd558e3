package models

import "fmt"

// Provider identifies a supported payment gateway.
type Provider string

const (
	ProviderPaystack    Provider = "paystack"
	ProviderStripe      Provider = "stripe"
	ProviderFlutterwave Provider = "flutterwave"
	ProviderRazorpay    Provider = "razorpay"
	ProviderPayPal      Provider = "paypal"
)

// Providers lists every supported gateway.
var Providers = []Provider{
	ProviderPaystack,
	ProviderStripe,
	ProviderFlutterwave,
	ProviderRazorpay,
	ProviderPayPal,
}

// ParseProvider maps a request string onto the closed provider enum.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderPaystack, ProviderStripe, ProviderFlutterwave, ProviderRazorpay, ProviderPayPal:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("unknown payment provider %q", s)
	}
}

// PaymentStatus defines the status of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// GatewayMode selects which provider environment a school's credentials belong to.
type GatewayMode string

const (
	ModeSandbox GatewayMode = "sandbox"
	ModeLive    GatewayMode = "live"
)
