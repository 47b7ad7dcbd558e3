package payments

import (
	"context"
	"fmt"
	"net/url"
	"schoolpay/app/models"
)

// Manager dispatches initiation and verification to the right gateway after
// resolving the school's credentials. It holds no per-school state: the
// credential bundle is loaded fresh for every call and passed down as a
// parameter.
type Manager struct {
	resolver      ConfigResolver
	publicBaseURL string
	gateways      map[models.Provider]Gateway
}

func NewManager(resolver ConfigResolver, publicBaseURL string) *Manager {
	return &Manager{
		resolver:      resolver,
		publicBaseURL: publicBaseURL,
		gateways: map[models.Provider]Gateway{
			models.ProviderPaystack:    NewPaystackGateway(),
			models.ProviderStripe:      NewStripeGateway(),
			models.ProviderFlutterwave: NewFlutterwaveGateway(),
			models.ProviderRazorpay:    NewRazorpayGateway(),
			models.ProviderPayPal:      NewPayPalGateway(),
		},
	}
}

// SetGateway swaps one provider's gateway. Tests use this to point at fake
// provider servers.
func (m *Manager) SetGateway(provider models.Provider, gw Gateway) {
	m.gateways[provider] = gw
}

// Gateway returns the strategy registered for a provider.
func (m *Manager) Gateway(provider models.Provider) (Gateway, error) {
	gw, ok := m.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%q: %w", provider, ErrUnsupportedProvider)
	}
	return gw, nil
}

// Initiate opens a hosted checkout for one fee. Nothing is persisted here;
// the caller must store the returned reference against the fee before
// redirecting the payer, or the provider's answer cannot be correlated.
func (m *Manager) Initiate(ctx context.Context, req InitiateRequest) (*CheckoutSession, error) {
	gw, err := m.Gateway(req.Provider)
	if err != nil {
		return nil, err
	}
	cfg, err := m.resolver.GatewayConfig(req.SchoolID, req.Provider)
	if err != nil {
		return nil, err
	}
	return gw.Initiate(ctx, cfg, req, m.CallbackURL(req.Provider, req.SchoolID, req.FeeID))
}

// Verify asks the provider for a transaction's final status and normalizes
// the answer. For PayPal this is also the capture call that finalizes the
// charge.
func (m *Manager) Verify(ctx context.Context, provider models.Provider, schoolID, reference string) (*VerifiedPayment, error) {
	gw, err := m.Gateway(provider)
	if err != nil {
		return nil, err
	}
	cfg, err := m.resolver.GatewayConfig(schoolID, provider)
	if err != nil {
		return nil, err
	}
	return gw.Verify(ctx, cfg, reference)
}

// ResolveConfig exposes credential resolution for the webhook receiver,
// which must load the tenant's secrets before it can authenticate a payload.
func (m *Manager) ResolveConfig(schoolID string, provider models.Provider) (*models.GatewayConfig, error) {
	return m.resolver.GatewayConfig(schoolID, provider)
}

// CallbackURL builds the return-leg URL. It embeds provider, school and fee
// so the callback page can re-derive context without server-side session
// state; providers append their own reference parameters to it.
func (m *Manager) CallbackURL(provider models.Provider, schoolID, feeID string) string {
	q := url.Values{}
	q.Set("provider", string(provider))
	q.Set("school_id", schoolID)
	q.Set("fee_id", feeID)
	return m.publicBaseURL + "/payments/callback?" + q.Encode()
}
