package payments

import (
	"context"
	"net/http"
	"net/url"
	"schoolpay/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver returns canned configs keyed by provider.
type fakeResolver struct {
	configs map[models.Provider]*models.GatewayConfig
	err     error
	calls   int
}

func (r *fakeResolver) GatewayConfig(schoolID string, provider models.Provider) (*models.GatewayConfig, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	cfg, ok := r.configs[provider]
	if !ok {
		return nil, ErrGatewayNotConfigured
	}
	return cfg, nil
}

// stubGateway records invocations so tests can assert the manager's dispatch.
type stubGateway struct {
	initiated int
	verified  int
	cfg       *models.GatewayConfig
	session   *CheckoutSession
	payment   *VerifiedPayment
	err       error
}

func (g *stubGateway) Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error) {
	g.initiated++
	g.cfg = cfg
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func (g *stubGateway) Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error) {
	g.verified++
	g.cfg = cfg
	if g.err != nil {
		return nil, g.err
	}
	return g.payment, nil
}

func TestManagerInitiateDispatchesWithResolvedConfig(t *testing.T) {
	cfg := &models.GatewayConfig{SecretKey: "sk_test"}
	resolver := &fakeResolver{configs: map[models.Provider]*models.GatewayConfig{
		models.ProviderPaystack: cfg,
	}}
	stub := &stubGateway{session: &CheckoutSession{Provider: models.ProviderPaystack, Reference: "r1", RedirectURL: "https://pay"}}

	m := NewManager(resolver, "https://portal.example")
	m.SetGateway(models.ProviderPaystack, stub)

	session, err := m.Initiate(context.Background(), InitiateRequest{
		Provider: models.ProviderPaystack,
		SchoolID: "school-1",
		FeeID:    "fee-1",
		Amount:   100,
		Currency: "NGN",
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", session.Reference)
	assert.Equal(t, 1, stub.initiated)
	assert.Same(t, cfg, stub.cfg)
	assert.Equal(t, 1, resolver.calls)
}

func TestManagerInitiateUnknownProvider(t *testing.T) {
	resolver := &fakeResolver{}
	m := NewManager(resolver, "https://portal.example")

	_, err := m.Initiate(context.Background(), InitiateRequest{Provider: models.Provider("square")})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	// no credential lookup for an unknown provider
	assert.Equal(t, 0, resolver.calls)
}

func TestManagerInitiateMissingConfig(t *testing.T) {
	stub := &stubGateway{}
	m := NewManager(&fakeResolver{}, "https://portal.example")
	m.SetGateway(models.ProviderStripe, stub)

	_, err := m.Initiate(context.Background(), InitiateRequest{Provider: models.ProviderStripe, SchoolID: "school-1"})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	// a broken config must fail before the gateway is touched
	assert.Equal(t, 0, stub.initiated)
}

func TestManagerVerifyDispatches(t *testing.T) {
	cfg := &models.GatewayConfig{KeyID: "rzp", KeySecret: "s", WebhookSecret: "w"}
	resolver := &fakeResolver{configs: map[models.Provider]*models.GatewayConfig{
		models.ProviderRazorpay: cfg,
	}}
	stub := &stubGateway{payment: &VerifiedPayment{Provider: models.ProviderRazorpay, Reference: "order_1", Amount: 25, Currency: "INR", PaidAt: time.Now()}}

	m := NewManager(resolver, "https://portal.example")
	m.SetGateway(models.ProviderRazorpay, stub)

	verified, err := m.Verify(context.Background(), models.ProviderRazorpay, "school-1", "order_1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, verified.Amount)
	assert.Equal(t, 1, stub.verified)
}

func TestManagerCallbackURL(t *testing.T) {
	m := NewManager(&fakeResolver{}, "https://portal.example")

	raw := m.CallbackURL(models.ProviderFlutterwave, "school-1", "fee-9")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/payments/callback", u.Path)
	assert.Equal(t, "flutterwave", u.Query().Get("provider"))
	assert.Equal(t, "school-1", u.Query().Get("school_id"))
	assert.Equal(t, "fee-9", u.Query().Get("fee_id"))
}

func TestAuthenticateWebhookLocalSchemes(t *testing.T) {
	m := NewManager(&fakeResolver{}, "https://portal.example")
	body := []byte(`{"event":"charge.success"}`)

	paystackCfg := &models.GatewayConfig{SecretKey: "sk_test"}
	headers := http.Header{}
	headers.Set("x-paystack-signature", hexHMAC512("sk_test", body))
	assert.NoError(t, m.AuthenticateWebhook(context.Background(), models.ProviderPaystack, paystackCfg, headers, body))

	headers.Set("x-paystack-signature", hexHMAC512("sk_wrong", body))
	assert.ErrorIs(t, m.AuthenticateWebhook(context.Background(), models.ProviderPaystack, paystackCfg, headers, body), ErrInvalidSignature)

	flwCfg := &models.GatewayConfig{SecretKey: "sk", WebhookHash: "flw-hash"}
	headers = http.Header{}
	headers.Set("verif-hash", "flw-hash")
	assert.NoError(t, m.AuthenticateWebhook(context.Background(), models.ProviderFlutterwave, flwCfg, headers, body))

	headers.Set("verif-hash", "flw-other")
	assert.ErrorIs(t, m.AuthenticateWebhook(context.Background(), models.ProviderFlutterwave, flwCfg, headers, body), ErrInvalidSignature)

	rzpCfg := &models.GatewayConfig{KeyID: "k", KeySecret: "s", WebhookSecret: "whsec"}
	headers = http.Header{}
	headers.Set("x-razorpay-signature", hexHMAC256("whsec", body))
	assert.NoError(t, m.AuthenticateWebhook(context.Background(), models.ProviderRazorpay, rzpCfg, headers, body))

	stripeCfg := &models.GatewayConfig{SecretKey: "sk", WebhookSecret: "whsec_stripe"}
	headers = http.Header{}
	headers.Set("Stripe-Signature", stripeHeader("whsec_stripe", body, time.Now()))
	assert.NoError(t, m.AuthenticateWebhook(context.Background(), models.ProviderStripe, stripeCfg, headers, body))

	headers.Set("Stripe-Signature", stripeHeader("whsec_stripe", body, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, m.AuthenticateWebhook(context.Background(), models.ProviderStripe, stripeCfg, headers, body), ErrInvalidSignature)
}

func TestMinorUnitConversion(t *testing.T) {
	assert.Equal(t, int64(500000), toMinorUnits(5000))
	assert.Equal(t, int64(12550), toMinorUnits(125.50))
	assert.Equal(t, int64(1), toMinorUnits(0.01))
	assert.Equal(t, 125.50, fromMinorUnits(12550))
	assert.Equal(t, 5000.0, fromMinorUnits(500000))
}
