package payments

import (
	"schoolpay/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	valid := map[models.Provider]*models.GatewayConfig{
		models.ProviderPaystack:    {SecretKey: "sk"},
		models.ProviderStripe:      {SecretKey: "sk", WebhookSecret: "whsec"},
		models.ProviderFlutterwave: {SecretKey: "sk", WebhookHash: "hash"},
		models.ProviderRazorpay:    {KeyID: "rzp_id", KeySecret: "rzp_secret", WebhookSecret: "whsec"},
		models.ProviderPayPal:      {ClientID: "cid", ClientSecret: "cs", WebhookID: "wh", Mode: models.ModeSandbox},
	}
	for provider, cfg := range valid {
		assert.NoError(t, ValidateConfig(provider, cfg), string(provider))
	}
}

func TestValidateConfigMissingKeys(t *testing.T) {
	cases := []struct {
		provider models.Provider
		cfg      *models.GatewayConfig
	}{
		{models.ProviderPaystack, &models.GatewayConfig{}},
		{models.ProviderPaystack, &models.GatewayConfig{SecretKey: "   "}},
		{models.ProviderStripe, &models.GatewayConfig{SecretKey: "sk"}},
		{models.ProviderFlutterwave, &models.GatewayConfig{WebhookHash: "hash"}},
		{models.ProviderRazorpay, &models.GatewayConfig{KeyID: "rzp_id"}},
		{models.ProviderPayPal, &models.GatewayConfig{ClientID: "cid", ClientSecret: "cs", WebhookID: "wh"}},
		{models.ProviderPayPal, &models.GatewayConfig{ClientID: "cid", ClientSecret: "cs", WebhookID: "wh", Mode: "production"}},
	}
	for _, tc := range cases {
		err := ValidateConfig(tc.provider, tc.cfg)
		assert.ErrorIs(t, err, ErrGatewayNotConfigured, string(tc.provider))
	}
}

func TestValidateConfigUnknownProvider(t *testing.T) {
	err := ValidateConfig(models.Provider("square"), &models.GatewayConfig{})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
