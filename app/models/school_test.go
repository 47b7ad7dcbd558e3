package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewaySettingsValueScanRoundTrip(t *testing.T) {
	settings := GatewaySettings{
		ProviderPaystack: {SecretKey: "sk_live_abc", PublicKey: "pk_live_abc"},
		ProviderPayPal:   {ClientID: "cid", ClientSecret: "cs", WebhookID: "wh", Mode: ModeLive},
	}

	raw, err := settings.Value()
	require.NoError(t, err)

	var decoded GatewaySettings
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, "sk_live_abc", decoded[ProviderPaystack].SecretKey)
	assert.Equal(t, ModeLive, decoded[ProviderPayPal].Mode)
}

func TestGatewaySettingsScanNil(t *testing.T) {
	var settings GatewaySettings
	require.NoError(t, settings.Scan(nil))
	assert.NotNil(t, settings)
	assert.Empty(t, settings)
}

func TestGatewaySettingsNilValue(t *testing.T) {
	var settings GatewaySettings
	raw, err := settings.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), raw)
}

func TestGatewayConfigRedacted(t *testing.T) {
	cfg := &GatewayConfig{
		SecretKey:     "sk_live_1234567890",
		PublicKey:     "pk_live_1234567890",
		KeyID:         "rzp_live_key",
		KeySecret:     "rzp_live_secret",
		ClientID:      "paypal-client",
		ClientSecret:  "paypal-secret",
		WebhookSecret: "whsec_123",
		WebhookHash:   "abc",
		Mode:          ModeLive,
	}

	red := cfg.Redacted()
	assert.Equal(t, "****7890", red.SecretKey)
	assert.Equal(t, "****cret", red.KeySecret)
	assert.Equal(t, "****cret", red.ClientSecret)
	assert.Equal(t, "****_123", red.WebhookSecret)
	assert.Equal(t, "****", red.WebhookHash)

	// identifiers stay readable
	assert.Equal(t, "pk_live_1234567890", red.PublicKey)
	assert.Equal(t, "rzp_live_key", red.KeyID)
	assert.Equal(t, "paypal-client", red.ClientID)
	assert.Equal(t, ModeLive, red.Mode)

	// the original is untouched
	assert.Equal(t, "sk_live_1234567890", cfg.SecretKey)
}

func TestParseProvider(t *testing.T) {
	for _, p := range Providers {
		parsed, err := ParseProvider(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParseProvider("square")
	assert.Error(t, err)
	_, err = ParseProvider("")
	assert.Error(t, err)
}
