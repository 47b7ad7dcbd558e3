package payments

import (
	"database/sql"
	"fmt"
	"schoolpay/app/database"
	"schoolpay/app/models"
	"strings"
)

// ConfigResolver loads a school's credential bundle for one provider.
// Implementations must read fresh state on every call; gateway credentials
// can change between requests.
type ConfigResolver interface {
	GatewayConfig(schoolID string, provider models.Provider) (*models.GatewayConfig, error)
}

// StoreResolver resolves gateway configuration from the schools table.
type StoreResolver struct {
	db *sql.DB
}

func NewStoreResolver(db *sql.DB) *StoreResolver {
	return &StoreResolver{db: db}
}

func (r *StoreResolver) GatewayConfig(schoolID string, provider models.Provider) (*models.GatewayConfig, error) {
	settings, err := database.GetSchoolGatewaySettings(r.db, schoolID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("school %s: %w", schoolID, ErrGatewayNotConfigured)
		}
		return nil, err
	}
	cfg, ok := settings[provider]
	if !ok || cfg == nil {
		return nil, fmt.Errorf("school %s has no %s settings: %w", schoolID, provider, ErrGatewayNotConfigured)
	}
	if err := ValidateConfig(provider, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig checks that the credential bundle carries every key the
// provider's API calls will need, so a malformed config fails before any
// network traffic.
func ValidateConfig(provider models.Provider, cfg *models.GatewayConfig) error {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch provider {
	case models.ProviderPaystack:
		require("secret_key", cfg.SecretKey)
	case models.ProviderStripe:
		require("secret_key", cfg.SecretKey)
		require("webhook_secret", cfg.WebhookSecret)
	case models.ProviderFlutterwave:
		require("secret_key", cfg.SecretKey)
		require("webhook_hash", cfg.WebhookHash)
	case models.ProviderRazorpay:
		require("key_id", cfg.KeyID)
		require("key_secret", cfg.KeySecret)
		require("webhook_secret", cfg.WebhookSecret)
	case models.ProviderPayPal:
		require("client_id", cfg.ClientID)
		require("client_secret", cfg.ClientSecret)
		require("webhook_id", cfg.WebhookID)
		if cfg.Mode != models.ModeSandbox && cfg.Mode != models.ModeLive {
			missing = append(missing, "mode")
		}
	default:
		return ErrUnsupportedProvider
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s settings missing %s: %w", provider, strings.Join(missing, ", "), ErrGatewayNotConfigured)
	}
	return nil
}
