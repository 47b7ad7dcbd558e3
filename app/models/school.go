package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// School is a tenant. Each school carries its own payment gateway
// credentials in PaymentSettings, keyed by provider.
type School struct {
	ID              string          `json:"id" validate:"omitempty,uuid"`
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone,omitempty"`
	Currency        string          `json:"currency" validate:"required,len=3"`
	IsActive        bool            `json:"is_active"`
	PaymentSettings GatewaySettings `json:"payment_settings,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

// GatewayConfig is one school's credential bundle for a single provider.
// Which fields are required depends on the provider; see payments.ValidateConfig.
type GatewayConfig struct {
	SecretKey     string      `json:"secret_key,omitempty"`
	PublicKey     string      `json:"public_key,omitempty"`
	KeyID         string      `json:"key_id,omitempty"`
	KeySecret     string      `json:"key_secret,omitempty"`
	ClientID      string      `json:"client_id,omitempty"`
	ClientSecret  string      `json:"client_secret,omitempty"`
	WebhookSecret string      `json:"webhook_secret,omitempty"`
	WebhookHash   string      `json:"webhook_hash,omitempty"`
	WebhookID     string      `json:"webhook_id,omitempty"`
	Mode          GatewayMode `json:"mode,omitempty"`
}

// GatewaySettings is stored as a JSONB column on schools.
type GatewaySettings map[Provider]*GatewayConfig

func (s GatewaySettings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *GatewaySettings) Scan(value interface{}) error {
	if value == nil {
		*s = make(GatewaySettings)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into GatewaySettings", value)
	}
	return json.Unmarshal(bytes, s)
}

// Redacted returns a copy safe to return from the API: secrets are masked,
// identifiers (key id, client id, webhook id, mode) stay readable.
func (c *GatewayConfig) Redacted() *GatewayConfig {
	out := &GatewayConfig{
		PublicKey: c.PublicKey,
		KeyID:     c.KeyID,
		ClientID:  c.ClientID,
		WebhookID: c.WebhookID,
		Mode:      c.Mode,
	}
	mask := func(v string) string {
		if v == "" {
			return ""
		}
		if len(v) <= 4 {
			return "****"
		}
		return "****" + v[len(v)-4:]
	}
	out.SecretKey = mask(c.SecretKey)
	out.KeySecret = mask(c.KeySecret)
	out.ClientSecret = mask(c.ClientSecret)
	out.WebhookSecret = mask(c.WebhookSecret)
	out.WebhookHash = mask(c.WebhookHash)
	return out
}
