package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"schoolpay/app/models"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPayPalSandboxURL = "https://api-m.sandbox.paypal.com"
	defaultPayPalLiveURL    = "https://api-m.paypal.com"
)

// PayPalGateway drives the Orders v2 API. The host depends on the school's
// configured mode; capture doubles as verification because capturing is
// what finalizes the charge.
type PayPalGateway struct {
	SandboxURL string
	LiveURL    string
	HTTPClient *http.Client
}

func NewPayPalGateway() *PayPalGateway {
	return &PayPalGateway{
		SandboxURL: defaultPayPalSandboxURL,
		LiveURL:    defaultPayPalLiveURL,
		HTTPClient: newHTTPClient(),
	}
}

func (g *PayPalGateway) hostFor(cfg *models.GatewayConfig) string {
	if cfg.Mode == models.ModeLive {
		return g.LiveURL
	}
	return g.SandboxURL
}

// accessToken exchanges the client credentials for a bearer token. Tokens
// are requested per call rather than cached: credentials are per-school and
// can be rotated at any time.
func (g *PayPalGateway) accessToken(ctx context.Context, cfg *models.GatewayConfig) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.hostFor(cfg)+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token request failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal token response missing access_token")
	}
	return out.AccessToken, nil
}

func (g *PayPalGateway) Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error) {
	token, err := g.accessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": req.FeeID,
			"custom_id":    req.FeeID,
			"description":  req.Description,
			"amount": map[string]string{
				"currency_code": req.Currency,
				"value":         strconv.FormatFloat(req.Amount, 'f', 2, 64),
			},
		}},
		"application_context": map[string]string{
			"return_url": callbackURL,
			"cancel_url": callbackURL + "&canceled=true",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.hostFor(cfg)+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("paypal order create returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}

	var approveURL string
	for _, link := range out.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}
	if out.ID == "" || approveURL == "" {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("missing approve link (status=%d)", resp.StatusCode)
		}
		return nil, &ProviderError{Provider: models.ProviderPayPal, Message: msg}
	}

	return &CheckoutSession{
		Provider:    models.ProviderPayPal,
		Reference:   out.ID,
		RedirectURL: approveURL,
	}, nil
}

// Verify captures the order. For PayPal, capture and verification are the
// same call: a COMPLETED capture both confirms and finalizes the charge.
func (g *PayPalGateway) Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error) {
	token, err := g.accessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.hostFor(cfg)+"/v2/checkout/orders/"+url.PathEscape(reference)+"/capture", bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					Status string `json:"status"`
					Amount struct {
						CurrencyCode string `json:"currency_code"`
						Value        string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("paypal capture returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Status != "COMPLETED" {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("order status %q", out.Status)
		}
		return nil, &VerificationError{Provider: models.ProviderPayPal, Reference: reference, Message: msg}
	}

	amount := 0.0
	currency := ""
	for _, pu := range out.PurchaseUnits {
		for _, capture := range pu.Payments.Captures {
			if capture.Status == "COMPLETED" {
				if v, err := strconv.ParseFloat(capture.Amount.Value, 64); err == nil {
					amount = v
					currency = capture.Amount.CurrencyCode
				}
			}
		}
	}

	return &VerifiedPayment{
		Provider:  models.ProviderPayPal,
		Reference: reference,
		Amount:    amount,
		Currency:  currency,
		PaidAt:    time.Now(),
	}, nil
}

// VerifyWebhookSignature authenticates an inbound PayPal webhook through the
// verify-webhook-signature API; PayPal's scheme is certificate-based, so
// the provider does the check for us.
func (g *PayPalGateway) VerifyWebhookSignature(ctx context.Context, cfg *models.GatewayConfig, headers http.Header, rawEvent []byte) error {
	token, err := g.accessToken(ctx, cfg)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"auth_algo":         headers.Get("Paypal-Auth-Algo"),
		"cert_url":          headers.Get("Paypal-Cert-Url"),
		"transmission_id":   headers.Get("Paypal-Transmission-Id"),
		"transmission_sig":  headers.Get("Paypal-Transmission-Sig"),
		"transmission_time": headers.Get("Paypal-Transmission-Time"),
		"webhook_id":        cfg.WebhookID,
		"webhook_event":     json.RawMessage(rawEvent),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.hostFor(cfg)+"/v1/notifications/verify-webhook-signature", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("paypal webhook verification returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.VerificationStatus != "SUCCESS" {
		return ErrInvalidSignature
	}
	return nil
}
