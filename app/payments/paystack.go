package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"schoolpay/app/models"
	"time"

	"github.com/google/uuid"
)

const defaultPaystackBaseURL = "https://api.paystack.co"

// PaystackGateway talks to the Paystack REST API. Amounts are sent and
// received in minor units (kobo/cents).
type PaystackGateway struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewPaystackGateway() *PaystackGateway {
	return &PaystackGateway{
		BaseURL:    defaultPaystackBaseURL,
		HTTPClient: newHTTPClient(),
	}
}

func (g *PaystackGateway) Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error) {
	reference := uuid.NewString()

	cb, err := url.Parse(callbackURL)
	if err != nil {
		return nil, err
	}
	q := cb.Query()
	q.Set("reference", reference)
	cb.RawQuery = q.Encode()

	payload := map[string]interface{}{
		"email":        req.StudentEmail,
		"amount":       toMinorUnits(req.Amount),
		"currency":     req.Currency,
		"reference":    reference,
		"callback_url": cb.String(),
		"metadata": map[string]string{
			"school_id":  req.SchoolID,
			"student_id": req.StudentID,
			"fee_id":     req.FeeID,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("paystack initialize returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if !out.Status || out.Data.AuthorizationURL == "" {
		return nil, &ProviderError{Provider: models.ProviderPaystack, Message: out.Message}
	}

	return &CheckoutSession{
		Provider:    models.ProviderPaystack,
		Reference:   out.Data.Reference,
		RedirectURL: out.Data.AuthorizationURL,
	}, nil
}

func (g *PaystackGateway) Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.BaseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+cfg.SecretKey)

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status   string `json:"status"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			PaidAt   string `json:"paid_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("paystack verify returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if !out.Status || out.Data.Status != "success" {
		msg := out.Message
		if out.Data.Status != "" {
			msg = fmt.Sprintf("transaction status %q", out.Data.Status)
		}
		return nil, &VerificationError{Provider: models.ProviderPaystack, Reference: reference, Message: msg}
	}

	paidAt := time.Now()
	if t, err := time.Parse(time.RFC3339, out.Data.PaidAt); err == nil {
		paidAt = t
	}

	return &VerifiedPayment{
		Provider:  models.ProviderPaystack,
		Reference: reference,
		Amount:    fromMinorUnits(out.Data.Amount),
		Currency:  out.Data.Currency,
		PaidAt:    paidAt,
	}, nil
}
