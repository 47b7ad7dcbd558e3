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

const defaultFlutterwaveBaseURL = "https://api.flutterwave.com"

// FlutterwaveGateway talks to the Flutterwave v3 API. Unlike Paystack and
// Stripe, amounts travel in major units.
type FlutterwaveGateway struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewFlutterwaveGateway() *FlutterwaveGateway {
	return &FlutterwaveGateway{
		BaseURL:    defaultFlutterwaveBaseURL,
		HTTPClient: newHTTPClient(),
	}
}

func (g *FlutterwaveGateway) Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error) {
	txRef := uuid.NewString()

	cb, err := url.Parse(callbackURL)
	if err != nil {
		return nil, err
	}
	q := cb.Query()
	q.Set("tx_ref", txRef)
	cb.RawQuery = q.Encode()

	payload := map[string]interface{}{
		"tx_ref":       txRef,
		"amount":       req.Amount,
		"currency":     req.Currency,
		"redirect_url": cb.String(),
		"customer": map[string]string{
			"email": req.StudentEmail,
		},
		"customizations": map[string]string{
			"title":       req.Description,
			"description": req.Description,
		},
		"meta": map[string]string{
			"school_id":  req.SchoolID,
			"student_id": req.StudentID,
			"fee_id":     req.FeeID,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v3/payments", bytes.NewReader(body))
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
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("flutterwave payment create returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Status != "success" || out.Data.Link == "" {
		return nil, &ProviderError{Provider: models.ProviderFlutterwave, Message: out.Message}
	}

	return &CheckoutSession{
		Provider:    models.ProviderFlutterwave,
		Reference:   txRef,
		RedirectURL: out.Data.Link,
	}, nil
}

func (g *FlutterwaveGateway) Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error) {
	u := g.BaseURL + "/v3/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(reference)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
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
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string  `json:"status"`
			Amount    float64 `json:"amount"`
			Currency  string  `json:"currency"`
			CreatedAt string  `json:"created_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("flutterwave verify returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Status != "success" || out.Data.Status != "successful" {
		msg := out.Message
		if out.Data.Status != "" {
			msg = fmt.Sprintf("transaction status %q", out.Data.Status)
		}
		return nil, &VerificationError{Provider: models.ProviderFlutterwave, Reference: reference, Message: msg}
	}

	paidAt := time.Now()
	if t, err := time.Parse(time.RFC3339, out.Data.CreatedAt); err == nil {
		paidAt = t
	}

	return &VerifiedPayment{
		Provider:  models.ProviderFlutterwave,
		Reference: reference,
		Amount:    out.Data.Amount,
		Currency:  out.Data.Currency,
		PaidAt:    paidAt,
	}, nil
}
