package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"schoolpay/app/models"
	"strconv"
	"strings"
	"time"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// StripeGateway drives Stripe hosted Checkout. The API is form-encoded;
// amounts are in minor units.
type StripeGateway struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{
		BaseURL:    defaultStripeBaseURL,
		HTTPClient: newHTTPClient(),
	}
}

func (g *StripeGateway) Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error) {
	// Stripe substitutes the session id into the success URL itself.
	successURL := callbackURL + "&session_id={CHECKOUT_SESSION_ID}"
	cancelURL := callbackURL + "&canceled=true"

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("client_reference_id", req.FeeID)
	form.Set("customer_email", req.StudentEmail)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(toMinorUnits(req.Amount), 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Description)
	form.Set("metadata[school_id]", req.SchoolID)
	form.Set("metadata[student_id]", req.StudentID)
	form.Set("metadata[fee_id]", req.FeeID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		ID    string `json:"id"`
		URL   string `json:"url"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("stripe session create returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return nil, &ProviderError{Provider: models.ProviderStripe, Message: out.Error.Message}
	}
	if out.ID == "" || out.URL == "" {
		return nil, &ProviderError{Provider: models.ProviderStripe, Message: fmt.Sprintf("unexpected response (status=%d)", resp.StatusCode)}
	}

	return &CheckoutSession{
		Provider:    models.ProviderStripe,
		Reference:   out.ID,
		RedirectURL: out.URL,
	}, nil
}

func (g *StripeGateway) Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.BaseURL+"/v1/checkout/sessions/"+url.PathEscape(reference), nil)
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
		ID            string `json:"id"`
		PaymentStatus string `json:"payment_status"`
		AmountTotal   int64  `json:"amount_total"`
		Currency      string `json:"currency"`
		Error         *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("stripe session retrieve returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return nil, &VerificationError{Provider: models.ProviderStripe, Reference: reference, Message: out.Error.Message}
	}
	if out.PaymentStatus != "paid" {
		return nil, &VerificationError{Provider: models.ProviderStripe, Reference: reference,
			Message: fmt.Sprintf("payment status %q", out.PaymentStatus)}
	}

	return &VerifiedPayment{
		Provider:  models.ProviderStripe,
		Reference: out.ID,
		Amount:    fromMinorUnits(out.AmountTotal),
		Currency:  strings.ToUpper(out.Currency),
		PaidAt:    time.Now(),
	}, nil
}
