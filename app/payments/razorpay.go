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
)

const defaultRazorpayBaseURL = "https://api.razorpay.com"

// RazorpayGateway creates orders for Razorpay's client-side checkout widget.
// There is no hosted redirect page: initiation returns the order id, key id
// and minor-unit amount the widget needs. Amounts are in paise.
type RazorpayGateway struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewRazorpayGateway() *RazorpayGateway {
	return &RazorpayGateway{
		BaseURL:    defaultRazorpayBaseURL,
		HTTPClient: newHTTPClient(),
	}
}

func (g *RazorpayGateway) Initiate(ctx context.Context, cfg *models.GatewayConfig, req InitiateRequest, callbackURL string) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"amount":   toMinorUnits(req.Amount),
		"currency": req.Currency,
		"receipt":  req.FeeID,
		"notes": map[string]string{
			"school_id":  req.SchoolID,
			"student_id": req.StudentID,
			"fee_id":     req.FeeID,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(cfg.KeyID, cfg.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Error    *struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("razorpay order create returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return nil, &ProviderError{Provider: models.ProviderRazorpay, Message: out.Error.Description}
	}
	if out.ID == "" {
		return nil, &ProviderError{Provider: models.ProviderRazorpay, Message: fmt.Sprintf("unexpected response (status=%d)", resp.StatusCode)}
	}

	return &CheckoutSession{
		Provider:    models.ProviderRazorpay,
		Reference:   out.ID,
		OrderID:     out.ID,
		KeyID:       cfg.KeyID,
		AmountMinor: out.Amount,
	}, nil
}

// Verify checks the order's payments server-side and accepts a captured
// payment. Client-side checkout signatures alone are not trusted.
func (g *RazorpayGateway) Verify(ctx context.Context, cfg *models.GatewayConfig, reference string) (*VerifiedPayment, error) {
	u := g.BaseURL + "/v1/orders/" + url.PathEscape(reference) + "/payments"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(cfg.KeyID, cfg.KeySecret)

	resp, err := g.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var out struct {
		Count int `json:"count"`
		Items []struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"items"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("razorpay order payments returned unparseable response (status=%d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return nil, &VerificationError{Provider: models.ProviderRazorpay, Reference: reference, Message: out.Error.Description}
	}

	for _, item := range out.Items {
		if item.Status == "captured" {
			return &VerifiedPayment{
				Provider:  models.ProviderRazorpay,
				Reference: reference,
				Amount:    fromMinorUnits(item.Amount),
				Currency:  item.Currency,
				PaidAt:    time.Now(),
			}, nil
		}
	}
	return nil, &VerificationError{Provider: models.ProviderRazorpay, Reference: reference,
		Message: "no captured payment for order"}
}
