package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"schoolpay/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeInitiate(t *testing.T) {
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test_stripe", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_test_555",
			"url": "https://checkout.stripe.com/c/pay/cs_test_555",
		})
	}))
	defer srv.Close()

	gw := NewStripeGateway()
	gw.BaseURL = srv.URL

	session, err := gw.Initiate(context.Background(), &models.GatewayConfig{SecretKey: "sk_test_stripe", WebhookSecret: "whsec"}, InitiateRequest{
		Provider:     models.ProviderStripe,
		SchoolID:     "school-1",
		StudentEmail: "ada@example.com",
		FeeID:        "fee-1",
		Amount:       125.50,
		Currency:     "USD",
		Description:  "Term 2 Tuition",
	}, "https://portal.example/payments/callback?provider=stripe&school_id=school-1&fee_id=fee-1")
	require.NoError(t, err)

	// the session id is the reference used for all later correlation
	assert.Equal(t, "cs_test_555", session.Reference)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_555", session.RedirectURL)

	assert.Equal(t, "12550", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"][0])
	assert.Equal(t, "fee-1", gotForm["client_reference_id"][0])
	assert.Contains(t, gotForm["success_url"][0], "{CHECKOUT_SESSION_ID}")
	assert.Contains(t, gotForm["cancel_url"][0], "canceled=true")
}

func TestStripeInitiateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Invalid API Key provided"},
		})
	}))
	defer srv.Close()

	gw := NewStripeGateway()
	gw.BaseURL = srv.URL

	_, err := gw.Initiate(context.Background(), &models.GatewayConfig{SecretKey: "bad"}, InitiateRequest{
		Provider: models.ProviderStripe, Amount: 10, Currency: "USD",
	}, "https://portal.example/payments/callback?provider=stripe")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "Invalid API Key")
}

func TestStripeVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions/cs_test_555", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "cs_test_555",
			"payment_status": "paid",
			"amount_total":   12550,
			"currency":       "usd",
		})
	}))
	defer srv.Close()

	gw := NewStripeGateway()
	gw.BaseURL = srv.URL

	verified, err := gw.Verify(context.Background(), &models.GatewayConfig{SecretKey: "sk_test_stripe"}, "cs_test_555")
	require.NoError(t, err)
	assert.Equal(t, 125.50, verified.Amount)
	assert.Equal(t, "USD", verified.Currency)
}

func TestStripeVerifyUnpaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "cs_test_555",
			"payment_status": "unpaid",
		})
	}))
	defer srv.Close()

	gw := NewStripeGateway()
	gw.BaseURL = srv.URL

	_, err := gw.Verify(context.Background(), &models.GatewayConfig{SecretKey: "sk_test_stripe"}, "cs_test_555")

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "unpaid")
}
