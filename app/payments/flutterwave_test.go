package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"schoolpay/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlutterwaveInitiate(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/payments", r.URL.Path)
		require.Equal(t, "Bearer FLWSECK_TEST-x", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Hosted Link",
			"data":    map[string]string{"link": "https://checkout.flutterwave.com/v3/hosted/pay/xyz"},
		})
	}))
	defer srv.Close()

	gw := NewFlutterwaveGateway()
	gw.BaseURL = srv.URL

	session, err := gw.Initiate(context.Background(), &models.GatewayConfig{SecretKey: "FLWSECK_TEST-x", WebhookHash: "h"}, InitiateRequest{
		Provider:     models.ProviderFlutterwave,
		SchoolID:     "school-1",
		StudentEmail: "ada@example.com",
		FeeID:        "fee-1",
		Amount:       2500,
		Currency:     "NGN",
		Description:  "Term 2 Tuition",
	}, "https://portal.example/payments/callback?provider=flutterwave&school_id=school-1&fee_id=fee-1")
	require.NoError(t, err)

	// major units on the wire, unlike Paystack and Stripe
	assert.Equal(t, float64(2500), gotBody["amount"])
	assert.NotEmpty(t, session.Reference)
	assert.Equal(t, session.Reference, gotBody["tx_ref"])
	assert.Equal(t, "https://checkout.flutterwave.com/v3/hosted/pay/xyz", session.RedirectURL)

	redirect, err := url.Parse(gotBody["redirect_url"].(string))
	require.NoError(t, err)
	assert.Equal(t, session.Reference, redirect.Query().Get("tx_ref"))
}

func TestFlutterwaveVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/transactions/verify_by_reference", r.URL.Path)
		require.Equal(t, "tx-777", r.URL.Query().Get("tx_ref"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data": map[string]interface{}{
				"status":     "successful",
				"amount":     2500,
				"currency":   "NGN",
				"created_at": "2026-03-01T10:30:00Z",
			},
		})
	}))
	defer srv.Close()

	gw := NewFlutterwaveGateway()
	gw.BaseURL = srv.URL

	verified, err := gw.Verify(context.Background(), &models.GatewayConfig{SecretKey: "FLWSECK_TEST-x"}, "tx-777")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, verified.Amount)
	assert.Equal(t, "NGN", verified.Currency)
}

func TestFlutterwaveVerifyFailedTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"status": "failed"},
		})
	}))
	defer srv.Close()

	gw := NewFlutterwaveGateway()
	gw.BaseURL = srv.URL

	_, err := gw.Verify(context.Background(), &models.GatewayConfig{SecretKey: "FLWSECK_TEST-x"}, "tx-777")

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "failed")
}
