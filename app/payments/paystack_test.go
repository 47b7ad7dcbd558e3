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

func newPaystackTestGateway(handler http.Handler) (*PaystackGateway, *httptest.Server) {
	srv := httptest.NewServer(handler)
	gw := NewPaystackGateway()
	gw.BaseURL = srv.URL
	return gw, srv
}

func TestPaystackInitiate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	gw, srv := newPaystackTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc",
				"reference":         gotBody["reference"].(string),
			},
		})
	}))
	defer srv.Close()

	session, err := gw.Initiate(context.Background(), &models.GatewayConfig{SecretKey: "sk_test_x"}, InitiateRequest{
		Provider:     models.ProviderPaystack,
		SchoolID:     "school-1",
		StudentID:    "student-1",
		StudentEmail: "ada@example.com",
		FeeID:        "fee-1",
		Amount:       5000,
		Currency:     "NGN",
	}, "https://portal.example/payments/callback?provider=paystack&school_id=school-1&fee_id=fee-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_x", gotAuth)
	assert.Equal(t, float64(500000), gotBody["amount"])
	assert.Equal(t, "ada@example.com", gotBody["email"])
	assert.NotEmpty(t, session.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", session.RedirectURL)

	// the reference rides along on the callback URL
	cb, err := url.Parse(gotBody["callback_url"].(string))
	require.NoError(t, err)
	assert.Equal(t, session.Reference, cb.Query().Get("reference"))
	assert.Equal(t, "fee-1", cb.Query().Get("fee_id"))
}

func TestPaystackInitiateDeclined(t *testing.T) {
	gw, srv := newPaystackTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": false, "message": "Invalid key"})
	}))
	defer srv.Close()

	_, err := gw.Initiate(context.Background(), &models.GatewayConfig{SecretKey: "bad"}, InitiateRequest{
		Provider: models.ProviderPaystack, Amount: 10, Currency: "NGN",
	}, "https://portal.example/payments/callback?provider=paystack")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.ProviderPaystack, perr.Provider)
	assert.Contains(t, perr.Message, "Invalid key")
}

func TestPaystackVerify(t *testing.T) {
	gw, srv := newPaystackTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		require.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"status":   "success",
				"amount":   500000,
				"currency": "NGN",
				"paid_at":  "2026-03-01T10:30:00Z",
			},
		})
	}))
	defer srv.Close()

	verified, err := gw.Verify(context.Background(), &models.GatewayConfig{SecretKey: "sk_test_x"}, "ref-123")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, verified.Amount)
	assert.Equal(t, "NGN", verified.Currency)
	assert.Equal(t, "ref-123", verified.Reference)
	assert.Equal(t, 2026, verified.PaidAt.Year())
}

func TestPaystackVerifyAbandoned(t *testing.T) {
	gw, srv := newPaystackTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"status": "abandoned"},
		})
	}))
	defer srv.Close()

	_, err := gw.Verify(context.Background(), &models.GatewayConfig{SecretKey: "sk_test_x"}, "ref-123")

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ref-123", verr.Reference)
	assert.Contains(t, verr.Message, "abandoned")
}
