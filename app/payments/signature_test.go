package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hexHMAC256(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func hexHMAC512(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaystackSignature(t *testing.T) {
	secret := "sk_test_abc"
	body := []byte(`{"event":"charge.success"}`)
	sig := hexHMAC512(secret, body)

	assert.True(t, VerifyPaystackSignature(body, sig, secret))
	assert.False(t, VerifyPaystackSignature([]byte(`{"event":"charge.success","amount":1}`), sig, secret))
	assert.False(t, VerifyPaystackSignature(body, sig, "sk_test_other"))
	assert.False(t, VerifyPaystackSignature(body, "", secret))
	assert.False(t, VerifyPaystackSignature(body, "not-hex", secret))
}

func TestVerifyRazorpaySignature(t *testing.T) {
	secret := "whsec_rzp"
	body := []byte(`{"event":"payment.captured"}`)
	sig := hexHMAC256(secret, body)

	assert.True(t, VerifyRazorpaySignature(body, sig, secret))
	assert.False(t, VerifyRazorpaySignature(append(body, ' '), sig, secret))
	assert.False(t, VerifyRazorpaySignature(body, sig, "wrong"))
}

func TestVerifyFlutterwaveHash(t *testing.T) {
	assert.True(t, VerifyFlutterwaveHash("my-hash", "my-hash"))
	assert.True(t, VerifyFlutterwaveHash(" my-hash ", "my-hash"))
	assert.False(t, VerifyFlutterwaveHash("other", "my-hash"))
	assert.False(t, VerifyFlutterwaveHash("", "my-hash"))
	assert.False(t, VerifyFlutterwaveHash("my-hash", ""))
}

func stripeHeader(secret string, body []byte, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), body)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hexHMAC256(secret, []byte(signed)))
}

func TestVerifyStripeSignature(t *testing.T) {
	secret := "whsec_stripe"
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	assert.True(t, VerifyStripeSignature(body, stripeHeader(secret, body, now), secret, now))

	// tampered body fails even with a fresh timestamp
	assert.False(t, VerifyStripeSignature([]byte(`{"id":"evt_2"}`), stripeHeader(secret, body, now), secret, now))

	// wrong secret
	assert.False(t, VerifyStripeSignature(body, stripeHeader("whsec_other", body, now), secret, now))

	// stale timestamp is rejected as a replay
	old := now.Add(-10 * time.Minute)
	assert.False(t, VerifyStripeSignature(body, stripeHeader(secret, body, old), secret, now))

	// a few minutes of clock skew is tolerated
	skewed := now.Add(2 * time.Minute)
	assert.True(t, VerifyStripeSignature(body, stripeHeader(secret, body, skewed), secret, now))

	// malformed headers
	assert.False(t, VerifyStripeSignature(body, "", secret, now))
	assert.False(t, VerifyStripeSignature(body, "v1=abcdef", secret, now))
	assert.False(t, VerifyStripeSignature(body, fmt.Sprintf("t=%d", now.Unix()), secret, now))
}

func TestVerifyStripeSignatureMultipleCandidates(t *testing.T) {
	secret := "whsec_stripe"
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	signed := fmt.Sprintf("%d.%s", now.Unix(), body)
	good := hexHMAC256(secret, []byte(signed))
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), hexHMAC256("rotated-out", []byte(signed)), good)

	assert.True(t, VerifyStripeSignature(body, header, secret, now))
}
