package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
	"time"
)

// VerifyPaystackSignature checks the x-paystack-signature header: an
// HMAC-SHA512 of the raw body keyed with the secret key, hex encoded.
func VerifyPaystackSignature(payload []byte, signatureHeader, secretKey string) bool {
	return verifyHexHMAC(payload, signatureHeader, secretKey, sha512.New)
}

// VerifyRazorpaySignature checks the x-razorpay-signature header: an
// HMAC-SHA256 of the raw body keyed with the webhook secret.
func VerifyRazorpaySignature(payload []byte, signatureHeader, webhookSecret string) bool {
	return verifyHexHMAC(payload, signatureHeader, webhookSecret, sha256.New)
}

// VerifyFlutterwaveHash checks the verif-hash header. Flutterwave sends the
// pre-shared hash verbatim, so this is a constant-time token compare, not an
// HMAC over the body.
func VerifyFlutterwaveHash(hashHeader, expectedHash string) bool {
	header := strings.TrimSpace(hashHeader)
	expected := strings.TrimSpace(expectedHash)
	if header == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}

// stripeSignatureTolerance bounds how old a Stripe-Signature timestamp may
// be before the event is rejected as a possible replay.
const stripeSignatureTolerance = 5 * time.Minute

// VerifyStripeSignature checks the Stripe-Signature header
// ("t=<unix>,v1=<hex>,..."): an HMAC-SHA256 over "<t>.<body>" keyed with the
// endpoint's signing secret, with a freshness window on t.
func VerifyStripeSignature(payload []byte, signatureHeader, signingSecret string, now time.Time) bool {
	var timestamp string
	var candidates []string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > stripeSignatureTolerance || age < -stripeSignatureTolerance {
		return false
	}

	signed := append([]byte(timestamp+"."), payload...)
	for _, candidate := range candidates {
		if verifyHexHMAC(signed, candidate, signingSecret, sha256.New) {
			return true
		}
	}
	return false
}

func verifyHexHMAC(payload []byte, signatureHeader, secret string, hashFunc func() hash.Hash) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || secret == "" {
		return false
	}
	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}
	mac := hmac.New(hashFunc, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
