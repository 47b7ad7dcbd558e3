package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"schoolpay/app/models"
	"strconv"
	"strings"
)

// Event is a provider webhook payload normalized to the fields settlement
// needs. Amount is in major units. Succeeded is true only for the event
// types that report a completed charge; everything else is acknowledged and
// ignored.
type Event struct {
	Provider  models.Provider
	ID        string
	Type      string
	Reference string
	Amount    float64
	Currency  string
	Succeeded bool
}

// ParseWebhookEvent decodes a provider's native webhook payload. It must
// only be called after the signature check has passed.
func ParseWebhookEvent(provider models.Provider, headers http.Header, payload []byte) (*Event, error) {
	switch provider {
	case models.ProviderPaystack:
		return parsePaystackEvent(payload)
	case models.ProviderStripe:
		return parseStripeEvent(payload)
	case models.ProviderFlutterwave:
		return parseFlutterwaveEvent(payload)
	case models.ProviderRazorpay:
		return parseRazorpayEvent(headers, payload)
	case models.ProviderPayPal:
		return parsePayPalEvent(payload)
	default:
		return nil, ErrUnsupportedProvider
	}
}

func parsePaystackEvent(payload []byte) (*Event, error) {
	var raw struct {
		Event string `json:"event"`
		Data  struct {
			ID        int64  `json:"id"`
			Reference string `json:"reference"`
			Amount    int64  `json:"amount"`
			Currency  string `json:"currency"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw.Event == "" {
		return nil, errors.New("paystack payload missing event type")
	}

	ev := &Event{
		Provider:  models.ProviderPaystack,
		Type:      raw.Event,
		Reference: raw.Data.Reference,
		Amount:    fromMinorUnits(raw.Data.Amount),
		Currency:  raw.Data.Currency,
		Succeeded: raw.Event == "charge.success",
	}
	// Paystack sends no delivery id; the transaction id is stable across
	// redeliveries of the same event.
	ev.ID = fmt.Sprintf("%s:%d", raw.Event, raw.Data.ID)
	return ev, nil
}

func parseStripeEvent(payload []byte) (*Event, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID          string `json:"id"`
				AmountTotal int64  `json:"amount_total"`
				Currency    string `json:"currency"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" || raw.Type == "" {
		return nil, errors.New("stripe payload missing event id or type")
	}

	return &Event{
		Provider: models.ProviderStripe,
		ID:       raw.ID,
		Type:     raw.Type,
		// The checkout session id is the stored reference; correlation is
		// always by reference, never by client_reference_id.
		Reference: raw.Data.Object.ID,
		Amount:    fromMinorUnits(raw.Data.Object.AmountTotal),
		Currency:  strings.ToUpper(raw.Data.Object.Currency),
		Succeeded: raw.Type == "checkout.session.completed",
	}, nil
}

func parseFlutterwaveEvent(payload []byte) (*Event, error) {
	var raw struct {
		Event string `json:"event"`
		Data  struct {
			ID       int64   `json:"id"`
			TxRef    string  `json:"tx_ref"`
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
			Status   string  `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw.Event == "" {
		return nil, errors.New("flutterwave payload missing event type")
	}

	return &Event{
		Provider:  models.ProviderFlutterwave,
		ID:        fmt.Sprintf("%s:%d", raw.Event, raw.Data.ID),
		Type:      raw.Event,
		Reference: raw.Data.TxRef,
		Amount:    raw.Data.Amount,
		Currency:  raw.Data.Currency,
		Succeeded: strings.EqualFold(raw.Data.Status, "successful"),
	}, nil
}

func parseRazorpayEvent(headers http.Header, payload []byte) (*Event, error) {
	var raw struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID       string `json:"id"`
					OrderID  string `json:"order_id"`
					Amount   int64  `json:"amount"`
					Currency string `json:"currency"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw.Event == "" {
		return nil, errors.New("razorpay payload missing event type")
	}

	eventID := strings.TrimSpace(headers.Get("x-razorpay-event-id"))
	if eventID == "" {
		eventID = raw.Event + ":" + raw.Payload.Payment.Entity.ID
	}

	return &Event{
		Provider:  models.ProviderRazorpay,
		ID:        eventID,
		Type:      raw.Event,
		Reference: raw.Payload.Payment.Entity.OrderID,
		Amount:    fromMinorUnits(raw.Payload.Payment.Entity.Amount),
		Currency:  raw.Payload.Payment.Entity.Currency,
		Succeeded: raw.Event == "payment.authorized" || raw.Event == "payment.captured",
	}, nil
}

func parsePayPalEvent(payload []byte) (*Event, error) {
	var raw struct {
		ID        string `json:"id"`
		EventType string `json:"event_type"`
		Resource  struct {
			ID            string `json:"id"`
			PurchaseUnits []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"purchase_units"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw.EventType == "" {
		return nil, errors.New("paypal payload missing event type")
	}

	ev := &Event{
		Provider:  models.ProviderPayPal,
		ID:        raw.ID,
		Type:      raw.EventType,
		Reference: raw.Resource.ID,
		Succeeded: raw.EventType == "CHECKOUT.ORDER.APPROVED",
	}
	if ev.ID == "" {
		ev.ID = raw.EventType + ":" + raw.Resource.ID
	}
	if len(raw.Resource.PurchaseUnits) > 0 {
		amt := raw.Resource.PurchaseUnits[0].Amount
		if v, err := strconv.ParseFloat(amt.Value, 64); err == nil {
			ev.Amount = v
		}
		ev.Currency = amt.CurrencyCode
	}
	return ev, nil
}
