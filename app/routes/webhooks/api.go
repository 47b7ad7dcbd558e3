package webhooks

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"schoolpay/app/models"
	"schoolpay/app/payments"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PaymentWebhookAPI receives asynchronous provider notifications. Per
// request: select provider -> authenticate signature -> record in the dedup
// ledger -> map event type -> settle the correlated fee. Matched, ignored
// and duplicate events all answer 200 so providers stop redelivering;
// only authentication failures answer 401.
func PaymentWebhookAPI(c *fiber.Ctx, store Store, manager *payments.Manager) error {
	provider, err := models.ParseProvider(c.Query("provider"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Unsupported provider"})
	}
	schoolID := c.Query("school_id")
	if schoolID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing school_id"})
	}

	cfg, err := manager.ResolveConfig(schoolID, provider)
	if err != nil {
		if errors.Is(err, payments.ErrGatewayNotConfigured) {
			// No credentials means no way to authenticate the sender.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		log.Printf("Webhook config resolution failed (%s, school=%s): %v", provider, schoolID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal error"})
	}

	rawBody := append([]byte(nil), c.BodyRaw()...)
	headers := make(http.Header)
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := manager.AuthenticateWebhook(ctx, provider, cfg, headers, rawBody); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid signature"})
	}

	event, err := payments.ParseWebhookEvent(provider, headers, rawBody)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid payload"})
	}

	stored := &models.WebhookEvent{
		SchoolID:        schoolID,
		Provider:        provider,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		Payload:         string(rawBody),
		SignatureValid:  true,
	}
	created, err := store.RecordEvent(stored)
	if err != nil {
		log.Printf("Webhook event persist failed (%s): %v", provider, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal error"})
	}
	if !created {
		return c.JSON(fiber.Map{"message": "Event already processed"})
	}

	if !event.Succeeded {
		_ = store.MarkProcessed(stored.ID, nil)
		return c.JSON(fiber.Map{"message": "Event ignored"})
	}

	_, settledNow, err := store.Settle(provider, event.Reference, event.Amount, event.Currency)
	if err != nil {
		if err == sql.ErrNoRows {
			// No payment carries this reference. Ack so the provider stops
			// retrying; the event stays in the ledger for inspection.
			_ = store.MarkProcessed(stored.ID, errors.New("no payment matches reference "+event.Reference))
			return c.JSON(fiber.Map{"message": "Event acknowledged"})
		}
		_ = store.MarkProcessed(stored.ID, err)
		log.Printf("Webhook settlement failed (%s, ref=%s): %v", provider, event.Reference, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Settlement failed"})
	}

	_ = store.MarkProcessed(stored.ID, nil)
	if settledNow {
		log.Printf("Fee settled via %s webhook (ref=%s)", provider, event.Reference)
	}
	return c.JSON(fiber.Map{"message": "Event processed"})
}
