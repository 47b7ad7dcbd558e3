package database

import (
	"database/sql"
	"schoolpay/app/models"
	"time"
)

// RecordWebhookEvent inserts the inbound event before it is processed. The
// unique (provider, provider_event_id) key makes redelivered events
// detectable: created=false means this delivery is a duplicate and the
// original row is returned.
func RecordWebhookEvent(db *sql.DB, event *models.WebhookEvent) (bool, error) {
	insert := `INSERT INTO webhook_events (school_id, provider, provider_event_id, event_type, payload, signature_valid)
			   VALUES ($1, $2, $3, $4, $5, $6)
			   ON CONFLICT (provider, provider_event_id) DO NOTHING
			   RETURNING id, created_at`

	err := db.QueryRow(insert,
		event.SchoolID, string(event.Provider), event.ProviderEventID,
		event.EventType, event.Payload, event.SignatureValid,
	).Scan(&event.ID, &event.CreatedAt)

	if err == sql.ErrNoRows {
		// Conflict: a delivery with this event id was already recorded.
		existing := `SELECT id, created_at FROM webhook_events WHERE provider = $1 AND provider_event_id = $2`
		if err := db.QueryRow(existing, string(event.Provider), event.ProviderEventID).Scan(&event.ID, &event.CreatedAt); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkWebhookProcessed stamps the processing outcome on the event row.
func MarkWebhookProcessed(db *sql.DB, eventID string, procErr error) error {
	errMsg := ""
	if procErr != nil {
		errMsg = procErr.Error()
	}
	query := `UPDATE webhook_events SET processed_at = $1, processing_error = $2 WHERE id = $3`
	_, err := db.Exec(query, time.Now(), errMsg, eventID)
	return err
}
