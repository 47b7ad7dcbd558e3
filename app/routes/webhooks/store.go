package webhooks

import (
	"database/sql"
	"schoolpay/app/database"
	"schoolpay/app/models"
)

// Store is the persistence surface the webhook handler needs: the dedup
// ledger and settlement. Tests swap in a fake.
type Store interface {
	// RecordEvent inserts the event before processing; created=false means
	// this delivery is a duplicate.
	RecordEvent(event *models.WebhookEvent) (created bool, err error)
	// MarkProcessed stamps the processing outcome on the event row.
	MarkProcessed(eventID string, procErr error) error
	// Settle marks the correlated payment completed and its fee paid.
	// Returns sql.ErrNoRows when no payment matches the reference.
	Settle(provider models.Provider, reference string, amount float64, currency string) (*models.Payment, bool, error)
}

type dbStore struct {
	db *sql.DB
}

// NewStore returns the Postgres-backed Store.
func NewStore(db *sql.DB) Store {
	return &dbStore{db: db}
}

func (s *dbStore) RecordEvent(event *models.WebhookEvent) (bool, error) {
	return database.RecordWebhookEvent(s.db, event)
}

func (s *dbStore) MarkProcessed(eventID string, procErr error) error {
	return database.MarkWebhookProcessed(s.db, eventID, procErr)
}

func (s *dbStore) Settle(provider models.Provider, reference string, amount float64, currency string) (*models.Payment, bool, error) {
	return database.SettlePayment(s.db, provider, reference, amount, currency)
}
