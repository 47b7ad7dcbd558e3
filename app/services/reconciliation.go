package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"schoolpay/app/database"
	"schoolpay/app/payments"
)

const (
	// How long a payment may sit in pending before we ask the gateway about it.
	stalePendingAge = 30 * time.Minute

	reconcileBatchSize = 50
)

// ReconcilePendingPayments re-checks pending payments whose webhook or
// callback never arrived. Each one is verified against the gateway and
// settled or failed based on the gateway's answer. A payment the gateway
// still reports as in-flight is left pending for the next run.
func ReconcilePendingPayments(db *sql.DB, manager *payments.Manager) error {
	pending, err := database.GetStalePendingPayments(db, stalePendingAge, reconcileBatchSize)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	log.Printf("Reconciling %d stale pending payments...", len(pending))

	for _, payment := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		verified, err := manager.Verify(ctx, payment.Provider, payment.SchoolID, payment.Reference)
		cancel()

		if err != nil {
			var verr *payments.VerificationError
			if errors.As(err, &verr) {
				// The gateway knows the reference but reports it unpaid.
				if markErr := database.MarkPaymentFailed(db, payment.Provider, payment.Reference, verr.Message); markErr != nil {
					log.Printf("Error marking payment %s failed: %v", payment.ID, markErr)
				}
				continue
			}
			// Network or config trouble. Leave the payment pending and retry later.
			log.Printf("Error verifying payment %s (%s/%s): %v", payment.ID, payment.Provider, payment.Reference, err)
			continue
		}

		_, settledNow, err := database.SettlePayment(db, payment.Provider, payment.Reference, verified.Amount, verified.Currency)
		if err != nil {
			log.Printf("Error settling payment %s: %v", payment.ID, err)
			continue
		}
		if settledNow {
			log.Printf("Reconciled payment %s (%s/%s)", payment.ID, payment.Provider, payment.Reference)
		}
	}
	return nil
}
