package services

import (
	"database/sql"
	"log"
	"time"

	"schoolpay/app/payments"
)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB, manager *payments.Manager) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if err := ReconcilePendingPayments(db, manager); err != nil {
				log.Printf("Error reconciling pending payments: %v", err)
			}
		}
	}()
}
