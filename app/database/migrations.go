package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	steps := []struct {
		name string
		fn   func(*sql.DB) error
	}{
		{"uuid extension", createUUIDExtension},
		{"schools table", createSchoolsTable},
		{"users table", createUsersTable},
		{"students table", createStudentsTable},
		{"fees table", createFeesTable},
		{"payments table", createPaymentsTable},
		{"webhook_events table", createWebhookEventsTable},
	}

	for _, step := range steps {
		if err := step.fn(db); err != nil {
			log.Printf("Migration failed (%s): %v", step.name, err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createUUIDExtension(db *sql.DB) error {
	_, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`)
	return err
}

func createSchoolsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schools (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			phone VARCHAR(20),
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			is_active BOOLEAN NOT NULL DEFAULT true,
			payment_settings JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	_, err := db.Exec(query)
	return err
}

func createUsersTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID REFERENCES schools(id),
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(20),
			is_active BOOLEAN NOT NULL DEFAULT true,
			roles TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	_, err := db.Exec(query)
	return err
}

func createStudentsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID NOT NULL REFERENCES schools(id),
			student_code VARCHAR(50) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (school_id, student_code)
		);
		CREATE INDEX IF NOT EXISTS idx_students_school ON students(school_id);
	`
	_, err := db.Exec(query)
	return err
}

func createFeesTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS fees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID NOT NULL REFERENCES schools(id),
			student_id UUID NOT NULL REFERENCES students(id),
			title VARCHAR(255) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			paid BOOLEAN NOT NULL DEFAULT false,
			due_date DATE NOT NULL,
			paid_at TIMESTAMPTZ,
			payment_method VARCHAR(50),
			transaction_id VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_fees_student ON fees(student_id);
		CREATE INDEX IF NOT EXISTS idx_fees_school ON fees(school_id);
	`
	_, err := db.Exec(query)
	return err
}

func createPaymentsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID NOT NULL REFERENCES schools(id),
			student_id UUID NOT NULL REFERENCES students(id),
			fee_id UUID NOT NULL REFERENCES fees(id),
			provider VARCHAR(20) NOT NULL,
			reference VARCHAR(255) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			failure_reason TEXT,
			paid_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (provider, reference)
		);
		CREATE INDEX IF NOT EXISTS idx_payments_fee ON payments(fee_id);
		CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
	`
	_, err := db.Exec(query)
	return err
}

func createWebhookEventsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS webhook_events (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID NOT NULL,
			provider VARCHAR(20) NOT NULL,
			provider_event_id VARCHAR(255) NOT NULL,
			event_type VARCHAR(100) NOT NULL,
			payload TEXT NOT NULL,
			signature_valid BOOLEAN NOT NULL DEFAULT false,
			processed_at TIMESTAMPTZ,
			processing_error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (provider, provider_event_id)
		);
		CREATE INDEX IF NOT EXISTS idx_webhook_events_school ON webhook_events(school_id);
	`
	_, err := db.Exec(query)
	return err
}
