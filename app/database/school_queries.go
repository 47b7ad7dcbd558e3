package database

import (
	"database/sql"
	"fmt"
	"schoolpay/app/models"
)

func CreateSchool(db *sql.DB, school *models.School) error {
	if school.PaymentSettings == nil {
		school.PaymentSettings = make(models.GatewaySettings)
	}
	query := `INSERT INTO schools (name, email, phone, currency, payment_settings)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, is_active, created_at, updated_at`

	return db.QueryRow(query,
		school.Name, school.Email, school.Phone, school.Currency, school.PaymentSettings,
	).Scan(&school.ID, &school.IsActive, &school.CreatedAt, &school.UpdatedAt)
}

func GetSchoolByID(db *sql.DB, schoolID string) (*models.School, error) {
	school := &models.School{}
	query := `SELECT id, name, email, phone, currency, is_active, payment_settings, created_at, updated_at
			  FROM schools WHERE id = $1 AND deleted_at IS NULL`

	var phone sql.NullString
	err := db.QueryRow(query, schoolID).Scan(
		&school.ID, &school.Name, &school.Email, &phone, &school.Currency,
		&school.IsActive, &school.PaymentSettings, &school.CreatedAt, &school.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	school.Phone = phone.String
	return school, nil
}

func GetSchools(db *sql.DB) ([]*models.School, error) {
	query := `SELECT id, name, email, phone, currency, is_active, created_at, updated_at
			  FROM schools WHERE deleted_at IS NULL ORDER BY name`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []*models.School
	for rows.Next() {
		school := &models.School{}
		var phone sql.NullString
		err := rows.Scan(
			&school.ID, &school.Name, &school.Email, &phone, &school.Currency,
			&school.IsActive, &school.CreatedAt, &school.UpdatedAt,
		)
		if err != nil {
			continue
		}
		school.Phone = phone.String
		schools = append(schools, school)
	}
	return schools, nil
}

// GetSchoolGatewaySettings reads only the payment_settings column. Callers
// must not cache the result across requests: credentials can change at any
// time through the admin API.
func GetSchoolGatewaySettings(db *sql.DB, schoolID string) (models.GatewaySettings, error) {
	var settings models.GatewaySettings
	query := `SELECT payment_settings FROM schools WHERE id = $1 AND deleted_at IS NULL`

	if err := db.QueryRow(query, schoolID).Scan(&settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSchoolGatewayConfig replaces one provider's credential bundle inside
// the payment_settings JSONB, leaving other providers untouched.
func UpdateSchoolGatewayConfig(db *sql.DB, schoolID string, provider models.Provider, cfg *models.GatewayConfig) error {
	settings, err := GetSchoolGatewaySettings(db, schoolID)
	if err != nil {
		return err
	}
	if settings == nil {
		settings = make(models.GatewaySettings)
	}
	settings[provider] = cfg

	query := `UPDATE schools SET payment_settings = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	result, err := db.Exec(query, settings, schoolID)
	if err != nil {
		return fmt.Errorf("failed to update gateway settings: %v", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return err
}
