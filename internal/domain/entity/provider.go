package entity

import "time"

// Provider caficultor o proveedor de lotes.
type Provider struct {
	ID           string    `db:"id"`
	CompanyID    string    `db:"company_id"`
	Name         string    `db:"name"`
	ContactName  *string   `db:"contact_name"`
	Phone        *string   `db:"phone"`
	Email        *string   `db:"email"`
	Region       *string   `db:"region"`
	Municipality *string   `db:"municipality"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}
