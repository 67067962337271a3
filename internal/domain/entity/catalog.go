package entity

import "time"

// Catálogos de configuración administrativa; comparten forma y tabla por tipo.
const (
	CatalogDestinations = "destinations"
	CatalogCoffeeLines  = "coffee_lines"
	CatalogServices     = "services"
)

// CatalogItem destinación, línea de café o servicio.
type CatalogItem struct {
	ID          string    `db:"id"`
	CompanyID   string    `db:"company_id"`
	Name        string    `db:"name"`
	Code        *string   `db:"code"`
	Description *string   `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}
