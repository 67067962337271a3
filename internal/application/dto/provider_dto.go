package dto

import "time"

// ProviderRequest body para crear o actualizar un proveedor.
type ProviderRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	ContactName  *string `json:"contact_name" validate:"omitempty,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Region       *string `json:"region" validate:"omitempty,max=120"`
	Municipality *string `json:"municipality" validate:"omitempty,max=120"`
	IsActive     *bool   `json:"is_active"`
}

// ProviderResponse salida de un proveedor.
type ProviderResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactName  *string   `json:"contact_name"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email"`
	Region       *string   `json:"region"`
	Municipality *string   `json:"municipality"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
