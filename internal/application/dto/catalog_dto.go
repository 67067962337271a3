package dto

import "time"

// CatalogItemRequest body para destinaciones, líneas de café y servicios.
type CatalogItemRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Code        *string `json:"code" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// CatalogItemResponse salida de un ítem de catálogo.
type CatalogItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        *string   `json:"code"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
