package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest body para POST /api/lots.
type CreateLotRequest struct {
	Code         string           `json:"code" validate:"required,max=50"`
	Name         string           `json:"name" validate:"required,max=200"`
	ProviderID   *string          `json:"provider_id" validate:"omitempty,uuid"`
	LineID       *string          `json:"line_id" validate:"omitempty,uuid"`
	OriginRegion *string          `json:"origin_region" validate:"omitempty,max=120"`
	OriginPlace  *string          `json:"origin_place" validate:"omitempty,max=120"`
	Variety      *string          `json:"variety" validate:"omitempty,max=120"`
	Process      *string          `json:"process" validate:"omitempty,max=120"`
	QualityScore *decimal.Decimal `json:"quality_score"`
	QuantityKg   decimal.Decimal  `json:"quantity_kg"`
	PricePerKg   decimal.Decimal  `json:"price_per_kg"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	ProviderID   *string          `json:"provider_id"`
	ProviderName *string          `json:"provider_name"`
	LineID       *string          `json:"line_id"`
	LineName     *string          `json:"line_name"`
	OriginRegion *string          `json:"origin_region"`
	OriginPlace  *string          `json:"origin_place"`
	Variety      *string          `json:"variety"`
	Process      *string          `json:"process"`
	QualityScore *decimal.Decimal `json:"quality_score"`
	QuantityKg   decimal.Decimal  `json:"quantity_kg"`
	PricePerKg   decimal.Decimal  `json:"price_per_kg"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// LotMasterFilterRequest query de GET /api/lots/master.
type LotMasterFilterRequest struct {
	Search     string `query:"search" validate:"omitempty,max=100"`
	ProviderID string `query:"providerId" validate:"omitempty,uuid"`
	LineID     string `query:"lineId" validate:"omitempty,uuid"`
	State      string `query:"state" validate:"omitempty,oneof=pergamino trillado tostado empacado"`
}

// LotMasterResponse fila del maestro de lotes con estado y stock resueltos.
type LotMasterResponse struct {
	ID                    string           `json:"id"`
	Code                  string           `json:"code"`
	Name                  string           `json:"name"`
	ProviderName          *string          `json:"provider_name"`
	LineName              *string          `json:"line_name"`
	Origin                string           `json:"origin"`
	Variety               *string          `json:"variety"`
	Process               *string          `json:"process"`
	QuantityKg            decimal.Decimal  `json:"quantity_kg"`
	Destination           *string          `json:"destination"`
	LastCuppingScore      *decimal.Decimal `json:"last_cupping_score"`
	LastCuppingAcceptance *bool            `json:"last_cupping_acceptance"`
	QualityStatus         string           `json:"quality_status"`
	CurrentState          string           `json:"current_state"`
	CurrentStockKg        decimal.Decimal  `json:"current_stock_kg"`
	CreatedAt             time.Time        `json:"created_at"`
}
