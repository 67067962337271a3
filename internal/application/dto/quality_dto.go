package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SaveCuppingRequest body para POST/PUT /api/quality/cupping. Sin ID crea (o reemplaza la del lote).
type SaveCuppingRequest struct {
	ID          int64            `json:"id"`
	LotID       string           `json:"lot_id" validate:"required,uuid"`
	TotalScore  *decimal.Decimal `json:"total_score"`
	IsAccepted  bool             `json:"is_accepted"`
	Notes       *string          `json:"notes" validate:"omitempty,max=2000"`
	EvaluatedBy *string          `json:"evaluated_by" validate:"omitempty,max=200"`
	Attributes  json.RawMessage  `json:"attributes" swaggertype:"object"`
}

// SaveCuppingResponse identificador de la cata guardada.
type SaveCuppingResponse struct {
	ID int64 `json:"id"`
}
