package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements (ajustes manuales del libro).
// La validación es laxa a propósito: el libro omite sin error los movimientos no registrables.
type RecordMovementRequest struct {
	LotID        string          `json:"lot_id" validate:"required,uuid"`
	MovementType string          `json:"movement_type" validate:"max=50"`
	Direction    string          `json:"direction"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	Notes        *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// RecordMovementResponse resultado del registro: Recorded=false si el movimiento se omitió.
type RecordMovementResponse struct {
	Recorded bool            `json:"recorded"`
	StockKg  decimal.Decimal `json:"stock_kg"`
}

// LotStockResponse saldo actual de un lote.
type LotStockResponse struct {
	LotID   string          `json:"lot_id"`
	State   string          `json:"state"`
	StockKg decimal.Decimal `json:"stock_kg"`
}

// InventorySummaryResponse resumen de inventario por estado de lote.
type InventorySummaryResponse struct {
	KgPergaminoTotal     decimal.Decimal            `json:"kg_pergamino_total"`
	KgTrilladoTotal      decimal.Decimal            `json:"kg_trillado_total"`
	KgTostadoTotal       decimal.Decimal            `json:"kg_tostado_total"`
	KgEmpacadoTotal      decimal.Decimal            `json:"kg_empacado_total"`
	EmpacadoPorTipoBolsa map[string]decimal.Decimal `json:"empacado_por_tipo_bolsa"`
	RotacionPromedioDias decimal.Decimal            `json:"rotacion_promedio_dias"`
}

// MovementFilterRequest query de GET /api/inventory/movements.
type MovementFilterRequest struct {
	From       string `query:"from"`
	To         string `query:"to"`
	ProviderID string `query:"providerId" validate:"omitempty,uuid"`
	LineID     string `query:"lineId" validate:"omitempty,uuid"`
	State      string `query:"state" validate:"omitempty,oneof=pergamino trillado tostado empacado"`
}

// MovementResponse fila del listado de movimientos.
type MovementResponse struct {
	ID               int64           `json:"id"`
	LotID            string          `json:"lot_id"`
	LotCode          string          `json:"lot_code"`
	ProviderName     *string         `json:"provider_name"`
	LineName         *string         `json:"line_name"`
	MovementType     string          `json:"movement_type"`
	Direction        string          `json:"direction"`
	QuantityKg       decimal.Decimal `json:"quantity_kg"`
	ResultingStockKg decimal.Decimal `json:"resulting_stock_kg"`
	Notes            *string         `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
}
