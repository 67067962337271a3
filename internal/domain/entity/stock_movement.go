package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento de stock.
const (
	DirectionIN  = "IN"
	DirectionOUT = "OUT"
)

// Tipos de movimiento usados por las etapas. El vocabulario es abierto.
const (
	MovementIngresoLote = "INGRESO_LOTE"
	MovementTrillaMerma = "TRILLA_MERMA"
	MovementTuesteMerma = "TUESTE_MERMA"
	MovementDespacho    = "DESPACHO"
	MovementAjuste      = "AJUSTE"
)

// StockMovement un evento de cantidad firmado sobre un lote.
// ResultingStockKg es derivado: lo reescribe el recálculo del libro.
type StockMovement struct {
	ID                int64           `db:"id"`
	CompanyID         string          `db:"company_id"`
	LotID             string          `db:"lot_id"`
	MovementType      string          `db:"movement_type"`
	Direction         string          `db:"direction"`
	QuantityKg        decimal.Decimal `db:"quantity_kg"`
	RelatedEntityType *string         `db:"related_entity_type"`
	RelatedEntityID   *string         `db:"related_entity_id"`
	Notes             *string         `db:"notes"`
	ResultingStockKg  decimal.Decimal `db:"resulting_stock_kg"`
	CreatedAt         time.Time       `db:"created_at"`
}

// StockMovementDetail movimiento con datos de lote, proveedor y línea para listados.
type StockMovementDetail struct {
	StockMovement
	LotCode      string  `db:"lot_code"`
	ProviderName *string `db:"provider_name"`
	LineName     *string `db:"line_name"`
}
