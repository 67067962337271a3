package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatusIngresado es la etiqueta con la que nace un lote.
const LotStatusIngresado = "ingresado"

// Lot representa un lote de café trazable. QuantityKg se fija en el ingreso;
// el libro de stock lleva su propio saldo derivado.
type Lot struct {
	ID           string           `db:"id"`
	CompanyID    string           `db:"company_id"`
	ProviderID   *string          `db:"provider_id"`
	LineID       *string          `db:"line_id"`
	Code         string           `db:"code"`
	Name         string           `db:"name"`
	OriginRegion *string          `db:"origin_region"`
	OriginPlace  *string          `db:"origin_place"`
	Variety      *string          `db:"variety"`
	Process      *string          `db:"process"`
	QualityScore *decimal.Decimal `db:"quality_score"`
	QuantityKg   decimal.Decimal  `db:"quantity_kg"`
	PricePerKg   decimal.Decimal  `db:"price_per_kg"`
	Status       string           `db:"status"`
	CreatedAt    time.Time        `db:"created_at"`
}

// LotDetail lote con nombres de proveedor y línea resueltos.
type LotDetail struct {
	Lot
	ProviderName *string `db:"provider_name"`
	LineName     *string `db:"line_name"`
}
