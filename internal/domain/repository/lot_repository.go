package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
)

// LotFilter filtros SQL del maestro de lotes. El estado se filtra después, en aplicación.
type LotFilter struct {
	Search     string
	ProviderID string
	LineID     string
}

// LotMasterRow fila del maestro de lotes antes de resolver estado y stock.
type LotMasterRow struct {
	ID                    string           `db:"id"`
	Code                  string           `db:"code"`
	Name                  string           `db:"name"`
	OriginRegion          *string          `db:"origin_region"`
	OriginPlace           *string          `db:"origin_place"`
	Variety               *string          `db:"variety"`
	Process               *string          `db:"process"`
	QuantityKg            decimal.Decimal  `db:"quantity_kg"`
	ProviderName          *string          `db:"provider_name"`
	LineName              *string          `db:"line_name"`
	DestinationID         *string          `db:"destination_id"`
	DestinationName       *string          `db:"destination_name"`
	LastCuppingScore      *decimal.Decimal `db:"last_cupping_score"`
	LastCuppingAcceptance *bool            `db:"last_cupping_acceptance"`
	CreatedAt             time.Time        `db:"created_at"`
}

// LotRepository puerto de persistencia de lotes (siempre acotado por empresa).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, companyID, lotID string) (*entity.LotDetail, error)
	// LockForUpdate bloquea la fila del lote hasta el fin de la transacción. ErrNotFound si no existe.
	LockForUpdate(ctx context.Context, companyID, lotID string) error
	ListByCompany(ctx context.Context, companyID string) ([]entity.LotDetail, error)
	ListMaster(ctx context.Context, companyID string, f LotFilter) ([]LotMasterRow, error)
	// RotationSpans primera fecha de ingreso y último despacho de cada lote de la empresa.
	RotationSpans(ctx context.Context, companyID string) ([]inventory.RotationSpan, error)
}
