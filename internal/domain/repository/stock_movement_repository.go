package repository

import (
	"context"
	"time"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos. Los nil/vacíos no filtran.
type MovementFilter struct {
	From       *time.Time
	To         *time.Time
	ProviderID string
	LineID     string
	Limit      int
}

// StockMovementRepository puerto de persistencia del libro de stock por lote.
// Las escrituras se hacen dentro de la transacción abierta por TxRunner.
type StockMovementRepository interface {
	// Create inserta el movimiento y completa ID. Si CreatedAt viene en cero la base asigna now().
	Create(ctx context.Context, m *entity.StockMovement) error
	// ListByLot devuelve todos los movimientos del lote en orden (created_at, id) ascendente.
	ListByLot(ctx context.Context, companyID, lotID string) ([]entity.StockMovement, error)
	// UpdateResultingStock persiste ResultingStockKg de cada movimiento.
	UpdateResultingStock(ctx context.Context, movs []entity.StockMovement) error
	// Latest devuelve el último movimiento (created_at desc, id desc) o nil.
	Latest(ctx context.Context, companyID, lotID string) (*entity.StockMovement, error)
	// DeleteByRelatedEntity borra los movimientos ligados a un registro de etapa y devuelve el
	// created_at más antiguo de los borrados (nil si no había ninguno).
	DeleteByRelatedEntity(ctx context.Context, companyID, lotID, entityType, entityID string) (*time.Time, error)
	List(ctx context.Context, companyID string, f MovementFilter) ([]entity.StockMovementDetail, error)
}
