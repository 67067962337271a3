package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del libro de stock: registro de etapa, movimiento y recálculo van juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		movRepo repository.StockMovementRepository,
		stageRepo repository.StageRepository,
	) error) error
}

// LedgerMetrics recibe las observaciones del libro (implementado con Prometheus en infraestructura).
type LedgerMetrics interface {
	MovementRecorded(movementType, direction string)
	MovementSkipped()
	LotRecalculated(movements int, elapsed time.Duration)
}

// NopMetrics descarta las observaciones.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string, string)    {}
func (NopMetrics) MovementSkipped()                   {}
func (NopMetrics) LotRecalculated(int, time.Duration) {}
