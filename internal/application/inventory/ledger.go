package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var tracer = otel.Tracer("trazabilidad-cafe/inventory")

// MovementInput datos de un movimiento a registrar. CompanyID viene siempre del token.
type MovementInput struct {
	CompanyID         string
	LotID             string
	MovementType      string
	Direction         string
	QuantityKg        decimal.Decimal
	RelatedEntityType *string
	RelatedEntityID   *string
	Notes             *string
}

// recordable reporta si el movimiento cumple el contrato mínimo; si no, se omite sin error.
func (in MovementInput) recordable() bool {
	if strings.TrimSpace(in.LotID) == "" || strings.TrimSpace(in.MovementType) == "" {
		return false
	}
	if !in.QuantityKg.IsPositive() {
		return false
	}
	return in.Direction == entity.DirectionIN || in.Direction == entity.DirectionOUT
}

// StockLedgerUseCase libro de stock por lote: registra movimientos firmados y recalcula
// el saldo resultante de cada fila reproduciendo el historial completo.
//
// Toda escritura toma primero el bloqueo de la fila del lote (SELECT ... FOR UPDATE),
// así dos registros concurrentes sobre el mismo lote se serializan.
type StockLedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
	metrics  LedgerMetrics
}

// NewStockLedgerUseCase construye el caso de uso. metrics puede ser nil.
func NewStockLedgerUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository, metrics LedgerMetrics) *StockLedgerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &StockLedgerUseCase{txRunner: txRunner, movRepo: movRepo, metrics: metrics}
}

// RecordMovement inserta un movimiento y recalcula el lote en una sola transacción.
// Devuelve el saldo final y recorded=false (sin error) cuando la entrada no es registrable.
func (uc *StockLedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (decimal.Decimal, bool, error) {
	if !in.recordable() {
		uc.metrics.MovementSkipped()
		return decimal.Zero, false, nil
	}
	ctx, span := tracer.Start(ctx, "StockLedger.RecordMovement", trace.WithAttributes(
		attribute.String("lot.id", in.LotID),
		attribute.String("movement.type", in.MovementType),
	))
	defer span.End()

	var balance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository, _ repository.StageRepository) error {
		var err error
		balance, _, err = uc.record(ctx, lotRepo, movRepo, in, false)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, false, err
	}
	return balance, true, nil
}

// RecordStageMovement registra el movimiento derivado de un registro de etapa usando los
// repositorios de la transacción del llamador. Los movimientos previos de la misma entidad
// relacionada se reemplazan, de modo que volver a guardar la etapa no duplica cantidades.
// Si la nueva cantidad no es registrable solo se eliminan los anteriores y se recalcula.
func (uc *StockLedgerUseCase) RecordStageMovement(
	ctx context.Context,
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	in MovementInput,
) (decimal.Decimal, bool, error) {
	if in.RelatedEntityType == nil || in.RelatedEntityID == nil {
		return decimal.Zero, false, fmt.Errorf("movimiento de etapa sin entidad relacionada: %w", domain.ErrInvalidInput)
	}
	ctx, span := tracer.Start(ctx, "StockLedger.RecordStageMovement", trace.WithAttributes(
		attribute.String("lot.id", in.LotID),
		attribute.String("related.type", *in.RelatedEntityType),
	))
	defer span.End()
	return uc.record(ctx, lotRepo, movRepo, in, true)
}

func (uc *StockLedgerUseCase) record(
	ctx context.Context,
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	in MovementInput,
	replace bool,
) (decimal.Decimal, bool, error) {
	if err := lotRepo.LockForUpdate(ctx, in.CompanyID, in.LotID); err != nil {
		return decimal.Zero, false, fmt.Errorf("bloquear lote %s: %w", in.LotID, err)
	}
	// El reemplazo hereda el created_at del movimiento borrado y conserva su lugar en el libro.
	var replacedAt *time.Time
	if replace {
		first, err := movRepo.DeleteByRelatedEntity(ctx, in.CompanyID, in.LotID, *in.RelatedEntityType, *in.RelatedEntityID)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("reemplazar movimientos de %s: %w", *in.RelatedEntityType, err)
		}
		replacedAt = first
	}

	recorded := in.recordable()
	if recorded {
		m := &entity.StockMovement{
			CompanyID:         in.CompanyID,
			LotID:             in.LotID,
			MovementType:      in.MovementType,
			Direction:         in.Direction,
			QuantityKg:        in.QuantityKg,
			RelatedEntityType: in.RelatedEntityType,
			RelatedEntityID:   in.RelatedEntityID,
			Notes:             in.Notes,
		}
		if replacedAt != nil {
			m.CreatedAt = *replacedAt
		}
		if err := movRepo.Create(ctx, m); err != nil {
			return decimal.Zero, false, fmt.Errorf("insertar movimiento: %w", err)
		}
		uc.metrics.MovementRecorded(in.MovementType, in.Direction)
	} else {
		uc.metrics.MovementSkipped()
	}

	balance, err := uc.replay(ctx, movRepo, in.CompanyID, in.LotID)
	if err != nil {
		return decimal.Zero, false, err
	}
	return balance, recorded, nil
}

// RecalculateForLot reproduce el libro completo del lote y persiste el saldo de cada fila.
// Es idempotente: sin movimientos nuevos, una segunda ejecución no cambia nada.
func (uc *StockLedgerUseCase) RecalculateForLot(ctx context.Context, companyID, lotID string) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "StockLedger.RecalculateForLot", trace.WithAttributes(attribute.String("lot.id", lotID)))
	defer span.End()

	var balance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository, _ repository.StageRepository) error {
		if err := lotRepo.LockForUpdate(ctx, companyID, lotID); err != nil {
			return fmt.Errorf("bloquear lote %s: %w", lotID, err)
		}
		var err error
		balance, err = uc.replay(ctx, movRepo, companyID, lotID)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}
	return balance, nil
}

func (uc *StockLedgerUseCase) replay(ctx context.Context, movRepo repository.StockMovementRepository, companyID, lotID string) (decimal.Decimal, error) {
	start := time.Now()
	movs, err := movRepo.ListByLot(ctx, companyID, lotID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listar movimientos del lote %s: %w", lotID, err)
	}
	balance := domaininv.Replay(movs)
	if len(movs) > 0 {
		if err := movRepo.UpdateResultingStock(ctx, movs); err != nil {
			return decimal.Zero, fmt.Errorf("actualizar saldos del lote %s: %w", lotID, err)
		}
	}
	uc.metrics.LotRecalculated(len(movs), time.Since(start))
	return balance, nil
}

// GetCurrentStock devuelve el saldo guardado en el último movimiento del lote, o cero si no tiene.
func (uc *StockLedgerUseCase) GetCurrentStock(ctx context.Context, companyID, lotID string) (decimal.Decimal, error) {
	last, err := uc.movRepo.Latest(ctx, companyID, lotID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("último movimiento del lote %s: %w", lotID, err)
	}
	if last == nil {
		return decimal.Zero, nil
	}
	return last.ResultingStockKg, nil
}
