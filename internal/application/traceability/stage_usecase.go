// Package traceability contiene los casos de uso de los formularios de etapa de un lote
// (ingreso, trilla, tueste, cata, empaque, despacho, inspección) y sus fichas PDF.
package traceability

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	appinventory "github.com/jhoicas/trazabilidad-cafe/internal/application/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// Tablas usadas como entidad relacionada de los movimientos de etapa.
const (
	relatedIntakes    = "lot_intakes"
	relatedTrillings  = "lot_trillings"
	relatedRoastings  = "lot_roastings"
	relatedDispatches = "lot_dispatches"

	inspectionTypeSalida = "salida"
	inspectionResult     = "inspeccion"
	packageTypeBolsas    = "bolsas"
)

// StageUseCase guarda los formularios de etapa. Cada guardado actualiza el único registro
// de la etapa para el lote y, en la misma transacción, registra el movimiento de stock que implica.
type StageUseCase struct {
	txRunner appinventory.TxRunner
	ledger   *appinventory.StockLedgerUseCase
}

// NewStageUseCase construye el caso de uso.
func NewStageUseCase(txRunner appinventory.TxRunner, ledger *appinventory.StockLedgerUseCase) *StageUseCase {
	return &StageUseCase{txRunner: txRunner, ledger: ledger}
}

// stageMovement movimiento implícito de una etapa. Quantity nil = sin cantidad.
type stageMovement struct {
	movementType string
	direction    string
	quantity     *decimal.Decimal
	related      string
	relatedID    int64
}

// save ejecuta upsert + movimiento en una transacción con el lote bloqueado.
func (uc *StageUseCase) save(
	ctx context.Context,
	companyID, lotID string,
	upsert func(lot *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error),
) (*decimal.Decimal, error) {
	var stock *decimal.Decimal
	err := uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository, stageRepo repository.StageRepository) error {
		if err := lotRepo.LockForUpdate(ctx, companyID, lotID); err != nil {
			return fmt.Errorf("lote %s: %w", lotID, err)
		}
		lot, err := lotRepo.GetByID(ctx, companyID, lotID)
		if err != nil {
			return fmt.Errorf("lote %s: %w", lotID, err)
		}
		mv, err := upsert(lot, stageRepo)
		if err != nil {
			return err
		}
		if mv == nil {
			return nil
		}
		qty := decimal.Zero
		if mv.quantity != nil {
			qty = *mv.quantity
		}
		relatedID := strconv.FormatInt(mv.relatedID, 10)
		balance, _, err := uc.ledger.RecordStageMovement(ctx, lotRepo, movRepo, appinventory.MovementInput{
			CompanyID:         companyID,
			LotID:             lotID,
			MovementType:      mv.movementType,
			Direction:         mv.direction,
			QuantityKg:        qty,
			RelatedEntityType: &mv.related,
			RelatedEntityID:   &relatedID,
		})
		if err != nil {
			return err
		}
		stock = &balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// SaveIntake ingreso de materia prima: entra weight_kg (o los kg del lote si no se informa).
func (uc *StageUseCase) SaveIntake(ctx context.Context, companyID, userID, lotID string, in dto.IntakeRequest) (*dto.StageSaveResponse, error) {
	services, err := json.Marshal(nonNilStrings(in.ServiceIDs))
	if err != nil {
		return nil, fmt.Errorf("servicios: %w", err)
	}
	rec := &entity.Intake{
		CompanyID:      companyID,
		LotID:          lotID,
		DestinationID:  in.DestinationID,
		LineID:         in.CoffeeLineID,
		ServicesJSON:   string(services),
		HumidityPct:    in.HumidityPct,
		PackageType:    in.PackageType,
		PackageDetail:  in.PackageDetail,
		Observations:   in.Observations,
		CaficultorName: in.CaficultorName,
		Farm:           in.Farm,
		Municipality:   in.Municipality,
		ContactPhone:   in.ContactPhone,
		Email:          in.Email,
		MaterialType:   in.MaterialType,
		WeightKg:       in.WeightKg,
		ReceivedBy:     optional(userID),
	}
	stock, err := uc.save(ctx, companyID, lotID, func(lot *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertIntake(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar ingreso: %w", err)
		}
		qty := rec.WeightKg
		if qty == nil || !qty.IsPositive() {
			qty = &lot.QuantityKg
		}
		return &stageMovement{entity.MovementIngresoLote, entity.DirectionIN, qty, relatedIntakes, rec.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec, StockKg: stock}, nil
}

// SaveTrilla trilla: sale como merma la diferencia entre kilos de entrada y de salida.
func (uc *StageUseCase) SaveTrilla(ctx context.Context, companyID, userID, lotID string, in dto.TrillaRequest) (*dto.StageSaveResponse, error) {
	rec := &entity.Trilling{
		CompanyID:      companyID,
		LotID:          lotID,
		InputKg:        in.InputKg,
		OutputKg:       in.OutputKg,
		ShrinkageKg:    difference(in.InputKg, in.OutputKg),
		HumidityBefore: in.HumidityBefore,
		HumidityAfter:  in.HumidityAfter,
		MachineOK:      in.MachineOK,
		Observations:   in.Observations,
		PerformedBy:    optional(userID),
	}
	stock, err := uc.save(ctx, companyID, lotID, func(_ *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertTrilling(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar trilla: %w", err)
		}
		return &stageMovement{entity.MovementTrillaMerma, entity.DirectionOUT, rec.ShrinkageKg, relatedTrillings, rec.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec, StockKg: stock}, nil
}

// SaveTueste tueste: sale como merma shrinkage_kg, o entrada - salida si no se informa.
func (uc *StageUseCase) SaveTueste(ctx context.Context, companyID, userID, lotID string, in dto.TuesteRequest) (*dto.StageSaveResponse, error) {
	rec := &entity.Roasting{
		CompanyID:     companyID,
		LotID:         lotID,
		ProfileCode:   in.ProfileCode,
		RoastLevel:    in.RoastLevel,
		Batches:       in.Batches,
		InputKg:       in.InputKg,
		OutputKg:      in.OutputKg,
		ShrinkageKg:   in.ShrinkageKg,
		HumidityAfter: in.HumidityAfter,
		Density:       in.Density,
		Observations:  in.Observations,
		PerformedBy:   optional(userID),
	}
	stock, err := uc.save(ctx, companyID, lotID, func(_ *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertRoasting(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar tueste: %w", err)
		}
		qty := rec.ShrinkageKg
		if qty == nil || qty.IsZero() {
			qty = difference(rec.InputKg, rec.OutputKg)
		}
		return &stageMovement{entity.MovementTuesteMerma, entity.DirectionOUT, qty, relatedRoastings, rec.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec, StockKg: stock}, nil
}

// IsReleaseDecision reporta si la decisión de cata libera el lote.
func IsReleaseDecision(decision string) bool {
	return strings.Contains(strings.ToLower(decision), "libera")
}

// SaveCata evaluación sensorial. No mueve stock.
func (uc *StageUseCase) SaveCata(ctx context.Context, companyID, userID, lotID string, in dto.CataRequest) (*dto.StageSaveResponse, error) {
	attrs, err := json.Marshal(map[string]string{"decision": in.Decision})
	if err != nil {
		return nil, fmt.Errorf("atributos de cata: %w", err)
	}
	rec := &entity.Cupping{
		CompanyID:      companyID,
		LotID:          lotID,
		TotalScore:     in.TotalScore,
		IsAccepted:     IsReleaseDecision(in.Decision),
		AttributesJSON: string(attrs),
		Notes:          in.Notes,
		EvaluatedBy:    optional(userID),
	}
	if _, err := uc.save(ctx, companyID, lotID, func(_ *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertCupping(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar cata: %w", err)
		}
		return nil, nil
	}); err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec}, nil
}

// PackagingObservations texto libre seguido, en la última línea, del JSON de bolsas por tipo.
func PackagingObservations(in dto.EmpaqueRequest) (string, error) {
	meta, err := json.Marshal(map[string]*decimal.Decimal{
		"bags_340":  in.Bags340,
		"bags_500":  in.Bags500,
		"bags_1000": in.Bags1000,
	})
	if err != nil {
		return "", err
	}
	if in.Observations != nil && strings.TrimSpace(*in.Observations) != "" {
		return strings.TrimSpace(*in.Observations) + "\n" + string(meta), nil
	}
	return string(meta), nil
}

// SaveEmpaque empaque. No mueve stock; el estado pasa a empacado por la presencia del registro.
func (uc *StageUseCase) SaveEmpaque(ctx context.Context, companyID, userID, lotID string, in dto.EmpaqueRequest) (*dto.StageSaveResponse, error) {
	obs, err := PackagingObservations(in)
	if err != nil {
		return nil, fmt.Errorf("observaciones de empaque: %w", err)
	}
	pkgType := packageTypeBolsas
	rec := &entity.Packaging{
		CompanyID:    companyID,
		LotID:        lotID,
		TotalKg:      in.TotalKg,
		PackageType:  &pkgType,
		Observations: &obs,
		PackedBy:     optional(userID),
	}
	if _, err := uc.save(ctx, companyID, lotID, func(_ *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertPackaging(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar empaque: %w", err)
		}
		return nil, nil
	}); err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec}, nil
}

// SaveDespacho despacho al cliente: salen los kilos despachados.
func (uc *StageUseCase) SaveDespacho(ctx context.Context, companyID, userID, lotID string, in dto.DespachoRequest) (*dto.StageSaveResponse, error) {
	rec := &entity.Dispatch{
		CompanyID:       companyID,
		LotID:           lotID,
		ClientName:      in.ClientName,
		DestinationCity: in.City,
		DocumentNumber:  in.DocumentNumber,
		DispatchedKg:    in.DispatchedKg,
		Notes:           in.Observations,
		DispatchedBy:    optional(userID),
	}
	stock, err := uc.save(ctx, companyID, lotID, func(_ *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertDispatch(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar despacho: %w", err)
		}
		return &stageMovement{entity.MovementDespacho, entity.DirectionOUT, rec.DispatchedKg, relatedDispatches, rec.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec, StockKg: stock}, nil
}

// InspectionFindings hallazgos como JSON, precedidos del texto libre si lo hay.
func InspectionFindings(in dto.InspeccionRequest) (string, error) {
	raw, err := json.Marshal(inspectionChecks{
		PackagingOK:       in.PackagingOK,
		LabelsOK:          in.LabelsOK,
		MoistureOK:        in.MoistureOK,
		ForeignMaterialOK: in.ForeignMaterialOK,
	})
	if err != nil {
		return "", err
	}
	if in.Observations != nil && strings.TrimSpace(*in.Observations) != "" {
		return strings.TrimSpace(*in.Observations) + "\n" + string(raw), nil
	}
	return string(raw), nil
}

// SaveInspeccion inspección de salida. No mueve stock.
func (uc *StageUseCase) SaveInspeccion(ctx context.Context, companyID, userID, lotID string, in dto.InspeccionRequest) (*dto.StageSaveResponse, error) {
	findings, err := InspectionFindings(in)
	if err != nil {
		return nil, fmt.Errorf("hallazgos de inspección: %w", err)
	}
	rec := &entity.Inspection{
		CompanyID:      companyID,
		LotID:          lotID,
		InspectionType: inspectionTypeSalida,
		Result:         inspectionResult,
		Findings:       &findings,
		InspectedBy:    optional(userID),
	}
	if _, err := uc.save(ctx, companyID, lotID, func(_ *entity.LotDetail, stageRepo repository.StageRepository) (*stageMovement, error) {
		if err := stageRepo.UpsertInspection(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar inspección: %w", err)
		}
		return nil, nil
	}); err != nil {
		return nil, err
	}
	return &dto.StageSaveResponse{OK: true, Data: rec}, nil
}

// ── helpers ──

type inspectionChecks struct {
	PackagingOK       bool `json:"packaging_ok"`
	LabelsOK          bool `json:"labels_ok"`
	MoistureOK        bool `json:"moisture_ok"`
	ForeignMaterialOK bool `json:"foreign_material_ok"`
}

// difference a - b, o nil si falta alguno.
func difference(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil || b == nil {
		return nil
	}
	d := a.Sub(*b)
	return &d
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
