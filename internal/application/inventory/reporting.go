package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

const (
	defaultReportWorkers = 8
	movementsListLimit   = 500 // filas máximas del listado de movimientos

	qualityAccepted = "Aceptado"
	qualityPending  = "En revisión"
)

// lotSnapshot estado y saldo de un lote en el momento del reporte.
type lotSnapshot struct {
	State   domaininv.LotState
	StockKg decimal.Decimal
}

// ReportingUseCase arma el resumen de inventario, el maestro de lotes y el listado de
// movimientos combinando el resolvedor de estado con el libro de stock.
//
// La resolución por lote corre en paralelo con un límite de workers; el primer error
// cancela el resto y aborta el reporte completo.
type ReportingUseCase struct {
	lotRepo   repository.LotRepository
	stageRepo repository.StageRepository
	movRepo   repository.StockMovementRepository
	resolver  *LotStateResolver
	ledger    *StockLedgerUseCase
	workers   int
}

// NewReportingUseCase construye el caso de uso. workers <= 0 usa el valor por defecto.
func NewReportingUseCase(
	lotRepo repository.LotRepository,
	stageRepo repository.StageRepository,
	movRepo repository.StockMovementRepository,
	resolver *LotStateResolver,
	ledger *StockLedgerUseCase,
	workers int,
) *ReportingUseCase {
	if workers <= 0 {
		workers = defaultReportWorkers
	}
	return &ReportingUseCase{
		lotRepo:   lotRepo,
		stageRepo: stageRepo,
		movRepo:   movRepo,
		resolver:  resolver,
		ledger:    ledger,
		workers:   workers,
	}
}

// snapshots resuelve estado y saldo de cada lote preservando el orden de entrada.
func (uc *ReportingUseCase) snapshots(ctx context.Context, companyID string, lotIDs []string, withStock bool) ([]lotSnapshot, error) {
	out := make([]lotSnapshot, len(lotIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, lotID := range lotIDs {
		i, lotID := i, lotID
		g.Go(func() error {
			state, err := uc.resolver.ResolveState(gctx, companyID, lotID)
			if err != nil {
				return err
			}
			out[i].State = state
			if !withStock {
				return nil
			}
			stock, err := uc.ledger.GetCurrentStock(gctx, companyID, lotID)
			if err != nil {
				return err
			}
			out[i].StockKg = stock
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LotStock estado y saldo actual de un lote.
func (uc *ReportingUseCase) LotStock(ctx context.Context, companyID, lotID string) (*dto.LotStockResponse, error) {
	if _, err := uc.lotRepo.GetByID(ctx, companyID, lotID); err != nil {
		return nil, fmt.Errorf("lote %s: %w", lotID, err)
	}
	snaps, err := uc.snapshots(ctx, companyID, []string{lotID}, true)
	if err != nil {
		return nil, err
	}
	return &dto.LotStockResponse{LotID: lotID, State: string(snaps[0].State), StockKg: snaps[0].StockKg}, nil
}

// InventorySummary totales de kg por estado, bolsas empacadas por tipo y rotación promedio.
//
// Tres lecturas independientes en paralelo:
//  1. lotes de la empresa → estado + saldo de cada uno
//  2. observaciones de empaque → bolsas por tipo
//  3. primera recepción y último despacho por lote → rotación
func (uc *ReportingUseCase) InventorySummary(ctx context.Context, companyID string) (*dto.InventorySummaryResponse, error) {
	totals := make(map[domaininv.LotState]decimal.Decimal, len(domaininv.LotStates))
	bags := map[string]decimal.Decimal{}
	var rotation decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lots, err := uc.lotRepo.ListByCompany(gctx, companyID)
		if err != nil {
			return fmt.Errorf("resumen: listar lotes: %w", err)
		}
		ids := make([]string, len(lots))
		for i := range lots {
			ids[i] = lots[i].ID
		}
		snaps, err := uc.snapshots(gctx, companyID, ids, true)
		if err != nil {
			return fmt.Errorf("resumen: %w", err)
		}
		for _, s := range snaps {
			totals[s.State] = totals[s.State].Add(s.StockKg)
		}
		return nil
	})
	g.Go(func() error {
		blobs, err := uc.stageRepo.PackagingObservations(gctx, companyID)
		if err != nil {
			return fmt.Errorf("resumen: observaciones de empaque: %w", err)
		}
		for _, blob := range blobs {
			counts, ok := domaininv.ParseBagCounts(blob)
			if !ok {
				continue
			}
			domaininv.AddBagCounts(bags, counts)
		}
		return nil
	})
	g.Go(func() error {
		spans, err := uc.lotRepo.RotationSpans(gctx, companyID)
		if err != nil {
			return fmt.Errorf("resumen: rotación: %w", err)
		}
		rotation = domaininv.AverageRotationDays(spans)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.InventorySummaryResponse{
		KgPergaminoTotal:     totals[domaininv.StatePergamino].Round(3),
		KgTrilladoTotal:      totals[domaininv.StateTrillado].Round(3),
		KgTostadoTotal:       totals[domaininv.StateTostado].Round(3),
		KgEmpacadoTotal:      totals[domaininv.StateEmpacado].Round(3),
		EmpacadoPorTipoBolsa: bags,
		RotacionPromedioDias: rotation,
	}, nil
}

// LotsMaster listado de lotes con estado y saldo resueltos. El filtro de estado se aplica
// después de resolver, porque el estado no existe como columna.
func (uc *ReportingUseCase) LotsMaster(ctx context.Context, companyID string, in dto.LotMasterFilterRequest) ([]dto.LotMasterResponse, error) {
	rows, err := uc.lotRepo.ListMaster(ctx, companyID, repository.LotFilter{
		Search:     strings.TrimSpace(in.Search),
		ProviderID: in.ProviderID,
		LineID:     in.LineID,
	})
	if err != nil {
		return nil, fmt.Errorf("maestro de lotes: %w", err)
	}
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	snaps, err := uc.snapshots(ctx, companyID, ids, true)
	if err != nil {
		return nil, fmt.Errorf("maestro de lotes: %w", err)
	}

	out := make([]dto.LotMasterResponse, 0, len(rows))
	for i, r := range rows {
		if in.State != "" && string(snaps[i].State) != in.State {
			continue
		}
		out = append(out, toLotMasterResponse(r, snaps[i]))
	}
	return out, nil
}

func toLotMasterResponse(r repository.LotMasterRow, s lotSnapshot) dto.LotMasterResponse {
	quality := qualityPending
	if r.LastCuppingAcceptance != nil && *r.LastCuppingAcceptance {
		quality = qualityAccepted
	}
	destination := r.DestinationName
	if destination == nil {
		destination = r.DestinationID
	}
	return dto.LotMasterResponse{
		ID:                    r.ID,
		Code:                  r.Code,
		Name:                  r.Name,
		ProviderName:          r.ProviderName,
		LineName:              r.LineName,
		Origin:                joinOrigin(r.OriginRegion, r.OriginPlace),
		Variety:               r.Variety,
		Process:               r.Process,
		QuantityKg:            r.QuantityKg,
		Destination:           destination,
		LastCuppingScore:      r.LastCuppingScore,
		LastCuppingAcceptance: r.LastCuppingAcceptance,
		QualityStatus:         quality,
		CurrentState:          string(s.State),
		CurrentStockKg:        s.StockKg,
		CreatedAt:             r.CreatedAt,
	}
}

// joinOrigin une región y lugar no vacíos con " - ".
func joinOrigin(region, place *string) string {
	parts := make([]string, 0, 2)
	for _, p := range []*string{region, place} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " - ")
}

// Movements últimos movimientos de la empresa (máximo 500). Con filtro de estado, cada lote
// distinto se resuelve una sola vez por petición.
func (uc *ReportingUseCase) Movements(ctx context.Context, companyID string, f repository.MovementFilter, state string) ([]dto.MovementResponse, error) {
	if f.Limit <= 0 || f.Limit > movementsListLimit {
		f.Limit = movementsListLimit
	}
	movs, err := uc.movRepo.List(ctx, companyID, f)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}

	var states map[string]domaininv.LotState
	if state != "" {
		var ids []string
		seen := map[string]bool{}
		for _, m := range movs {
			if !seen[m.LotID] {
				seen[m.LotID] = true
				ids = append(ids, m.LotID)
			}
		}
		snaps, err := uc.snapshots(ctx, companyID, ids, false)
		if err != nil {
			return nil, fmt.Errorf("listar movimientos: %w", err)
		}
		states = make(map[string]domaininv.LotState, len(ids))
		for i, id := range ids {
			states[id] = snaps[i].State
		}
	}

	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		if states != nil && string(states[m.LotID]) != state {
			continue
		}
		out = append(out, dto.MovementResponse{
			ID:               m.ID,
			LotID:            m.LotID,
			LotCode:          m.LotCode,
			ProviderName:     m.ProviderName,
			LineName:         m.LineName,
			MovementType:     m.MovementType,
			Direction:        m.Direction,
			QuantityKg:       m.QuantityKg,
			ResultingStockKg: m.ResultingStockKg,
			Notes:            m.Notes,
			CreatedAt:        m.CreatedAt,
		})
	}
	return out, nil
}
