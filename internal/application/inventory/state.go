package inventory

import (
	"context"
	"fmt"

	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// LotStateResolver deriva la etapa actual de un lote a partir de sus registros de etapa.
// Solo lectura: el estado nunca se persiste.
type LotStateResolver struct {
	stageRepo repository.StageRepository
}

// NewLotStateResolver construye el resolvedor.
func NewLotStateResolver(stageRepo repository.StageRepository) *LotStateResolver {
	return &LotStateResolver{stageRepo: stageRepo}
}

// ResolveState devuelve pergamino, trillado, tostado o empacado.
func (r *LotStateResolver) ResolveState(ctx context.Context, companyID, lotID string) (domaininv.LotState, error) {
	marks, err := r.stageRepo.Marks(ctx, companyID, lotID)
	if err != nil {
		return "", fmt.Errorf("marcas de etapa del lote %s: %w", lotID, err)
	}
	return domaininv.ResolveState(marks), nil
}
