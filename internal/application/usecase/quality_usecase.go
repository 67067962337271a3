package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

const (
	defaultTopLimit = 5
	maxTopLimit     = 50
)

// QualityUseCase tablero de calidad: rankings de catas, histórico por proveedor y edición de catas.
type QualityUseCase struct {
	qualityRepo repository.QualityRepository
	lotRepo     repository.LotRepository
}

// NewQualityUseCase construye el caso de uso.
func NewQualityUseCase(qualityRepo repository.QualityRepository, lotRepo repository.LotRepository) *QualityUseCase {
	return &QualityUseCase{qualityRepo: qualityRepo, lotRepo: lotRepo}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}

// TopLots catas más recientes (y mejor puntuadas en empate).
func (uc *QualityUseCase) TopLots(ctx context.Context, companyID string, limit int) ([]repository.TopLotResult, error) {
	return uc.qualityRepo.TopLots(ctx, companyID, clampLimit(limit))
}

// TopProviders proveedores por puntaje promedio de cata.
func (uc *QualityUseCase) TopProviders(ctx context.Context, companyID string, limit int) ([]repository.TopProviderResult, error) {
	return uc.qualityRepo.TopProviders(ctx, companyID, clampLimit(limit))
}

// ProviderHistory puntajes de cata del proveedor en orden cronológico.
func (uc *QualityUseCase) ProviderHistory(ctx context.Context, companyID, providerID string) ([]repository.ProviderHistoryPoint, error) {
	return uc.qualityRepo.ProviderHistory(ctx, companyID, providerID)
}

// Cupping detalle de una cata de la empresa.
func (uc *QualityUseCase) Cupping(ctx context.Context, companyID string, id int64) (*repository.CuppingDetail, error) {
	return uc.qualityRepo.GetCupping(ctx, companyID, id)
}

// SaveCupping crea o actualiza una cata. El lote debe ser de la empresa.
func (uc *QualityUseCase) SaveCupping(ctx context.Context, companyID string, in dto.SaveCuppingRequest) (*dto.SaveCuppingResponse, bool, error) {
	if _, err := uc.lotRepo.GetByID(ctx, companyID, in.LotID); err != nil {
		return nil, false, fmt.Errorf("lote %s: %w", in.LotID, err)
	}
	attrs := "{}"
	if len(in.Attributes) > 0 && string(in.Attributes) != "null" {
		attrs = string(in.Attributes)
	}
	c := &entity.Cupping{
		ID:             in.ID,
		CompanyID:      companyID,
		LotID:          in.LotID,
		TotalScore:     in.TotalScore,
		IsAccepted:     in.IsAccepted,
		AttributesJSON: attrs,
		Notes:          in.Notes,
		EvaluatedBy:    in.EvaluatedBy,
	}
	created := in.ID == 0
	if err := uc.qualityRepo.SaveCupping(ctx, c); err != nil {
		return nil, false, err
	}
	return &dto.SaveCuppingResponse{ID: c.ID}, created, nil
}
