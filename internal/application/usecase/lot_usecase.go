package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// LotUseCase alta y listado de lotes. El stock no se toca aquí: entra con el formulario de ingreso.
type LotUseCase struct {
	lotRepo      repository.LotRepository
	providerRepo repository.ProviderRepository
	catalogRepo  repository.CatalogRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(lotRepo repository.LotRepository, providerRepo repository.ProviderRepository, catalogRepo repository.CatalogRepository) *LotUseCase {
	return &LotUseCase{lotRepo: lotRepo, providerRepo: providerRepo, catalogRepo: catalogRepo}
}

// Create registra un lote nuevo con estado "ingresado".
// Proveedor y línea, si vienen, deben pertenecer a la empresa.
func (uc *LotUseCase) Create(ctx context.Context, companyID string, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if in.QuantityKg.IsNegative() || in.PricePerKg.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	var providerName, lineName *string
	if in.ProviderID != nil {
		p, err := uc.providerRepo.GetByID(ctx, companyID, *in.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("proveedor: %w", err)
		}
		providerName = &p.Name
	}
	if in.LineID != nil {
		l, err := uc.catalogRepo.GetByID(ctx, entity.CatalogCoffeeLines, companyID, *in.LineID)
		if err != nil {
			return nil, fmt.Errorf("línea de café: %w", err)
		}
		lineName = &l.Name
	}

	lot := &entity.Lot{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		ProviderID:   in.ProviderID,
		LineID:       in.LineID,
		Code:         strings.TrimSpace(in.Code),
		Name:         strings.TrimSpace(in.Name),
		OriginRegion: in.OriginRegion,
		OriginPlace:  in.OriginPlace,
		Variety:      in.Variety,
		Process:      in.Process,
		QualityScore: in.QualityScore,
		QuantityKg:   in.QuantityKg,
		PricePerKg:   in.PricePerKg,
		Status:       entity.LotStatusIngresado,
		CreatedAt:    time.Now(),
	}
	if err := uc.lotRepo.Create(ctx, lot); err != nil {
		return nil, err
	}
	return toLotResponse(&entity.LotDetail{Lot: *lot, ProviderName: providerName, LineName: lineName}), nil
}

// List lotes de la empresa, más recientes primero.
func (uc *LotUseCase) List(ctx context.Context, companyID string) ([]dto.LotResponse, error) {
	lots, err := uc.lotRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		out = append(out, *toLotResponse(&lots[i]))
	}
	return out, nil
}

func toLotResponse(l *entity.LotDetail) *dto.LotResponse {
	return &dto.LotResponse{
		ID:           l.ID,
		Code:         l.Code,
		Name:         l.Name,
		ProviderID:   l.ProviderID,
		ProviderName: l.ProviderName,
		LineID:       l.LineID,
		LineName:     l.LineName,
		OriginRegion: l.OriginRegion,
		OriginPlace:  l.OriginPlace,
		Variety:      l.Variety,
		Process:      l.Process,
		QualityScore: l.QualityScore,
		QuantityKg:   l.QuantityKg,
		PricePerKg:   l.PricePerKg,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
	}
}
