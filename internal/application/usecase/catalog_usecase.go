package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// CatalogUseCase CRUD de la configuración administrativa: destinaciones, líneas de café y servicios.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

func checkKind(kind string) error {
	switch kind {
	case entity.CatalogDestinations, entity.CatalogCoffeeLines, entity.CatalogServices:
		return nil
	}
	return fmt.Errorf("%w: catálogo %q", domain.ErrInvalidInput, kind)
}

// List ítems del catálogo por nombre.
func (uc *CatalogUseCase) List(ctx context.Context, kind, companyID string) ([]dto.CatalogItemResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	items, err := uc.repo.List(ctx, kind, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toCatalogResponse(&items[i]))
	}
	return out, nil
}

// Create agrega un ítem activo salvo que se indique lo contrario.
func (uc *CatalogUseCase) Create(ctx context.Context, kind, companyID string, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	item := &entity.CatalogItem{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	applyCatalog(item, in)
	if err := uc.repo.Create(ctx, kind, item); err != nil {
		return nil, err
	}
	res := toCatalogResponse(item)
	return &res, nil
}

// Update reemplaza nombre, código, descripción y estado.
func (uc *CatalogUseCase) Update(ctx context.Context, kind, companyID, id string, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, kind, companyID, id)
	if err != nil {
		return nil, err
	}
	applyCatalog(item, in)
	if err := uc.repo.Update(ctx, kind, item); err != nil {
		return nil, err
	}
	res := toCatalogResponse(item)
	return &res, nil
}

// Delete elimina el ítem.
func (uc *CatalogUseCase) Delete(ctx context.Context, kind, companyID, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, kind, companyID, id)
}

func applyCatalog(item *entity.CatalogItem, in dto.CatalogItemRequest) {
	item.Name = in.Name
	item.Code = in.Code
	item.Description = in.Description
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
}

func toCatalogResponse(i *entity.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Code:        i.Code,
		Description: i.Description,
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
	}
}
