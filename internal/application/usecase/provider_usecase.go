package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// ProviderUseCase casos de uso CRUD para proveedores (caficultores).
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

// Create crea un proveedor activo salvo que se indique lo contrario.
func (uc *ProviderUseCase) Create(ctx context.Context, companyID string, in dto.ProviderRequest) (*dto.ProviderResponse, error) {
	p := &entity.Provider{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	applyProvider(p, in)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// Update reemplaza los datos del proveedor. ErrNotFound si no es de la empresa.
func (uc *ProviderUseCase) Update(ctx context.Context, companyID, id string, in dto.ProviderRequest) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	applyProvider(p, in)
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// Delete elimina el proveedor.
func (uc *ProviderUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.Delete(ctx, companyID, id)
}

// List lista los proveedores de la empresa por nombre.
func (uc *ProviderUseCase) List(ctx context.Context, companyID string) ([]dto.ProviderResponse, error) {
	list, err := uc.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderResponse, 0, len(list))
	for i := range list {
		out = append(out, *toProviderResponse(&list[i]))
	}
	return out, nil
}

func applyProvider(p *entity.Provider, in dto.ProviderRequest) {
	p.Name = in.Name
	p.ContactName = in.ContactName
	p.Phone = in.Phone
	p.Email = in.Email
	p.Region = in.Region
	p.Municipality = in.Municipality
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:           p.ID,
		Name:         p.Name,
		ContactName:  p.ContactName,
		Phone:        p.Phone,
		Email:        p.Email,
		Region:       p.Region,
		Municipality: p.Municipality,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}
