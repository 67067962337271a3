package repository

import (
	"context"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// ProviderRepository puerto de persistencia de proveedores.
type ProviderRepository interface {
	Create(ctx context.Context, p *entity.Provider) error
	Update(ctx context.Context, p *entity.Provider) error
	Delete(ctx context.Context, companyID, id string) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Provider, error)
	List(ctx context.Context, companyID string) ([]entity.Provider, error)
}
