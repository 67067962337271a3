package repository

import (
	"context"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// CatalogRepository puerto de los catálogos administrativos; kind es una de las constantes entity.Catalog*.
type CatalogRepository interface {
	List(ctx context.Context, kind, companyID string) ([]entity.CatalogItem, error)
	GetByID(ctx context.Context, kind, companyID, id string) (*entity.CatalogItem, error)
	Create(ctx context.Context, kind string, item *entity.CatalogItem) error
	Update(ctx context.Context, kind string, item *entity.CatalogItem) error
	Delete(ctx context.Context, kind, companyID, id string) error
}
