package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo destinaciones, líneas de café y servicios. Las tres tablas comparten columnas.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador de catálogos.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// catalogTables lista blanca kind -> tabla; el nombre nunca viene del cliente.
var catalogTables = map[string]string{
	entity.CatalogDestinations: "destinations",
	entity.CatalogCoffeeLines:  "coffee_lines",
	entity.CatalogServices:     "services",
}

const catalogColumns = `id, company_id, name, code, description, is_active, created_at`

func catalogTable(kind string) (string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return "", fmt.Errorf("catálogo %q: %w", kind, domain.ErrInvalidInput)
	}
	return t, nil
}

func (r *CatalogRepo) List(ctx context.Context, kind, companyID string) ([]entity.CatalogItem, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	var items []entity.CatalogItem
	err = pgxscan.Select(ctx, r.q, &items,
		`SELECT `+catalogColumns+` FROM `+table+` WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return items, nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, kind, companyID, id string) (*entity.CatalogItem, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	var item entity.CatalogItem
	err = pgxscan.Get(ctx, r.q, &item,
		`SELECT `+catalogColumns+` FROM `+table+` WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return &item, nil
}

func (r *CatalogRepo) Create(ctx context.Context, kind string, item *entity.CatalogItem) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO `+table+` (`+catalogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.CompanyID, item.Name, item.Code, item.Description, item.IsActive, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, mapWriteError(err))
	}
	return nil
}

func (r *CatalogRepo) Update(ctx context.Context, kind string, item *entity.CatalogItem) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE `+table+` SET name = $3, code = $4, description = $5, is_active = $6
		 WHERE id = $1 AND company_id = $2`,
		item.ID, item.CompanyID, item.Name, item.Code, item.Description, item.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) Delete(ctx context.Context, kind, companyID, id string) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
