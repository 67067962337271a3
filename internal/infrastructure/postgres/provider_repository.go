package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo implementación del puerto ProviderRepository sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador de persistencia para proveedores.
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

const providerColumns = `id, company_id, name, contact_name, phone, email, region, municipality, is_active, created_at`

func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO providers (`+providerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.CompanyID, p.Name, p.ContactName, p.Phone, p.Email, p.Region, p.Municipality, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert provider: %w", mapWriteError(err))
	}
	return nil
}

func (r *ProviderRepo) Update(ctx context.Context, p *entity.Provider) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE providers
		SET name = $3, contact_name = $4, phone = $5, email = $6, region = $7, municipality = $8, is_active = $9
		WHERE id = $1 AND company_id = $2`,
		p.ID, p.CompanyID, p.Name, p.ContactName, p.Phone, p.Email, p.Region, p.Municipality, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update provider: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete falla con ErrConflict si el proveedor tiene lotes asociados.
func (r *ProviderRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM providers WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete provider: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProviderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Provider, error) {
	var p entity.Provider
	err := pgxscan.Get(ctx, r.q, &p,
		`SELECT `+providerColumns+` FROM providers WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return &p, nil
}

func (r *ProviderRepo) List(ctx context.Context, companyID string) ([]entity.Provider, error) {
	var out []entity.Provider
	err := pgxscan.Select(ctx, r.q, &out,
		`SELECT `+providerColumns+` FROM providers WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return out, nil
}
