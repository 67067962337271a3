package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var _ repository.QualityRepository = (*QualityRepo)(nil)

// QualityRepo consultas del tablero de calidad sobre lot_cuppings.
type QualityRepo struct {
	q Querier
}

// NewQualityRepository construye el adaptador.
func NewQualityRepository(q Querier) *QualityRepo {
	return &QualityRepo{q: q}
}

// TopLots catas más recientes con su lote y proveedor.
func (r *QualityRepo) TopLots(ctx context.Context, companyID string, limit int) ([]repository.TopLotResult, error) {
	query, args, err := psql.Select(
		"c.id AS cupping_id", "l.id AS lot_id", "l.code AS lot_code", "p.name AS provider_name",
		"c.total_score", "c.is_accepted", "c.evaluated_at",
	).
		From("lot_cuppings c").
		Join("lots l ON l.id = c.lot_id AND l.company_id = c.company_id").
		LeftJoin("providers p ON p.id = l.provider_id").
		Where("c.company_id = ?", companyID).
		OrderBy("c.evaluated_at DESC", "c.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top lots query: %w", err)
	}
	var out []repository.TopLotResult
	if err := pgxscan.Select(ctx, r.q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("top lots: %w", err)
	}
	return out, nil
}

// TopProviders proveedores por puntaje promedio de cata.
func (r *QualityRepo) TopProviders(ctx context.Context, companyID string, limit int) ([]repository.TopProviderResult, error) {
	query, args, err := psql.Select(
		"p.id::text AS id", "p.name",
		"COUNT(c.id) AS lotes_evaluados", "ROUND(AVG(c.total_score), 2) AS puntaje_promedio",
	).
		From("lot_cuppings c").
		Join("lots l ON l.id = c.lot_id AND l.company_id = c.company_id").
		LeftJoin("providers p ON p.id = l.provider_id").
		Where("c.company_id = ?", companyID).
		Where("c.total_score IS NOT NULL").
		GroupBy("p.id", "p.name").
		OrderBy("puntaje_promedio DESC NULLS LAST", "lotes_evaluados DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top providers query: %w", err)
	}
	var out []repository.TopProviderResult
	if err := pgxscan.Select(ctx, r.q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("top providers: %w", err)
	}
	return out, nil
}

// ProviderHistory puntajes de cata de los lotes de un proveedor, en orden cronológico.
func (r *QualityRepo) ProviderHistory(ctx context.Context, companyID, providerID string) ([]repository.ProviderHistoryPoint, error) {
	var out []repository.ProviderHistoryPoint
	err := pgxscan.Select(ctx, r.q, &out, `
		SELECT c.id, c.total_score, c.evaluated_at, l.code AS lot_code
		FROM lot_cuppings c
		JOIN lots l ON l.id = c.lot_id AND l.company_id = c.company_id
		WHERE c.company_id = $1 AND l.provider_id = $2
		ORDER BY c.evaluated_at ASC, c.id ASC`,
		companyID, providerID,
	)
	if err != nil {
		return nil, fmt.Errorf("provider history: %w", err)
	}
	return out, nil
}

// GetCupping detalle de una cata. ErrNotFound si no es de la empresa.
func (r *QualityRepo) GetCupping(ctx context.Context, companyID string, id int64) (*repository.CuppingDetail, error) {
	var out repository.CuppingDetail
	err := pgxscan.Get(ctx, r.q, &out, `
		SELECT c.id, c.company_id, c.lot_id, c.total_score, c.is_accepted, c.attributes_json,
		       c.notes, c.evaluated_by, c.evaluated_at, l.code AS lot_code, p.name AS provider_name
		FROM lot_cuppings c
		JOIN lots l ON l.id = c.lot_id AND l.company_id = c.company_id
		LEFT JOIN providers p ON p.id = l.provider_id
		WHERE c.id = $1 AND c.company_id = $2`,
		id, companyID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cupping: %w", err)
	}
	return &out, nil
}

// SaveCupping crea (o reemplaza la del lote) si ID == 0; si no, actualiza por id.
func (r *QualityRepo) SaveCupping(ctx context.Context, c *entity.Cupping) error {
	if c.ID == 0 {
		return NewStageRepository(r.q).UpsertCupping(ctx, c)
	}
	err := r.q.QueryRow(ctx, `
		UPDATE lot_cuppings
		SET total_score = $3, is_accepted = $4, attributes_json = $5, notes = $6,
		    evaluated_by = $7, evaluated_at = now()
		WHERE id = $1 AND company_id = $2
		RETURNING lot_id, evaluated_at`,
		c.ID, c.CompanyID, c.TotalScore, c.IsAccepted, c.AttributesJSON, c.Notes, c.EvaluatedBy,
	).Scan(&c.LotID, &c.EvaluatedAt)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update cupping: %w", err)
	}
	return nil
}
