package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador (acepta pool o tx).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotDetailSelect = `
	SELECT l.id, l.company_id, l.provider_id, l.line_id, l.code, l.name,
	       l.origin_region, l.origin_place, l.variety, l.process, l.quality_score,
	       l.quantity_kg, l.price_per_kg, l.status, l.created_at,
	       p.name AS provider_name, cl.name AS line_name
	FROM lots l
	LEFT JOIN providers p ON p.id = l.provider_id
	LEFT JOIN coffee_lines cl ON cl.id = l.line_id`

// Create persiste un lote nuevo.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, company_id, provider_id, line_id, code, name, origin_region, origin_place,
		                  variety, process, quality_score, quantity_kg, price_per_kg, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.CompanyID, lot.ProviderID, lot.LineID, lot.Code, lot.Name,
		lot.OriginRegion, lot.OriginPlace, lot.Variety, lot.Process, lot.QualityScore,
		lot.QuantityKg, lot.PricePerKg, lot.Status, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", mapWriteError(err))
	}
	return nil
}

// GetByID obtiene el lote con nombres de proveedor y línea. ErrNotFound si no es de la empresa.
func (r *LotRepo) GetByID(ctx context.Context, companyID, lotID string) (*entity.LotDetail, error) {
	var lot entity.LotDetail
	err := pgxscan.Get(ctx, r.q, &lot, lotDetailSelect+` WHERE l.id = $1 AND l.company_id = $2`, lotID, companyID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &lot, nil
}

// LockForUpdate bloquea la fila del lote (SELECT ... FOR UPDATE) hasta el fin de la transacción.
func (r *LotRepo) LockForUpdate(ctx context.Context, companyID, lotID string) error {
	var id string
	err := r.q.QueryRow(ctx,
		`SELECT id FROM lots WHERE id = $1 AND company_id = $2 FOR UPDATE`,
		lotID, companyID,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock lot: %w", err)
	}
	return nil
}

// ListByCompany lista los lotes de la empresa, los más recientes primero.
func (r *LotRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.LotDetail, error) {
	var lots []entity.LotDetail
	err := pgxscan.Select(ctx, r.q, &lots, lotDetailSelect+` WHERE l.company_id = $1 ORDER BY l.created_at DESC, l.id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// ListMaster filas del maestro de lotes: último ingreso (destino) y última cata por lote.
func (r *LotRepo) ListMaster(ctx context.Context, companyID string, f repository.LotFilter) ([]repository.LotMasterRow, error) {
	qb := psql.Select(
		"l.id", "l.code", "l.name", "l.origin_region", "l.origin_place", "l.variety", "l.process",
		"l.quantity_kg", "l.created_at",
		"p.name AS provider_name", "cl.name AS line_name",
		"li.destination_id::text AS destination_id", "d.name AS destination_name",
		"lc.total_score AS last_cupping_score", "lc.is_accepted AS last_cupping_acceptance",
	).
		From("lots l").
		LeftJoin("providers p ON p.id = l.provider_id").
		LeftJoin("coffee_lines cl ON cl.id = l.line_id").
		LeftJoin(`LATERAL (
			SELECT i.destination_id FROM lot_intakes i
			WHERE i.company_id = l.company_id AND i.lot_id = l.id
			ORDER BY i.received_at DESC, i.id DESC LIMIT 1
		) li ON TRUE`).
		LeftJoin("destinations d ON d.id = li.destination_id").
		LeftJoin(`LATERAL (
			SELECT c.total_score, c.is_accepted FROM lot_cuppings c
			WHERE c.company_id = l.company_id AND c.lot_id = l.id
			ORDER BY c.evaluated_at DESC, c.id DESC LIMIT 1
		) lc ON TRUE`).
		Where(squirrel.Eq{"l.company_id": companyID}).
		OrderBy("l.created_at DESC", "l.id")

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"l.code": like},
			squirrel.ILike{"l.name": like},
			squirrel.ILike{"p.name": like},
			squirrel.ILike{"l.origin_place": like},
		})
	}
	if f.ProviderID != "" {
		qb = qb.Where(squirrel.Eq{"l.provider_id": f.ProviderID})
	}
	if f.LineID != "" {
		qb = qb.Where(squirrel.Eq{"l.line_id": f.LineID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lots master query: %w", err)
	}
	var rows []repository.LotMasterRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lots master: %w", err)
	}
	return rows, nil
}

type rotationRow struct {
	FirstIntake  *time.Time `db:"first_intake"`
	LastDispatch *time.Time `db:"last_dispatch"`
}

// RotationSpans primer ingreso y último despacho por lote de la empresa.
func (r *LotRepo) RotationSpans(ctx context.Context, companyID string) ([]inventory.RotationSpan, error) {
	query := `
		SELECT
			(SELECT MIN(i.received_at) FROM lot_intakes i
			  WHERE i.company_id = l.company_id AND i.lot_id = l.id) AS first_intake,
			(SELECT MAX(d.dispatched_at) FROM lot_dispatches d
			  WHERE d.company_id = l.company_id AND d.lot_id = l.id) AS last_dispatch
		FROM lots l
		WHERE l.company_id = $1`
	var rows []rotationRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, companyID); err != nil {
		return nil, fmt.Errorf("rotation spans: %w", err)
	}
	spans := make([]inventory.RotationSpan, len(rows))
	for i, row := range rows {
		spans[i] = inventory.RotationSpan{FirstIntake: row.FirstIntake, LastDispatch: row.LastDispatch}
	}
	return spans, nil
}
