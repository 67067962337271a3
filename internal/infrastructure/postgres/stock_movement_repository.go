package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de stock sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador (acepta pool o tx).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, lot_id, movement_type, direction, quantity_kg,
	related_entity_type, related_entity_id, notes, resulting_stock_kg, created_at`

// Create inserta el movimiento; la base asigna id y, si m.CreatedAt es cero, created_at.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (company_id, lot_id, movement_type, direction, quantity_kg,
		                             related_entity_type, related_entity_id, notes, resulting_stock_kg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10::timestamptz, now()))
		RETURNING id, created_at`
	var createdAt *time.Time
	if !m.CreatedAt.IsZero() {
		createdAt = &m.CreatedAt
	}
	err := r.q.QueryRow(ctx, query,
		m.CompanyID, m.LotID, m.MovementType, m.Direction, m.QuantityKg,
		m.RelatedEntityType, m.RelatedEntityID, m.Notes, m.ResultingStockKg, createdAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByLot todos los movimientos del lote en orden de reproducción.
func (r *StockMovementRepo) ListByLot(ctx context.Context, companyID, lotID string) ([]entity.StockMovement, error) {
	var movs []entity.StockMovement
	err := pgxscan.Select(ctx, r.q, &movs,
		`SELECT `+movementColumns+` FROM stock_movements
		 WHERE company_id = $1 AND lot_id = $2
		 ORDER BY created_at ASC, id ASC`,
		companyID, lotID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return movs, nil
}

// UpdateResultingStock escribe los saldos en un solo viaje a la base (pgx.Batch).
func (r *StockMovementRepo) UpdateResultingStock(ctx context.Context, movs []entity.StockMovement) error {
	if len(movs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range movs {
		batch.Queue(`UPDATE stock_movements SET resulting_stock_kg = $1 WHERE id = $2`, m.ResultingStockKg, m.ID)
	}
	br := r.q.SendBatch(ctx, batch)
	for range movs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("update resulting stock: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("update resulting stock: %w", err)
	}
	return nil
}

// Latest último movimiento del lote o nil si no tiene.
func (r *StockMovementRepo) Latest(ctx context.Context, companyID, lotID string) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := pgxscan.Get(ctx, r.q, &m,
		`SELECT `+movementColumns+` FROM stock_movements
		 WHERE company_id = $1 AND lot_id = $2
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		companyID, lotID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest stock movement: %w", err)
	}
	return &m, nil
}

// DeleteByRelatedEntity borra los movimientos ligados a un registro de etapa.
// Devuelve el created_at más antiguo de las filas borradas, o nil si no había.
func (r *StockMovementRepo) DeleteByRelatedEntity(ctx context.Context, companyID, lotID, entityType, entityID string) (*time.Time, error) {
	var first *time.Time
	err := r.q.QueryRow(ctx,
		`WITH deleted AS (
		     DELETE FROM stock_movements
		     WHERE company_id = $1 AND lot_id = $2 AND related_entity_type = $3 AND related_entity_id = $4
		     RETURNING created_at
		 )
		 SELECT MIN(created_at) FROM deleted`,
		companyID, lotID, entityType, entityID,
	).Scan(&first)
	if err != nil {
		return nil, fmt.Errorf("delete stock movements: %w", err)
	}
	return first, nil
}

// List movimientos recientes de la empresa con lote, proveedor y línea.
func (r *StockMovementRepo) List(ctx context.Context, companyID string, f repository.MovementFilter) ([]entity.StockMovementDetail, error) {
	qb := psql.Select(
		"m.id", "m.company_id", "m.lot_id", "m.movement_type", "m.direction", "m.quantity_kg",
		"m.related_entity_type", "m.related_entity_id", "m.notes", "m.resulting_stock_kg", "m.created_at",
		"l.code AS lot_code", "p.name AS provider_name", "cl.name AS line_name",
	).
		From("stock_movements m").
		Join("lots l ON l.id = m.lot_id AND l.company_id = m.company_id").
		LeftJoin("providers p ON p.id = l.provider_id").
		LeftJoin("coffee_lines cl ON cl.id = l.line_id").
		Where(squirrel.Eq{"m.company_id": companyID}).
		OrderBy("m.created_at DESC", "m.id DESC")

	if f.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"m.created_at": *f.From})
	}
	if f.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"m.created_at": *f.To})
	}
	if f.ProviderID != "" {
		qb = qb.Where(squirrel.Eq{"l.provider_id": f.ProviderID})
	}
	if f.LineID != "" {
		qb = qb.Where(squirrel.Eq{"l.line_id": f.LineID})
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build movements query: %w", err)
	}
	var movs []entity.StockMovementDetail
	if err := pgxscan.Select(ctx, r.q, &movs, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movs, nil
}
