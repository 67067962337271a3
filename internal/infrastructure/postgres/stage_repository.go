package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

var _ repository.StageRepository = (*StageRepo)(nil)

// StageRepo tablas de etapa sobre PostgreSQL. UNIQUE (company_id, lot_id) en cada tabla
// garantiza un solo registro por lote; los upsert usan ON CONFLICT sobre esa llave.
type StageRepo struct {
	q Querier
}

// NewStageRepository construye el adaptador (acepta pool o tx).
func NewStageRepository(q Querier) *StageRepo {
	return &StageRepo{q: q}
}

// Marks últimas fechas de empaque, tueste y trilla del lote en una sola consulta.
func (r *StageRepo) Marks(ctx context.Context, companyID, lotID string) (inventory.StageMarks, error) {
	query := `
		SELECT
			(SELECT p.packed_at FROM lot_packagings p
			  WHERE p.company_id = $1 AND p.lot_id = $2
			  ORDER BY p.packed_at DESC, p.id DESC LIMIT 1),
			(SELECT r.performed_at FROM lot_roastings r
			  WHERE r.company_id = $1 AND r.lot_id = $2
			  ORDER BY r.performed_at DESC, r.id DESC LIMIT 1),
			(SELECT t.performed_at FROM lot_trillings t
			  WHERE t.company_id = $1 AND t.lot_id = $2
			  ORDER BY t.performed_at DESC, t.id DESC LIMIT 1)`
	var m inventory.StageMarks
	if err := r.q.QueryRow(ctx, query, companyID, lotID).Scan(&m.PackedAt, &m.RoastedAt, &m.TrilledAt); err != nil {
		return inventory.StageMarks{}, fmt.Errorf("stage marks: %w", err)
	}
	return m, nil
}

// ── Upserts ──

func (r *StageRepo) UpsertIntake(ctx context.Context, rec *entity.Intake) error {
	query := `
		INSERT INTO lot_intakes (company_id, lot_id, destination_id, line_id, services_json, humidity_pct,
		                         package_type, package_detail, observations, caficultor_name, farm,
		                         municipality, contact_phone, email, material_type, weight_kg, received_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			destination_id = EXCLUDED.destination_id, line_id = EXCLUDED.line_id,
			services_json = EXCLUDED.services_json, humidity_pct = EXCLUDED.humidity_pct,
			package_type = EXCLUDED.package_type, package_detail = EXCLUDED.package_detail,
			observations = EXCLUDED.observations, caficultor_name = EXCLUDED.caficultor_name,
			farm = EXCLUDED.farm, municipality = EXCLUDED.municipality,
			contact_phone = EXCLUDED.contact_phone, email = EXCLUDED.email,
			material_type = EXCLUDED.material_type, weight_kg = EXCLUDED.weight_kg,
			received_by = EXCLUDED.received_by, received_at = now()
		RETURNING id, received_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.DestinationID, rec.LineID, rec.ServicesJSON, rec.HumidityPct,
		rec.PackageType, rec.PackageDetail, rec.Observations, rec.CaficultorName, rec.Farm,
		rec.Municipality, rec.ContactPhone, rec.Email, rec.MaterialType, rec.WeightKg, rec.ReceivedBy,
	).Scan(&rec.ID, &rec.ReceivedAt)
	if err != nil {
		return fmt.Errorf("upsert intake: %w", mapWriteError(err))
	}
	return nil
}

func (r *StageRepo) UpsertTrilling(ctx context.Context, rec *entity.Trilling) error {
	query := `
		INSERT INTO lot_trillings (company_id, lot_id, input_kg, output_kg, shrinkage_kg,
		                           humidity_before, humidity_after, machine_ok, observations, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			input_kg = EXCLUDED.input_kg, output_kg = EXCLUDED.output_kg,
			shrinkage_kg = EXCLUDED.shrinkage_kg, humidity_before = EXCLUDED.humidity_before,
			humidity_after = EXCLUDED.humidity_after, machine_ok = EXCLUDED.machine_ok,
			observations = EXCLUDED.observations, performed_by = EXCLUDED.performed_by,
			performed_at = now()
		RETURNING id, performed_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.InputKg, rec.OutputKg, rec.ShrinkageKg,
		rec.HumidityBefore, rec.HumidityAfter, rec.MachineOK, rec.Observations, rec.PerformedBy,
	).Scan(&rec.ID, &rec.PerformedAt)
	if err != nil {
		return fmt.Errorf("upsert trilling: %w", mapWriteError(err))
	}
	return nil
}

func (r *StageRepo) UpsertRoasting(ctx context.Context, rec *entity.Roasting) error {
	query := `
		INSERT INTO lot_roastings (company_id, lot_id, profile_code, roast_level, batches, input_kg,
		                           output_kg, shrinkage_kg, humidity_after, density, observations, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			profile_code = EXCLUDED.profile_code, roast_level = EXCLUDED.roast_level,
			batches = EXCLUDED.batches, input_kg = EXCLUDED.input_kg, output_kg = EXCLUDED.output_kg,
			shrinkage_kg = EXCLUDED.shrinkage_kg, humidity_after = EXCLUDED.humidity_after,
			density = EXCLUDED.density, observations = EXCLUDED.observations,
			performed_by = EXCLUDED.performed_by, performed_at = now()
		RETURNING id, performed_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.ProfileCode, rec.RoastLevel, rec.Batches, rec.InputKg,
		rec.OutputKg, rec.ShrinkageKg, rec.HumidityAfter, rec.Density, rec.Observations, rec.PerformedBy,
	).Scan(&rec.ID, &rec.PerformedAt)
	if err != nil {
		return fmt.Errorf("upsert roasting: %w", mapWriteError(err))
	}
	return nil
}

func (r *StageRepo) UpsertCupping(ctx context.Context, rec *entity.Cupping) error {
	query := `
		INSERT INTO lot_cuppings (company_id, lot_id, total_score, is_accepted, attributes_json, notes, evaluated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			total_score = EXCLUDED.total_score, is_accepted = EXCLUDED.is_accepted,
			attributes_json = EXCLUDED.attributes_json, notes = EXCLUDED.notes,
			evaluated_by = EXCLUDED.evaluated_by, evaluated_at = now()
		RETURNING id, evaluated_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.TotalScore, rec.IsAccepted, rec.AttributesJSON, rec.Notes, rec.EvaluatedBy,
	).Scan(&rec.ID, &rec.EvaluatedAt)
	if err != nil {
		return fmt.Errorf("upsert cupping: %w", mapWriteError(err))
	}
	return nil
}

func (r *StageRepo) UpsertPackaging(ctx context.Context, rec *entity.Packaging) error {
	query := `
		INSERT INTO lot_packagings (company_id, lot_id, total_kg, package_type, packages_count, observations, packed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			total_kg = EXCLUDED.total_kg, package_type = EXCLUDED.package_type,
			packages_count = EXCLUDED.packages_count, observations = EXCLUDED.observations,
			packed_by = EXCLUDED.packed_by, packed_at = now()
		RETURNING id, packed_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.TotalKg, rec.PackageType, rec.PackagesCount, rec.Observations, rec.PackedBy,
	).Scan(&rec.ID, &rec.PackedAt)
	if err != nil {
		return fmt.Errorf("upsert packaging: %w", mapWriteError(err))
	}
	return nil
}

func (r *StageRepo) UpsertDispatch(ctx context.Context, rec *entity.Dispatch) error {
	query := `
		INSERT INTO lot_dispatches (company_id, lot_id, client_name, destination_city, document_number,
		                            dispatched_kg, notes, dispatched_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			client_name = EXCLUDED.client_name, destination_city = EXCLUDED.destination_city,
			document_number = EXCLUDED.document_number, dispatched_kg = EXCLUDED.dispatched_kg,
			notes = EXCLUDED.notes, dispatched_by = EXCLUDED.dispatched_by, dispatched_at = now()
		RETURNING id, dispatched_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.ClientName, rec.DestinationCity, rec.DocumentNumber,
		rec.DispatchedKg, rec.Notes, rec.DispatchedBy,
	).Scan(&rec.ID, &rec.DispatchedAt)
	if err != nil {
		return fmt.Errorf("upsert dispatch: %w", mapWriteError(err))
	}
	return nil
}

func (r *StageRepo) UpsertInspection(ctx context.Context, rec *entity.Inspection) error {
	query := `
		INSERT INTO lot_inspections (company_id, lot_id, inspection_type, result, findings, inspected_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, lot_id) DO UPDATE SET
			inspection_type = EXCLUDED.inspection_type, result = EXCLUDED.result,
			findings = EXCLUDED.findings, inspected_by = EXCLUDED.inspected_by, inspected_at = now()
		RETURNING id, inspected_at`
	err := r.q.QueryRow(ctx, query,
		rec.CompanyID, rec.LotID, rec.InspectionType, rec.Result, rec.Findings, rec.InspectedBy,
	).Scan(&rec.ID, &rec.InspectedAt)
	if err != nil {
		return fmt.Errorf("upsert inspection: %w", mapWriteError(err))
	}
	return nil
}

// ── Lecturas ──

// getStage lee el registro de etapa en dst; false si no existe.
func (r *StageRepo) getStage(ctx context.Context, dst any, query, companyID, lotID string) (bool, error) {
	if err := pgxscan.Get(ctx, r.q, dst, query, companyID, lotID); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *StageRepo) GetIntake(ctx context.Context, companyID, lotID string) (*repository.IntakeDetail, error) {
	var rec repository.IntakeDetail
	ok, err := r.getStage(ctx, &rec, `
		SELECT i.id, i.company_id, i.lot_id, i.destination_id, i.line_id, i.services_json, i.humidity_pct,
		       i.package_type, i.package_detail, i.observations, i.caficultor_name, i.farm, i.municipality,
		       i.contact_phone, i.email, i.material_type, i.weight_kg, i.received_by, i.received_at,
		       d.name AS destination_name, cl.name AS coffee_line_name
		FROM lot_intakes i
		LEFT JOIN destinations d ON d.id = i.destination_id
		LEFT JOIN coffee_lines cl ON cl.id = i.line_id
		WHERE i.company_id = $1 AND i.lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get intake: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *StageRepo) GetTrilling(ctx context.Context, companyID, lotID string) (*entity.Trilling, error) {
	var rec entity.Trilling
	ok, err := r.getStage(ctx, &rec, `SELECT * FROM lot_trillings WHERE company_id = $1 AND lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get trilling: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *StageRepo) GetRoasting(ctx context.Context, companyID, lotID string) (*entity.Roasting, error) {
	var rec entity.Roasting
	ok, err := r.getStage(ctx, &rec, `SELECT * FROM lot_roastings WHERE company_id = $1 AND lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get roasting: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *StageRepo) GetCupping(ctx context.Context, companyID, lotID string) (*entity.Cupping, error) {
	var rec entity.Cupping
	ok, err := r.getStage(ctx, &rec, `SELECT * FROM lot_cuppings WHERE company_id = $1 AND lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get cupping: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *StageRepo) GetPackaging(ctx context.Context, companyID, lotID string) (*entity.Packaging, error) {
	var rec entity.Packaging
	ok, err := r.getStage(ctx, &rec, `SELECT * FROM lot_packagings WHERE company_id = $1 AND lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get packaging: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *StageRepo) GetDispatch(ctx context.Context, companyID, lotID string) (*entity.Dispatch, error) {
	var rec entity.Dispatch
	ok, err := r.getStage(ctx, &rec, `SELECT * FROM lot_dispatches WHERE company_id = $1 AND lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *StageRepo) GetInspection(ctx context.Context, companyID, lotID string) (*entity.Inspection, error) {
	var rec entity.Inspection
	ok, err := r.getStage(ctx, &rec, `SELECT * FROM lot_inspections WHERE company_id = $1 AND lot_id = $2`, companyID, lotID)
	if err != nil {
		return nil, fmt.Errorf("get inspection: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// PackagingObservations blobs de observaciones no nulos de los empaques de la empresa.
func (r *StageRepo) PackagingObservations(ctx context.Context, companyID string) ([]string, error) {
	var obs []string
	err := pgxscan.Select(ctx, r.q, &obs,
		`SELECT observations FROM lot_packagings WHERE company_id = $1 AND observations IS NOT NULL`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("packaging observations: %w", err)
	}
	return obs, nil
}
