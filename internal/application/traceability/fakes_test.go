package traceability

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// fakeDB base en memoria de un solo hilo para los casos de uso de etapa y fichas.
type fakeDB struct {
	clock     time.Time
	companies map[string]entity.Company
	lots      map[string]entity.LotDetail
	movs      []entity.StockMovement
	nextMovID int64
	nextRecID int64

	intakes     map[string]*repository.IntakeDetail
	trillings   map[string]*entity.Trilling
	roastings   map[string]*entity.Roasting
	cuppings    map[string]*entity.Cupping
	packagings  map[string]*entity.Packaging
	dispatches  map[string]*entity.Dispatch
	inspections map[string]*entity.Inspection
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		clock:       time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC),
		companies:   map[string]entity.Company{},
		lots:        map[string]entity.LotDetail{},
		intakes:     map[string]*repository.IntakeDetail{},
		trillings:   map[string]*entity.Trilling{},
		roastings:   map[string]*entity.Roasting{},
		cuppings:    map[string]*entity.Cupping{},
		packagings:  map[string]*entity.Packaging{},
		dispatches:  map[string]*entity.Dispatch{},
		inspections: map[string]*entity.Inspection{},
	}
}

func (db *fakeDB) now() time.Time {
	db.clock = db.clock.Add(time.Minute)
	return db.clock
}

func (db *fakeDB) recID(existing int64) int64 {
	if existing != 0 {
		return existing
	}
	db.nextRecID++
	return db.nextRecID
}

type fakeTx struct{ db *fakeDB }

func (t fakeTx) Run(ctx context.Context, fn func(repository.LotRepository, repository.StockMovementRepository, repository.StageRepository) error) error {
	backup := append([]entity.StockMovement(nil), t.db.movs...)
	if err := fn(fakeLots{db: t.db}, fakeMovs{t.db}, fakeStages{t.db}); err != nil {
		t.db.movs = backup
		return err
	}
	return nil
}

// ── Empresas ──

type fakeCompanies struct{ db *fakeDB }

func (r fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.db.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// ── Lotes ──

type fakeLots struct {
	repository.LotRepository
	db *fakeDB
}

func (r fakeLots) GetByID(_ context.Context, companyID, lotID string) (*entity.LotDetail, error) {
	l, ok := r.db.lots[lotID]
	if !ok || l.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r fakeLots) LockForUpdate(ctx context.Context, companyID, lotID string) error {
	_, err := r.GetByID(ctx, companyID, lotID)
	return err
}

// ── Movimientos ──

type fakeMovs struct{ db *fakeDB }

func (r fakeMovs) Create(_ context.Context, m *entity.StockMovement) error {
	r.db.nextMovID++
	m.ID = r.db.nextMovID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.db.now()
	}
	r.db.movs = append(r.db.movs, *m)
	return nil
}

func (r fakeMovs) ListByLot(_ context.Context, companyID, lotID string) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.db.movs {
		if m.CompanyID == companyID && m.LotID == lotID {
			out = append(out, m)
		}
	}
	domaininv.SortChronological(out)
	return out, nil
}

func (r fakeMovs) UpdateResultingStock(_ context.Context, movs []entity.StockMovement) error {
	for _, m := range movs {
		for i := range r.db.movs {
			if r.db.movs[i].ID == m.ID {
				r.db.movs[i].ResultingStockKg = m.ResultingStockKg
			}
		}
	}
	return nil
}

func (r fakeMovs) Latest(ctx context.Context, companyID, lotID string) (*entity.StockMovement, error) {
	movs, _ := r.ListByLot(ctx, companyID, lotID)
	if len(movs) == 0 {
		return nil, nil
	}
	return &movs[len(movs)-1], nil
}

func (r fakeMovs) DeleteByRelatedEntity(_ context.Context, companyID, lotID, entityType, entityID string) (*time.Time, error) {
	var kept []entity.StockMovement
	var first *time.Time
	for _, m := range r.db.movs {
		if m.CompanyID == companyID && m.LotID == lotID && m.RelatedEntityType != nil && *m.RelatedEntityType == entityType &&
			m.RelatedEntityID != nil && *m.RelatedEntityID == entityID {
			if first == nil || m.CreatedAt.Before(*first) {
				at := m.CreatedAt
				first = &at
			}
			continue
		}
		kept = append(kept, m)
	}
	r.db.movs = kept
	return first, nil
}

func (r fakeMovs) List(_ context.Context, companyID string, _ repository.MovementFilter) ([]entity.StockMovementDetail, error) {
	var out []entity.StockMovementDetail
	for _, m := range r.db.movs {
		if m.CompanyID == companyID {
			out = append(out, entity.StockMovementDetail{StockMovement: m})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ── Etapas ──

type fakeStages struct{ db *fakeDB }

var _ repository.StageRepository = fakeStages{}

func (r fakeStages) Marks(_ context.Context, _ string, lotID string) (domaininv.StageMarks, error) {
	var m domaininv.StageMarks
	if p, ok := r.db.packagings[lotID]; ok {
		m.PackedAt = &p.PackedAt
	}
	if p, ok := r.db.roastings[lotID]; ok {
		m.RoastedAt = &p.PerformedAt
	}
	if p, ok := r.db.trillings[lotID]; ok {
		m.TrilledAt = &p.PerformedAt
	}
	return m, nil
}

func (r fakeStages) UpsertIntake(_ context.Context, rec *entity.Intake) error {
	var prev int64
	if p, ok := r.db.intakes[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.ReceivedAt = r.db.recID(prev), r.db.now()
	r.db.intakes[rec.LotID] = &repository.IntakeDetail{Intake: *rec}
	return nil
}

func (r fakeStages) UpsertTrilling(_ context.Context, rec *entity.Trilling) error {
	var prev int64
	if p, ok := r.db.trillings[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.PerformedAt = r.db.recID(prev), r.db.now()
	cp := *rec
	r.db.trillings[rec.LotID] = &cp
	return nil
}

func (r fakeStages) UpsertRoasting(_ context.Context, rec *entity.Roasting) error {
	var prev int64
	if p, ok := r.db.roastings[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.PerformedAt = r.db.recID(prev), r.db.now()
	cp := *rec
	r.db.roastings[rec.LotID] = &cp
	return nil
}

func (r fakeStages) UpsertCupping(_ context.Context, rec *entity.Cupping) error {
	var prev int64
	if p, ok := r.db.cuppings[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.EvaluatedAt = r.db.recID(prev), r.db.now()
	cp := *rec
	r.db.cuppings[rec.LotID] = &cp
	return nil
}

func (r fakeStages) UpsertPackaging(_ context.Context, rec *entity.Packaging) error {
	var prev int64
	if p, ok := r.db.packagings[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.PackedAt = r.db.recID(prev), r.db.now()
	cp := *rec
	r.db.packagings[rec.LotID] = &cp
	return nil
}

func (r fakeStages) UpsertDispatch(_ context.Context, rec *entity.Dispatch) error {
	var prev int64
	if p, ok := r.db.dispatches[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.DispatchedAt = r.db.recID(prev), r.db.now()
	cp := *rec
	r.db.dispatches[rec.LotID] = &cp
	return nil
}

func (r fakeStages) UpsertInspection(_ context.Context, rec *entity.Inspection) error {
	var prev int64
	if p, ok := r.db.inspections[rec.LotID]; ok {
		prev = p.ID
	}
	rec.ID, rec.InspectedAt = r.db.recID(prev), r.db.now()
	cp := *rec
	r.db.inspections[rec.LotID] = &cp
	return nil
}

func (r fakeStages) GetIntake(_ context.Context, _, lotID string) (*repository.IntakeDetail, error) {
	return r.db.intakes[lotID], nil
}

func (r fakeStages) GetTrilling(_ context.Context, _, lotID string) (*entity.Trilling, error) {
	return r.db.trillings[lotID], nil
}

func (r fakeStages) GetRoasting(_ context.Context, _, lotID string) (*entity.Roasting, error) {
	return r.db.roastings[lotID], nil
}

func (r fakeStages) GetCupping(_ context.Context, _, lotID string) (*entity.Cupping, error) {
	return r.db.cuppings[lotID], nil
}

func (r fakeStages) GetPackaging(_ context.Context, _, lotID string) (*entity.Packaging, error) {
	return r.db.packagings[lotID], nil
}

func (r fakeStages) GetDispatch(_ context.Context, _, lotID string) (*entity.Dispatch, error) {
	return r.db.dispatches[lotID], nil
}

func (r fakeStages) GetInspection(_ context.Context, _, lotID string) (*entity.Inspection, error) {
	return r.db.inspections[lotID], nil
}

func (r fakeStages) PackagingObservations(context.Context, string) ([]string, error) {
	var out []string
	for _, p := range r.db.packagings {
		if p.Observations != nil {
			out = append(out, *p.Observations)
		}
	}
	return out, nil
}
