package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// memStore estado en memoria compartido por los repos falsos.
type memStore struct {
	mu      sync.Mutex
	lots    map[string]entity.LotDetail // lotID → lote
	movs    []entity.StockMovement
	nextID  int64
	clock   time.Time
	tick    time.Duration
	marks   map[string]domaininv.StageMarks
	packObs []string
	spans   []domaininv.RotationSpan
	master  []repository.LotMasterRow

	failUpdate error
	failMarks  error
	lockCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		lots:  map[string]entity.LotDetail{},
		marks: map[string]domaininv.StageMarks{},
		clock: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		tick:  time.Second,
	}
}

func (s *memStore) addLot(companyID, lotID, code string) {
	s.lots[lotID] = entity.LotDetail{Lot: entity.Lot{ID: lotID, CompanyID: companyID, Code: code}}
}

func (s *memStore) lotMovements(lotID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movs {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out
}

// ── TxRunner ──

type memTx struct{ s *memStore }

// Run restaura los movimientos si fn falla, como un rollback.
func (t memTx) Run(ctx context.Context, fn func(repository.LotRepository, repository.StockMovementRepository, repository.StageRepository) error) error {
	t.s.mu.Lock()
	backup := append([]entity.StockMovement(nil), t.s.movs...)
	t.s.mu.Unlock()
	if err := fn(memLotRepo{t.s}, memMovRepo{t.s}, memStageRepo{s: t.s}); err != nil {
		t.s.mu.Lock()
		t.s.movs = backup
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// ── StockMovementRepository ──

type memMovRepo struct{ s *memStore }

func (r memMovRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	m.ID = r.s.nextID
	if m.CreatedAt.IsZero() {
		r.s.clock = r.s.clock.Add(r.s.tick)
		m.CreatedAt = r.s.clock
	}
	r.s.movs = append(r.s.movs, *m)
	return nil
}

func (r memMovRepo) ListByLot(_ context.Context, companyID, lotID string) ([]entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range r.s.movs {
		if m.CompanyID == companyID && m.LotID == lotID {
			out = append(out, m)
		}
	}
	domaininv.SortChronological(out)
	return out, nil
}

func (r memMovRepo) UpdateResultingStock(_ context.Context, movs []entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	for _, m := range movs {
		for i := range r.s.movs {
			if r.s.movs[i].ID == m.ID {
				r.s.movs[i].ResultingStockKg = m.ResultingStockKg
			}
		}
	}
	return nil
}

func (r memMovRepo) Latest(ctx context.Context, companyID, lotID string) (*entity.StockMovement, error) {
	movs, _ := r.ListByLot(ctx, companyID, lotID)
	if len(movs) == 0 {
		return nil, nil
	}
	last := movs[len(movs)-1]
	return &last, nil
}

func (r memMovRepo) DeleteByRelatedEntity(_ context.Context, companyID, lotID, entityType, entityID string) (*time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.movs[:0:0]
	var first *time.Time
	for _, m := range r.s.movs {
		if m.CompanyID == companyID && m.LotID == lotID &&
			m.RelatedEntityType != nil && *m.RelatedEntityType == entityType &&
			m.RelatedEntityID != nil && *m.RelatedEntityID == entityID {
			if first == nil || m.CreatedAt.Before(*first) {
				at := m.CreatedAt
				first = &at
			}
			continue
		}
		kept = append(kept, m)
	}
	r.s.movs = kept
	return first, nil
}

func (r memMovRepo) List(_ context.Context, companyID string, f repository.MovementFilter) ([]entity.StockMovementDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.StockMovementDetail
	for _, m := range r.s.movs {
		if m.CompanyID != companyID {
			continue
		}
		out = append(out, entity.StockMovementDetail{StockMovement: m, LotCode: r.s.lots[m.LotID].Code})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ── LotRepository ──

type memLotRepo struct{ s *memStore }

var _ repository.LotRepository = memLotRepo{}

func (r memLotRepo) Create(_ context.Context, lot *entity.Lot) error {
	r.s.lots[lot.ID] = entity.LotDetail{Lot: *lot}
	return nil
}

func (r memLotRepo) GetByID(_ context.Context, companyID, lotID string) (*entity.LotDetail, error) {
	l, ok := r.s.lots[lotID]
	if !ok || l.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r memLotRepo) LockForUpdate(_ context.Context, companyID, lotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lockCalls++
	l, ok := r.s.lots[lotID]
	if !ok || l.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

func (r memLotRepo) ListByCompany(_ context.Context, companyID string) ([]entity.LotDetail, error) {
	var out []entity.LotDetail
	for _, l := range r.s.lots {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r memLotRepo) ListMaster(context.Context, string, repository.LotFilter) ([]repository.LotMasterRow, error) {
	return r.s.master, nil
}

func (r memLotRepo) RotationSpans(context.Context, string) ([]domaininv.RotationSpan, error) {
	return r.s.spans, nil
}

// ── StageRepository ──

// memStageRepo solo implementa las lecturas usadas por el libro y los reportes.
type memStageRepo struct {
	repository.StageRepository
	s *memStore
}

func (r memStageRepo) Marks(_ context.Context, _ string, lotID string) (domaininv.StageMarks, error) {
	if r.s.failMarks != nil {
		return domaininv.StageMarks{}, r.s.failMarks
	}
	return r.s.marks[lotID], nil
}

func (r memStageRepo) PackagingObservations(context.Context, string) ([]string, error) {
	return r.s.packObs, nil
}

// ── helpers ──

func newTestLedger(s *memStore) *StockLedgerUseCase {
	return NewStockLedgerUseCase(memTx{s}, memMovRepo{s}, nil)
}

func newTestReporting(s *memStore) *ReportingUseCase {
	ledger := newTestLedger(s)
	resolver := NewLotStateResolver(memStageRepo{s: s})
	return NewReportingUseCase(memLotRepo{s}, memStageRepo{s: s}, memMovRepo{s}, resolver, ledger, 4)
}

func ptr[T any](v T) *T { return &v }
