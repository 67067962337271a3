package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

const companyID = "00000000-0000-0000-0000-000000000001"

type memProviders struct {
	repository.ProviderRepository
	items map[string]entity.Provider
}

func (m *memProviders) Create(_ context.Context, p *entity.Provider) error {
	m.items[p.ID] = *p
	return nil
}

func (m *memProviders) Update(_ context.Context, p *entity.Provider) error {
	m.items[p.ID] = *p
	return nil
}

func (m *memProviders) GetByID(_ context.Context, company, id string) (*entity.Provider, error) {
	p, ok := m.items[id]
	if !ok || p.CompanyID != company {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type memCatalog struct {
	repository.CatalogRepository
	kinds []string
}

func (m *memCatalog) GetByID(_ context.Context, kind, _, _ string) (*entity.CatalogItem, error) {
	m.kinds = append(m.kinds, kind)
	return nil, domain.ErrNotFound
}

type memLots struct {
	repository.LotRepository
	created []entity.Lot
}

func (m *memLots) Create(_ context.Context, l *entity.Lot) error {
	m.created = append(m.created, *l)
	return nil
}

func TestLotUseCase_CreateConProveedorDeLaEmpresa(t *testing.T) {
	providers := &memProviders{items: map[string]entity.Provider{}}
	lots := &memLots{}
	uc := NewLotUseCase(lots, providers, &memCatalog{})
	ctx := context.Background()

	p, err := NewProviderUseCase(providers).Create(ctx, companyID, dto.ProviderRequest{Name: "Finca La Esperanza"})
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	lot, err := uc.Create(ctx, companyID, dto.CreateLotRequest{
		Code: " L-01 ", Name: "Caturra", ProviderID: &p.ID, QuantityKg: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, "L-01", lot.Code)
	assert.Equal(t, entity.LotStatusIngresado, lot.Status)
	require.NotNil(t, lot.ProviderName)
	assert.Equal(t, "Finca La Esperanza", *lot.ProviderName)
	require.Len(t, lots.created, 1)

	_, err = uc.Create(ctx, "otra-empresa", dto.CreateLotRequest{Code: "L-02", Name: "x", ProviderID: &p.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLotUseCase_CreateValidaLineaYCantidades(t *testing.T) {
	catalog := &memCatalog{}
	uc := NewLotUseCase(&memLots{}, &memProviders{items: map[string]entity.Provider{}}, catalog)
	ctx := context.Background()

	_, err := uc.Create(ctx, companyID, dto.CreateLotRequest{Code: "L", Name: "x", QuantityKg: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	line := "00000000-0000-0000-0000-0000000000aa"
	_, err = uc.Create(ctx, companyID, dto.CreateLotRequest{Code: "L", Name: "x", LineID: &line})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{entity.CatalogCoffeeLines}, catalog.kinds)
}

func TestCatalogUseCase_TipoDesconocido(t *testing.T) {
	uc := NewCatalogUseCase(&memCatalog{})

	_, err := uc.List(context.Background(), "bodegas", companyID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, clampLimit(0))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, 50, clampLimit(500))
}

func TestProviderUseCase_UpdateConservaEstadoYEmpresa(t *testing.T) {
	providers := &memProviders{items: map[string]entity.Provider{}}
	uc := NewProviderUseCase(providers)
	ctx := context.Background()

	p, err := uc.Create(ctx, companyID, dto.ProviderRequest{Name: "Don Ramón"})
	require.NoError(t, err)

	region := "Huila"
	out, err := uc.Update(ctx, companyID, p.ID, dto.ProviderRequest{Name: "Don Ramón Pérez", Region: &region})
	require.NoError(t, err)
	assert.Equal(t, "Don Ramón Pérez", out.Name)
	assert.True(t, out.IsActive)
	require.NotNil(t, out.Region)
	assert.Equal(t, "Huila", *out.Region)

	inactive := false
	out, err = uc.Update(ctx, companyID, p.ID, dto.ProviderRequest{Name: "Don Ramón", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	_, err = uc.Update(ctx, "otra-empresa", p.ID, dto.ProviderRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type memLotsByID struct {
	repository.LotRepository
	lots map[string]entity.Lot
}

func (m *memLotsByID) GetByID(_ context.Context, company, id string) (*entity.LotDetail, error) {
	l, ok := m.lots[id]
	if !ok || l.CompanyID != company {
		return nil, domain.ErrNotFound
	}
	return &entity.LotDetail{Lot: l}, nil
}

type memQuality struct {
	repository.QualityRepository
	saved  []entity.Cupping
	limits []int
	nextID int64
}

func (m *memQuality) TopLots(_ context.Context, _ string, limit int) ([]repository.TopLotResult, error) {
	m.limits = append(m.limits, limit)
	return nil, nil
}

func (m *memQuality) SaveCupping(_ context.Context, c *entity.Cupping) error {
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
	}
	m.saved = append(m.saved, *c)
	return nil
}

func TestQualityUseCase_SaveCupping(t *testing.T) {
	const lotID = "00000000-0000-0000-0000-0000000000l1"
	lots := &memLotsByID{lots: map[string]entity.Lot{lotID: {ID: lotID, CompanyID: companyID}}}
	quality := &memQuality{}
	uc := NewQualityUseCase(quality, lots)
	ctx := context.Background()

	score := decimal.RequireFromString("86.25")
	out, created, err := uc.SaveCupping(ctx, companyID, dto.SaveCuppingRequest{LotID: lotID, TotalScore: &score, IsAccepted: true})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), out.ID)
	require.Len(t, quality.saved, 1)
	assert.Equal(t, "{}", quality.saved[0].AttributesJSON)
	assert.Equal(t, companyID, quality.saved[0].CompanyID)

	out, created, err = uc.SaveCupping(ctx, companyID, dto.SaveCuppingRequest{
		ID: 1, LotID: lotID, Attributes: []byte(`{"acidez":8}`),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, `{"acidez":8}`, quality.saved[1].AttributesJSON)

	_, _, err = uc.SaveCupping(ctx, "otra-empresa", dto.SaveCuppingRequest{LotID: lotID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, quality.saved, 2)
}

func TestQualityUseCase_TopLotsAcotaLimite(t *testing.T) {
	quality := &memQuality{}
	uc := NewQualityUseCase(quality, &memLotsByID{})

	_, err := uc.TopLots(context.Background(), companyID, 1000)
	require.NoError(t, err)
	_, err = uc.TopLots(context.Background(), companyID, -3)
	require.NoError(t, err)
	assert.Equal(t, []int{maxTopLimit, defaultTopLimit}, quality.limits)
}
