package traceability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
)

type captureRenderer struct{ last *Sheet }

func (r *captureRenderer) RenderSheet(_ context.Context, s *Sheet) ([]byte, error) {
	r.last = s
	return []byte("%PDF-1.3 fake"), nil
}

func newSheetFixture() (*fakeDB, *StageUseCase, *SheetUseCase, *captureRenderer) {
	db, stages, _ := newStageFixture()
	r := &captureRenderer{}
	uc := NewSheetUseCase(fakeCompanies{db}, fakeLots{db: db}, fakeStages{db}, r)
	uc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return db, stages, uc, r
}

func rowValue(t *testing.T, s SheetSection, label string) string {
	t.Helper()
	for _, r := range s.Rows {
		if r.Label == label {
			return r.Value
		}
	}
	t.Fatalf("fila %q no encontrada en %q", label, s.Title)
	return ""
}

func TestDownload_FichaDeTrilla(t *testing.T) {
	_, stages, uc, r := newSheetFixture()
	ctx := context.Background()
	_, err := stages.SaveTrilla(ctx, testCompany, testUser, testLot, dto.TrillaRequest{InputKg: kg("100"), OutputKg: kg("81.5"), MachineOK: true})
	require.NoError(t, err)

	pdf, name, err := uc.Download(ctx, testCompany, testLot, "trilla")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "trilla_lote_L-2025-01.pdf", name)

	require.NotNil(t, r.last)
	assert.Equal(t, "FICHA DE PROCESO DE TRILLA", r.last.Title)
	assert.Equal(t, "Cooperativa del Sur", r.last.CompanyName)
	require.Len(t, r.last.Sections, 2)
	assert.Equal(t, "A.1 - Datos generales del lote", r.last.Sections[0].Title)
	assert.Equal(t, "L-2025-01", rowValue(t, r.last.Sections[0], "Código de lote"))
	assert.Equal(t, "18.5", rowValue(t, r.last.Sections[1], "Merma (kg)"))
	assert.Equal(t, "Sí", rowValue(t, r.last.Sections[1], "Máquina OK"))
	assert.Equal(t, "-", rowValue(t, r.last.Sections[1], "Observaciones"))
}

func TestDownload_EtapaNoRegistradaEsNotFound(t *testing.T) {
	_, _, uc, _ := newSheetFixture()

	_, _, err := uc.Download(context.Background(), testCompany, testLot, "tueste")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownload_EtapaDesconocida(t *testing.T) {
	_, _, uc, _ := newSheetFixture()

	_, _, err := uc.Download(context.Background(), testCompany, testLot, "secado")
	assert.ErrorIs(t, err, domain.ErrUnknownStage)
}

func TestDownload_LoteInexistente(t *testing.T) {
	_, _, uc, _ := newSheetFixture()

	_, _, err := uc.Download(context.Background(), testCompany, "no-existe", "full")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuild_FichaCompletaSoloConEtapasRegistradas(t *testing.T) {
	_, stages, uc, _ := newSheetFixture()
	ctx := context.Background()
	_, err := stages.SaveIntake(ctx, testCompany, testUser, testLot, dto.IntakeRequest{ServiceIDs: []string{"trilla", "tueste"}})
	require.NoError(t, err)
	_, err = stages.SaveEmpaque(ctx, testCompany, testUser, testLot, dto.EmpaqueRequest{Bags500: kg("20")})
	require.NoError(t, err)

	sheet, name, err := uc.Build(ctx, testCompany, testLot, SheetFull)
	require.NoError(t, err)
	assert.Equal(t, "trazabilidad_lote_L-2025-01.pdf", name)
	assert.Equal(t, "FICHA COMPLETA DE TRAZABILIDAD", sheet.Title)
	assert.Equal(t, "01/05/2025 12:00", sheet.DateValue)

	titles := make([]string, len(sheet.Sections))
	for i, s := range sheet.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{
		"A.1 - Datos generales del lote",
		"A.2 - Ingreso de materia prima",
		"A.2 - Lote y empaque",
	}, titles)
	assert.Equal(t, "120", rowValue(t, sheet.Sections[0], "Kilos iniciales"))
	assert.Equal(t, "trilla, tueste", rowValue(t, sheet.Sections[1], "Servicios solicitados"))
	assert.Equal(t, "20", rowValue(t, sheet.Sections[2], "Bolsas 500 g"))
	assert.Equal(t, "-", rowValue(t, sheet.Sections[2], "Bolsas 340 g"))
}

func TestSheetFilename_PlegadoASCII(t *testing.T) {
	assert.Equal(t, "inspeccion_lote_Cafe_Narino-01.pdf", SheetFilename("inspección_lote", "Café Nariño-01"))
	assert.Equal(t, "cata_lote_L1.pdf", SheetFilename("cata_lote", "L/1"))
}
