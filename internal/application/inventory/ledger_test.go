package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
	lot1     = "11111111-1111-1111-1111-111111111111"
	lot2     = "22222222-2222-2222-2222-222222222222"
	lot3     = "33333333-3333-3333-3333-333333333333"
)

func kg(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func input(lotID, typ, dir, qty string) MovementInput {
	return MovementInput{CompanyID: companyA, LotID: lotID, MovementType: typ, Direction: dir, QuantityKg: kg(qty)}
}

func TestRecordMovement_IngresoYMerma(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")
	uc := newTestLedger(s)
	ctx := context.Background()

	bal, ok, err := uc.RecordMovement(ctx, input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "100"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, bal.Equal(kg("100")))

	bal, ok, err = uc.RecordMovement(ctx, input(lot1, entity.MovementTrillaMerma, entity.DirectionOUT, "20"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, bal.Equal(kg("80")))

	movs := s.lotMovements(lot1)
	require.Len(t, movs, 2)
	assert.True(t, movs[0].ResultingStockKg.Equal(kg("100")))
	assert.True(t, movs[1].ResultingStockKg.Equal(kg("80")))

	cur, err := uc.GetCurrentStock(ctx, companyA, lot1)
	require.NoError(t, err)
	assert.True(t, cur.Equal(kg("80")))
	assert.Equal(t, 2, s.lockCalls, "cada registro bloquea la fila del lote")
}

func TestRecordMovement_EntradaNoRegistrableSeOmite(t *testing.T) {
	cases := []struct {
		name string
		in   MovementInput
	}{
		{"sin lote", input("", entity.MovementIngresoLote, entity.DirectionIN, "10")},
		{"sin tipo", input(lot1, "  ", entity.DirectionIN, "10")},
		{"cantidad cero", input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "0")},
		{"cantidad negativa", input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "-5")},
		{"dirección inválida", input(lot1, entity.MovementIngresoLote, "ADJ", "10")},
		{"dirección en minúscula", input(lot1, entity.MovementIngresoLote, "in", "10")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newMemStore()
			s.addLot(companyA, lot1, "L-001")
			uc := newTestLedger(s)

			bal, ok, err := uc.RecordMovement(context.Background(), tc.in)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.True(t, bal.IsZero())
			assert.Empty(t, s.lotMovements(lot1))
			assert.Zero(t, s.lockCalls, "no se abre transacción")
		})
	}
}

func TestRecordMovement_LoteDeOtraEmpresa(t *testing.T) {
	s := newMemStore()
	s.addLot(companyB, lot1, "L-001")
	uc := newTestLedger(s)

	_, ok, err := uc.RecordMovement(context.Background(), input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "10"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, ok)
	assert.Empty(t, s.lotMovements(lot1))
}

func TestRecordMovement_FalloAlActualizarSaldosRevierteInsercion(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")
	s.failUpdate = errors.New("conexión perdida")
	uc := newTestLedger(s)

	_, ok, err := uc.RecordMovement(context.Background(), input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "10"))
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "conexión perdida")
	assert.Empty(t, s.lotMovements(lot1), "la transacción debe revertir el movimiento")
}

func TestRecalculateForLot_ReparaSaldosYEsIdempotente(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")
	uc := newTestLedger(s)
	ctx := context.Background()

	_, _, err := uc.RecordMovement(ctx, input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "250"))
	require.NoError(t, err)
	_, _, err = uc.RecordMovement(ctx, input(lot1, entity.MovementTrillaMerma, entity.DirectionOUT, "40.125"))
	require.NoError(t, err)
	_, _, err = uc.RecordMovement(ctx, input(lot1, entity.MovementDespacho, entity.DirectionOUT, "9.875"))
	require.NoError(t, err)

	// Saldos corrompidos a mano.
	for i := range s.movs {
		s.movs[i].ResultingStockKg = kg("999")
	}

	first, err := uc.RecalculateForLot(ctx, companyA, lot1)
	require.NoError(t, err)
	assert.True(t, first.Equal(kg("200")))
	snapshot := s.lotMovements(lot1)

	second, err := uc.RecalculateForLot(ctx, companyA, lot1)
	require.NoError(t, err)
	assert.True(t, second.Equal(first))
	again := s.lotMovements(lot1)
	require.Len(t, again, len(snapshot))
	for i := range again {
		assert.True(t, again[i].ResultingStockKg.Equal(snapshot[i].ResultingStockKg))
	}

	want := []string{"250", "209.875", "200"}
	for i, m := range snapshot {
		assert.True(t, m.ResultingStockKg.Equal(kg(want[i])), "fila %d: %s", i, m.ResultingStockKg)
	}
}

func TestRecalculateForLot_MismaMarcaDeTiempoOrdenaPorID(t *testing.T) {
	s := newMemStore()
	s.tick = 0
	s.addLot(companyA, lot1, "L-001")
	uc := newTestLedger(s)
	ctx := context.Background()

	_, _, err := uc.RecordMovement(ctx, input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "10"))
	require.NoError(t, err)
	_, _, err = uc.RecordMovement(ctx, input(lot1, entity.MovementDespacho, entity.DirectionOUT, "4"))
	require.NoError(t, err)

	bal, err := uc.RecalculateForLot(ctx, companyA, lot1)
	require.NoError(t, err)
	assert.True(t, bal.Equal(kg("6")))

	cur, err := uc.GetCurrentStock(ctx, companyA, lot1)
	require.NoError(t, err)
	assert.True(t, cur.Equal(kg("6")), "el último por (created_at, id) es el de mayor id")
}

func TestRecalculateForLot_SinMovimientos(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")

	bal, err := newTestLedger(s).RecalculateForLot(context.Background(), companyA, lot1)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestGetCurrentStock_LoteSinMovimientosEsCero(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")

	cur, err := newTestLedger(s).GetCurrentStock(context.Background(), companyA, lot1)
	require.NoError(t, err)
	assert.True(t, cur.IsZero())
}

func TestRecordStageMovement_ReemplazaMovimientoDeLaMismaEtapa(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")
	uc := newTestLedger(s)
	ctx := context.Background()

	save := func(qty string) (decimal.Decimal, bool) {
		var bal decimal.Decimal
		var ok bool
		in := input(lot1, entity.MovementIngresoLote, entity.DirectionIN, qty)
		in.RelatedEntityType = ptr("lot_intakes")
		in.RelatedEntityID = ptr("7")
		err := memTx{s}.Run(ctx, func(lots repository.LotRepository, movs repository.StockMovementRepository, _ repository.StageRepository) error {
			var err error
			bal, ok, err = uc.RecordStageMovement(ctx, lots, movs, in)
			return err
		})
		require.NoError(t, err)
		return bal, ok
	}

	bal, ok := save("100")
	assert.True(t, ok)
	assert.True(t, bal.Equal(kg("100")))
	firstAt := s.lotMovements(lot1)[0].CreatedAt

	bal, ok = save("120")
	assert.True(t, ok)
	assert.True(t, bal.Equal(kg("120")))
	require.Len(t, s.lotMovements(lot1), 1, "volver a guardar no duplica")
	assert.Equal(t, firstAt, s.lotMovements(lot1)[0].CreatedAt, "el reemplazo conserva su lugar en el libro")

	bal, ok = save("0")
	assert.False(t, ok)
	assert.True(t, bal.IsZero())
	assert.Empty(t, s.lotMovements(lot1))
}

func TestRecordStageMovement_SinEntidadRelacionada(t *testing.T) {
	s := newMemStore()
	s.addLot(companyA, lot1, "L-001")
	uc := newTestLedger(s)

	_, _, err := uc.RecordStageMovement(context.Background(), memLotRepo{s}, memMovRepo{s},
		input(lot1, entity.MovementIngresoLote, entity.DirectionIN, "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
