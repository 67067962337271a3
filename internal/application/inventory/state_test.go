package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
)

func TestLotStateResolver_EmpaqueAnteriorAlTuesteSigueEmpacado(t *testing.T) {
	s := newMemStore()
	packed := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	roasted := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	s.marks[lot1] = domaininv.StageMarks{PackedAt: &packed, RoastedAt: &roasted}

	state, err := NewLotStateResolver(memStageRepo{s: s}).ResolveState(context.Background(), companyA, lot1)
	require.NoError(t, err)
	assert.Equal(t, domaininv.StateEmpacado, state)
}

func TestLotStateResolver_SinEtapasEsPergamino(t *testing.T) {
	s := newMemStore()

	state, err := NewLotStateResolver(memStageRepo{s: s}).ResolveState(context.Background(), companyA, lot2)
	require.NoError(t, err)
	assert.Equal(t, domaininv.StatePergamino, state)
}

func TestLotStateResolver_PropagaErrorDeLectura(t *testing.T) {
	s := newMemStore()
	s.failMarks = errors.New("timeout")

	_, err := NewLotStateResolver(memStageRepo{s: s}).ResolveState(context.Background(), companyA, lot1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), lot1)
	assert.Contains(t, err.Error(), "timeout")
}
