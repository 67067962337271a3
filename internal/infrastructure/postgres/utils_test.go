package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

func TestMapWriteError(t *testing.T) {
	unique := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	other := errors.New("boom")

	assert.ErrorIs(t, mapWriteError(unique), domain.ErrDuplicate)
	assert.ErrorIs(t, mapWriteError(fk), domain.ErrConflict)
	assert.Equal(t, other, mapWriteError(other))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("timeout")))
}

func TestCatalogTable(t *testing.T) {
	for _, kind := range []string{entity.CatalogDestinations, entity.CatalogCoffeeLines, entity.CatalogServices} {
		table, err := catalogTable(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, table)
	}
	_, err := catalogTable("users; DROP TABLE lots")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchema_TablasDeEtapaConLlaveUnicaPorLote(t *testing.T) {
	for _, table := range []string{
		"lot_intakes", "lot_trillings", "lot_roastings", "lot_cuppings",
		"lot_packagings", "lot_dispatches", "lot_inspections",
	} {
		idx := strings.Index(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
		require.GreaterOrEqual(t, idx, 0, table)
		end := strings.Index(schemaSQL[idx:], ");")
		require.Greater(t, end, 0, table)
		assert.Contains(t, schemaSQL[idx:idx+end], "UNIQUE (company_id, lot_id)", table)
	}
}
