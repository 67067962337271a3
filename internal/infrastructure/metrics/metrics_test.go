package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	m := New()
	m.MovementRecorded("INGRESO_LOTE", "IN")
	m.MovementRecorded("INGRESO_LOTE", "IN")
	m.MovementSkipped()
	m.LotRecalculated(3, 2*time.Millisecond)

	m.MovementRecorded("regalo a visita", "OUT")
	m.MovementRecorded("muestra-123", "OUT")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MovementsRecorded.WithLabelValues("INGRESO_LOTE", "IN")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MovementsRecorded.WithLabelValues("OTRO", "OUT")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.MovementsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MovementsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recalculations))
}

func TestMiddlewareYHandler(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/lots/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/lots/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/lots/:id", "204")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "trazabilidad_http_requests_total")
}
