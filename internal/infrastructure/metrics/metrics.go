// Package metrics expone contadores e histogramas Prometheus del API y del libro de stock.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

var _ inventory.LedgerMetrics = (*Metrics)(nil)

const namespace = "trazabilidad"

// otherMovementType agrupa los tipos libres que no son de etapa ni ajuste.
const otherMovementType = "OTRO"

var knownMovementTypes = map[string]bool{
	entity.MovementIngresoLote: true,
	entity.MovementTrillaMerma: true,
	entity.MovementTuesteMerma: true,
	entity.MovementDespacho:    true,
	entity.MovementAjuste:      true,
}

// Metrics agrupa los colectores de la aplicación sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	MovementsRecorded *prometheus.CounterVec
	MovementsSkipped  prometheus.Counter
	Recalculations    prometheus.Counter
	RecalcDuration    prometheus.Histogram
	RecalcMovements   prometheus.Histogram
}

// New crea y registra todos los colectores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total de peticiones HTTP",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las peticiones HTTP en segundos",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})

	m.HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Peticiones HTTP en proceso",
	})

	m.MovementsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "movements_recorded_total",
		Help:      "Movimientos de stock insertados",
	}, []string{"movement_type", "direction"})

	m.MovementsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "movements_skipped_total",
		Help:      "Movimientos descartados por entrada incompleta",
	})

	m.Recalculations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "recalculations_total",
		Help:      "Recálculos completos de saldo por lote",
	})

	m.RecalcDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "recalculation_duration_seconds",
		Help:      "Duración del recálculo de un lote en segundos",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	m.RecalcMovements = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "recalculation_movements",
		Help:      "Movimientos reproducidos por recálculo",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	reg.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.HTTPRequestsInFlight,
		m.MovementsRecorded, m.MovementsSkipped, m.Recalculations, m.RecalcDuration, m.RecalcMovements,
	)
	return m
}

// Registry registro subyacente (útil en tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ── inventory.LedgerMetrics ──

// MovementRecorded cuenta el movimiento. Los tipos fuera del vocabulario conocido van a "OTRO".
func (m *Metrics) MovementRecorded(movementType, direction string) {
	if !knownMovementTypes[movementType] {
		movementType = otherMovementType
	}
	m.MovementsRecorded.WithLabelValues(movementType, direction).Inc()
}

func (m *Metrics) MovementSkipped() { m.MovementsSkipped.Inc() }

func (m *Metrics) LotRecalculated(movements int, elapsed time.Duration) {
	m.Recalculations.Inc()
	m.RecalcMovements.Observe(float64(movements))
	m.RecalcDuration.Observe(elapsed.Seconds())
}

// ── HTTP ──

// Middleware mide cada petición. El path es la plantilla de la ruta, no la URL concreta.
// Los errores de los handlers ya salen respondidos de aquí.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// El error se traduce aquí con el ErrorHandler de la app para etiquetar el status real.
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := c.Route().Path
		status := c.Response().StatusCode()
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return nil
	}
}

// Handler expone el registro en formato Prometheus para GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
