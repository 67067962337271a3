package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// RotationSpan primera entrada y último despacho de un lote.
type RotationSpan struct {
	FirstIntake  *time.Time
	LastDispatch *time.Time
}

// CalendarDays diferencia en días calendario (to - from), ignorando la hora.
func CalendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// AverageRotationDays promedio de días entre ingreso y despacho, solo sobre lotes con ambas fechas.
// Sin lotes completos devuelve 0.
func AverageRotationDays(spans []RotationSpan) decimal.Decimal {
	total, n := 0, 0
	for _, s := range spans {
		if s.FirstIntake == nil || s.LastDispatch == nil {
			continue
		}
		total += CalendarDays(*s.FirstIntake, *s.LastDispatch)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).DivRound(decimal.NewFromInt(int64(n)), 2)
}
