package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// SignedQuantity devuelve +cantidad para IN y -cantidad para cualquier otra dirección.
func SignedQuantity(m entity.StockMovement) decimal.Decimal {
	if m.Direction == entity.DirectionIN {
		return m.QuantityKg
	}
	return m.QuantityKg.Neg()
}

// SortChronological ordena por (created_at, id) ascendente, el orden canónico del libro.
func SortChronological(movs []entity.StockMovement) {
	sort.SliceStable(movs, func(i, j int) bool {
		if !movs[i].CreatedAt.Equal(movs[j].CreatedAt) {
			return movs[i].CreatedAt.Before(movs[j].CreatedAt)
		}
		return movs[i].ID < movs[j].ID
	})
}

// Replay reproduce el libro de un lote desde cero: ordena, acumula y escribe el saldo
// resultante en cada movimiento. Devuelve el saldo final.
func Replay(movs []entity.StockMovement) decimal.Decimal {
	SortChronological(movs)
	running := decimal.Zero
	for i := range movs {
		running = running.Add(SignedQuantity(movs[i]))
		movs[i].ResultingStockKg = running
	}
	return running
}
