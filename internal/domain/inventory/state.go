package inventory

import "time"

// LotState etapa derivada de un lote; no se persiste.
type LotState string

const (
	StatePergamino LotState = "pergamino"
	StateTrillado  LotState = "trillado"
	StateTostado   LotState = "tostado"
	StateEmpacado  LotState = "empacado"
)

// LotStates en orden del proceso físico (también el orden de los totales del resumen).
var LotStates = []LotState{StatePergamino, StateTrillado, StateTostado, StateEmpacado}

// ParseLotState valida una etiqueta de estado recibida como filtro.
func ParseLotState(s string) (LotState, bool) {
	for _, st := range LotStates {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// StageMarks últimas marcas de tiempo de las etapas que definen el estado. nil = etapa no registrada.
type StageMarks struct {
	PackedAt  *time.Time
	RoastedAt *time.Time
	TrilledAt *time.Time
}

// ResolveState aplica la prioridad fija empaque → tueste → trilla → pergamino.
// Cuenta la presencia de cada etapa, no su fecha: un empaque anterior al tueste sigue siendo "empacado".
func ResolveState(m StageMarks) LotState {
	switch {
	case m.PackedAt != nil:
		return StateEmpacado
	case m.RoastedAt != nil:
		return StateTostado
	case m.TrilledAt != nil:
		return StateTrillado
	default:
		return StatePergamino
	}
}
