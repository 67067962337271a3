package inventory

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBagCounts extrae el conteo de bolsas por tipo del blob de observaciones de un empaque.
// El blob es un objeto JSON, o texto libre seguido del JSON en la última línea.
// Valores vacíos, cero o no numéricos se ignoran. ok=false si no hay JSON legible.
func ParseBagCounts(blob string) (map[string]decimal.Decimal, bool) {
	raw, ok := decodeObject(blob)
	if !ok {
		if i := strings.LastIndex(blob, "\n"); i >= 0 {
			raw, ok = decodeObject(blob[i+1:])
		}
	}
	if !ok {
		return nil, false
	}

	counts := make(map[string]decimal.Decimal, len(raw))
	for key, v := range raw {
		n, ok := toDecimal(v)
		if !ok || n.IsZero() {
			continue
		}
		counts[key] = n
	}
	return counts, true
}

// AddBagCounts acumula src sobre dst.
func AddBagCounts(dst, src map[string]decimal.Decimal) {
	for k, v := range src {
		dst[k] = dst[k].Add(v)
	}
}

func decodeObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "{}"
	}
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	return raw, true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
