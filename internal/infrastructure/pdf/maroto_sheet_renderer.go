// Package pdf genera las fichas de trazabilidad de lote en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    TÍTULO DE LA FICHA                        │
//	│  Empresa: Razón social          │  Fecha de ...: dd/mm/aaaa  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  A.1 - Datos del lote      (etiqueta │ valor)               │
//	│  A.2 - Datos de la etapa   (etiqueta │ valor)               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  B - Observaciones y firma responsable                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/traceability"
)

var _ traceability.SheetRenderer = (*MarotoSheetRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 58, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// valueWidth caracteres por línea en la columna de valores.
const valueWidth = 70

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoSheetRenderer implementa traceability.SheetRenderer usando Maroto v2.
type MarotoSheetRenderer struct{}

// NewMarotoSheetRenderer construye el renderizador.
func NewMarotoSheetRenderer() *MarotoSheetRenderer { return &MarotoSheetRenderer{} }

// RenderSheet genera el PDF de la ficha y devuelve sus bytes.
func (g *MarotoSheetRenderer) RenderSheet(ctx context.Context, sheet *traceability.Sheet) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(sheet.Title, true).
		WithAuthor(sheet.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(sheet.Title))
	m.AddRows(headerRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, s := range sheet.Sections {
		m.AddRows(sectionTitleRow(s.Title))
		m.AddRows(sectionRows(s.Rows)...)
		m.AddRows(row.New(3))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatureRows()...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ficha: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(title string) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 2,
		}),
	))
}

// headerRow: empresa (izq) y fecha de la etapa (der).
func headerRow(sheet *traceability.Sheet) core.Row {
	return row.New(9).Add(
		col.New(7).Add(text.New("Empresa: "+nonEmpty(sheet.CompanyName, "-"), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		})),
		col.New(5).Add(text.New(sheet.DateLabel+": "+nonEmpty(sheet.DateValue, "-"), props.Text{
			Size: 9, Align: align.Right, Top: 2, Color: colorGray,
		})),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

// sectionRows: una fila etiqueta/valor; los valores largos continúan en filas sin etiqueta.
func sectionRows(rows []traceability.SheetRow) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		chunks := wrap(nonEmpty(r.Value, "-"), valueWidth)
		for i, chunk := range chunks {
			label := ""
			if i == 0 {
				label = r.Label
			}
			out = append(out, row.New(6).Add(
				col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
				col.New(8).Add(text.New(chunk, props.Text{Size: 8, Top: 1})),
			))
		}
	}
	return out
}

// signatureRows: sección B con espacio de observaciones y línea de firma.
func signatureRows() []core.Row {
	return []core.Row{
		sectionTitleRow("B - Observaciones y firma responsable"),
		row.New(24),
		row.New(1).Add(
			col.New(6),
			col.New(6).Add(line.New(props.Line{Color: colorGray, Thickness: 0.3})),
		),
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New("Firma y sello responsable", props.Text{
				Size: 8, Align: align.Center, Top: 1, Color: colorGray,
			})),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// wrap parte s en líneas de máximo n runas, cortando por palabras cuando se puede.
// Los saltos de línea del texto original se respetan.
func wrap(s string, n int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var cur []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			for len(w) > n {
				if len(cur) > 0 {
					lines = append(lines, string(cur))
					cur = nil
				}
				lines = append(lines, string(w[:n]))
				w = w[n:]
			}
			switch {
			case len(cur) == 0:
				cur = w
			case len(cur)+1+len(w) <= n:
				cur = append(append(cur, ' '), w...)
			default:
				lines = append(lines, string(cur))
				cur = w
			}
		}
		if len(cur) > 0 {
			lines = append(lines, string(cur))
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
