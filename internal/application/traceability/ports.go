package traceability

import "context"

// SheetRow par etiqueta/valor de una tabla de la ficha.
type SheetRow struct {
	Label string
	Value string
}

// SheetSection bloque titulado de filas (A.1, A.2, ...).
type SheetSection struct {
	Title string
	Rows  []SheetRow
}

// Sheet ficha de trazabilidad lista para renderizar. La sección de firma (B) la agrega el renderizador.
type Sheet struct {
	Title       string
	CompanyName string
	DateLabel   string
	DateValue   string
	Sections    []SheetSection
}

// SheetRenderer convierte una ficha en bytes PDF.
type SheetRenderer interface {
	RenderSheet(ctx context.Context, sheet *Sheet) ([]byte, error)
}
