package dto

import "github.com/shopspring/decimal"

// IntakeRequest formulario de ingreso de materia prima.
type IntakeRequest struct {
	DestinationID  *string          `json:"destination_id" validate:"omitempty,uuid"`
	CoffeeLineID   *string          `json:"coffee_line_id" validate:"omitempty,uuid"`
	ServiceIDs     []string         `json:"service_ids" validate:"omitempty,dive,uuid"`
	HumidityPct    *decimal.Decimal `json:"humidity_pct"`
	PackageType    *string          `json:"package_type" validate:"omitempty,max=100"`
	PackageDetail  *string          `json:"package_detail" validate:"omitempty,max=255"`
	Observations   *string          `json:"observations" validate:"omitempty,max=2000"`
	CaficultorName *string          `json:"caficultor_name" validate:"omitempty,max=200"`
	Farm           *string          `json:"farm" validate:"omitempty,max=200"`
	Municipality   *string          `json:"municipality" validate:"omitempty,max=120"`
	ContactPhone   *string          `json:"contact_phone" validate:"omitempty,max=50"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	MaterialType   *string          `json:"material_type" validate:"omitempty,max=100"`
	WeightKg       *decimal.Decimal `json:"weight_kg"`
}

// TrillaRequest formulario de trilla. La merma se calcula como entrada - salida.
type TrillaRequest struct {
	InputKg        *decimal.Decimal `json:"input_kg"`
	OutputKg       *decimal.Decimal `json:"output_kg"`
	HumidityBefore *decimal.Decimal `json:"humidity_before"`
	HumidityAfter  *decimal.Decimal `json:"humidity_after"`
	MachineOK      bool             `json:"machine_ok"`
	Observations   *string          `json:"observations" validate:"omitempty,max=2000"`
}

// TuesteRequest formulario de tueste.
type TuesteRequest struct {
	ProfileCode   *string          `json:"profile_code" validate:"omitempty,max=50"`
	RoastLevel    *string          `json:"roast_level" validate:"omitempty,max=50"`
	Batches       *int32           `json:"batches" validate:"omitempty,min=0"`
	InputKg       *decimal.Decimal `json:"input_kg"`
	OutputKg      *decimal.Decimal `json:"output_kg"`
	ShrinkageKg   *decimal.Decimal `json:"shrinkage_kg"`
	HumidityAfter *decimal.Decimal `json:"humidity_after"`
	Density       *decimal.Decimal `json:"density"`
	Observations  *string          `json:"observations" validate:"omitempty,max=2000"`
}

// CataRequest formulario de evaluación sensorial. Se acepta el lote si la decisión contiene "libera".
type CataRequest struct {
	TotalScore *decimal.Decimal `json:"total_score"`
	Decision   string           `json:"decision" validate:"max=200"`
	Notes      *string          `json:"notes" validate:"omitempty,max=2000"`
}

// EmpaqueRequest formulario de empaque con conteo de bolsas por presentación.
type EmpaqueRequest struct {
	TotalKg      *decimal.Decimal `json:"total_kg"`
	Bags340      *decimal.Decimal `json:"bags_340"`
	Bags500      *decimal.Decimal `json:"bags_500"`
	Bags1000     *decimal.Decimal `json:"bags_1000"`
	Observations *string          `json:"observations" validate:"omitempty,max=2000"`
}

// DespachoRequest formulario de despacho al cliente.
type DespachoRequest struct {
	ClientName     *string          `json:"client_name" validate:"omitempty,max=200"`
	City           *string          `json:"city" validate:"omitempty,max=120"`
	DocumentNumber *string          `json:"document_number" validate:"omitempty,max=100"`
	DispatchedKg   *decimal.Decimal `json:"dispatched_kg"`
	Observations   *string          `json:"observations" validate:"omitempty,max=2000"`
}

// InspeccionRequest formulario de inspección de salida.
type InspeccionRequest struct {
	PackagingOK       bool    `json:"packaging_ok"`
	LabelsOK          bool    `json:"labels_ok"`
	MoistureOK        bool    `json:"moisture_ok"`
	ForeignMaterialOK bool    `json:"foreign_material_ok"`
	Observations      *string `json:"observations" validate:"omitempty,max=2000"`
}

// StageSaveResponse respuesta de un guardado de etapa. StockKg solo si la etapa movió el libro.
type StageSaveResponse struct {
	OK      bool             `json:"ok"`
	Data    interface{}      `json:"data"`
	StockKg *decimal.Decimal `json:"stock_kg,omitempty"`
}
