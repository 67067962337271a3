package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage identifica una tabla de etapa. Cada lote tiene como máximo un registro por etapa.
type Stage string

const (
	StageIntake     Stage = "intake"
	StageTrilla     Stage = "trilla"
	StageTueste     Stage = "tueste"
	StageCata       Stage = "cata"
	StageEmpaque    Stage = "empaque"
	StageDespacho   Stage = "despacho"
	StageInspeccion Stage = "inspeccion"
)

// Stages en orden del proceso físico.
var Stages = []Stage{StageIntake, StageTrilla, StageTueste, StageCata, StageEmpaque, StageDespacho, StageInspeccion}

// ParseStage valida el nombre de etapa recibido en la ruta.
func ParseStage(s string) (Stage, bool) {
	for _, st := range Stages {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Intake ingreso de materia prima.
type Intake struct {
	ID             int64            `db:"id" json:"id"`
	CompanyID      string           `db:"company_id" json:"company_id"`
	LotID          string           `db:"lot_id" json:"lot_id"`
	DestinationID  *string          `db:"destination_id" json:"destination_id"`
	LineID         *string          `db:"line_id" json:"line_id"`
	ServicesJSON   string           `db:"services_json" json:"services_json"`
	HumidityPct    *decimal.Decimal `db:"humidity_pct" json:"humidity_pct"`
	PackageType    *string          `db:"package_type" json:"package_type"`
	PackageDetail  *string          `db:"package_detail" json:"package_detail"`
	Observations   *string          `db:"observations" json:"observations"`
	CaficultorName *string          `db:"caficultor_name" json:"caficultor_name"`
	Farm           *string          `db:"farm" json:"farm"`
	Municipality   *string          `db:"municipality" json:"municipality"`
	ContactPhone   *string          `db:"contact_phone" json:"contact_phone"`
	Email          *string          `db:"email" json:"email"`
	MaterialType   *string          `db:"material_type" json:"material_type"`
	WeightKg       *decimal.Decimal `db:"weight_kg" json:"weight_kg"`
	ReceivedBy     *string          `db:"received_by" json:"received_by"`
	ReceivedAt     time.Time        `db:"received_at" json:"received_at"`
}

// Trilling proceso de trilla (pergamino → excelso).
type Trilling struct {
	ID             int64            `db:"id" json:"id"`
	CompanyID      string           `db:"company_id" json:"company_id"`
	LotID          string           `db:"lot_id" json:"lot_id"`
	InputKg        *decimal.Decimal `db:"input_kg" json:"input_kg"`
	OutputKg       *decimal.Decimal `db:"output_kg" json:"output_kg"`
	ShrinkageKg    *decimal.Decimal `db:"shrinkage_kg" json:"shrinkage_kg"`
	HumidityBefore *decimal.Decimal `db:"humidity_before" json:"humidity_before"`
	HumidityAfter  *decimal.Decimal `db:"humidity_after" json:"humidity_after"`
	MachineOK      bool             `db:"machine_ok" json:"machine_ok"`
	Observations   *string          `db:"observations" json:"observations"`
	PerformedBy    *string          `db:"performed_by" json:"performed_by"`
	PerformedAt    time.Time        `db:"performed_at" json:"performed_at"`
}

// Roasting proceso de tueste.
type Roasting struct {
	ID            int64            `db:"id" json:"id"`
	CompanyID     string           `db:"company_id" json:"company_id"`
	LotID         string           `db:"lot_id" json:"lot_id"`
	ProfileCode   *string          `db:"profile_code" json:"profile_code"`
	RoastLevel    *string          `db:"roast_level" json:"roast_level"`
	Batches       *int32           `db:"batches" json:"batches"`
	InputKg       *decimal.Decimal `db:"input_kg" json:"input_kg"`
	OutputKg      *decimal.Decimal `db:"output_kg" json:"output_kg"`
	ShrinkageKg   *decimal.Decimal `db:"shrinkage_kg" json:"shrinkage_kg"`
	HumidityAfter *decimal.Decimal `db:"humidity_after" json:"humidity_after"`
	Density       *decimal.Decimal `db:"density" json:"density"`
	Observations  *string          `db:"observations" json:"observations"`
	PerformedBy   *string          `db:"performed_by" json:"performed_by"`
	PerformedAt   time.Time        `db:"performed_at" json:"performed_at"`
}

// Cupping evaluación sensorial (cata).
type Cupping struct {
	ID             int64            `db:"id" json:"id"`
	CompanyID      string           `db:"company_id" json:"company_id"`
	LotID          string           `db:"lot_id" json:"lot_id"`
	TotalScore     *decimal.Decimal `db:"total_score" json:"total_score"`
	IsAccepted     bool             `db:"is_accepted" json:"is_accepted"`
	AttributesJSON string           `db:"attributes_json" json:"attributes_json"`
	Notes          *string          `db:"notes" json:"notes"`
	EvaluatedBy    *string          `db:"evaluated_by" json:"evaluated_by"`
	EvaluatedAt    time.Time        `db:"evaluated_at" json:"evaluated_at"`
}

// Packaging empaque del lote. Observations guarda también el JSON de bolsas por tipo.
type Packaging struct {
	ID            int64            `db:"id" json:"id"`
	CompanyID     string           `db:"company_id" json:"company_id"`
	LotID         string           `db:"lot_id" json:"lot_id"`
	TotalKg       *decimal.Decimal `db:"total_kg" json:"total_kg"`
	PackageType   *string          `db:"package_type" json:"package_type"`
	PackagesCount *int32           `db:"packages_count" json:"packages_count"`
	Observations  *string          `db:"observations" json:"observations"`
	PackedBy      *string          `db:"packed_by" json:"packed_by"`
	PackedAt      time.Time        `db:"packed_at" json:"packed_at"`
}

// Dispatch despacho al cliente.
type Dispatch struct {
	ID              int64            `db:"id" json:"id"`
	CompanyID       string           `db:"company_id" json:"company_id"`
	LotID           string           `db:"lot_id" json:"lot_id"`
	ClientName      *string          `db:"client_name" json:"client_name"`
	DestinationCity *string          `db:"destination_city" json:"destination_city"`
	DocumentNumber  *string          `db:"document_number" json:"document_number"`
	DispatchedKg    *decimal.Decimal `db:"dispatched_kg" json:"dispatched_kg"`
	Notes           *string          `db:"notes" json:"notes"`
	DispatchedBy    *string          `db:"dispatched_by" json:"dispatched_by"`
	DispatchedAt    time.Time        `db:"dispatched_at" json:"dispatched_at"`
}

// Inspection inspección de salida del lote.
type Inspection struct {
	ID             int64     `db:"id" json:"id"`
	CompanyID      string    `db:"company_id" json:"company_id"`
	LotID          string    `db:"lot_id" json:"lot_id"`
	InspectionType string    `db:"inspection_type" json:"inspection_type"`
	Result         string    `db:"result" json:"result"`
	Findings       *string   `db:"findings" json:"findings"`
	InspectedBy    *string   `db:"inspected_by" json:"inspected_by"`
	InspectedAt    time.Time `db:"inspected_at" json:"inspected_at"`
}
