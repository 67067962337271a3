package traceability

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	domaininv "github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// SheetFull ficha completa con todas las etapas registradas.
const SheetFull = "full"

const (
	dateLayout = "02/01/2006 15:04"
	empty      = "-"
)

// SheetUseCase genera las fichas PDF de trazabilidad de un lote.
type SheetUseCase struct {
	companyRepo repository.CompanyRepository
	lotRepo     repository.LotRepository
	stageRepo   repository.StageRepository
	renderer    SheetRenderer
	now         func() time.Time
}

// NewSheetUseCase construye el caso de uso.
func NewSheetUseCase(
	companyRepo repository.CompanyRepository,
	lotRepo repository.LotRepository,
	stageRepo repository.StageRepository,
	renderer SheetRenderer,
) *SheetUseCase {
	return &SheetUseCase{
		companyRepo: companyRepo,
		lotRepo:     lotRepo,
		stageRepo:   stageRepo,
		renderer:    renderer,
		now:         time.Now,
	}
}

// Download arma la ficha de la etapa pedida (o "full") y la renderiza.
//
// Retorna:
//   - domain.ErrUnknownStage si la etapa no existe.
//   - domain.ErrNotFound     si el lote no existe o la etapa no se ha registrado.
func (uc *SheetUseCase) Download(ctx context.Context, companyID, lotID, stage string) (pdfBytes []byte, filename string, err error) {
	sheet, filename, err := uc.Build(ctx, companyID, lotID, stage)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.renderer.RenderSheet(ctx, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("ficha %s: %w", stage, err)
	}
	return pdfBytes, filename, nil
}

// Build arma la ficha sin renderizar junto con su nombre de archivo.
func (uc *SheetUseCase) Build(ctx context.Context, companyID, lotID, stage string) (*Sheet, string, error) {
	if stage != SheetFull {
		if _, ok := entity.ParseStage(stage); !ok {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrUnknownStage, stage)
		}
	}

	// ── 1. Empresa y lote ──
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("ficha: obtener empresa: %w", err)
	}
	lot, err := uc.lotRepo.GetByID(ctx, companyID, lotID)
	if err != nil {
		return nil, "", fmt.Errorf("ficha: obtener lote: %w", err)
	}
	sheet := &Sheet{CompanyName: company.Name}
	name := func(prefix string) string { return SheetFilename(prefix, orDefault(lot.Code, lot.ID)) }

	// ── 2. Etapa ──
	switch entity.Stage(stage) {
	case entity.StageIntake:
		rec, err := uc.stageRepo.GetIntake(ctx, companyID, lotID)
		if err := found(rec == nil, err, "ingreso"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE INGRESO DE MATERIA PRIMA", "Fecha de recepción", fmtTime(rec.ReceivedAt)
		sheet.Sections = []SheetSection{generalSection(lot, true), intakeSection("A.2 - Ingreso de materia prima", rec, false)}
		return sheet, name("ingreso_lote"), nil
	case entity.StageTrilla:
		rec, err := uc.stageRepo.GetTrilling(ctx, companyID, lotID)
		if err := found(rec == nil, err, "trilla"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE PROCESO DE TRILLA", "Fecha de trilla", fmtTime(rec.PerformedAt)
		sheet.Sections = []SheetSection{generalSection(lot, false), trillingSection("A.2 - Parámetros de trilla", rec, false)}
		return sheet, name("trilla_lote"), nil
	case entity.StageTueste:
		rec, err := uc.stageRepo.GetRoasting(ctx, companyID, lotID)
		if err := found(rec == nil, err, "tueste"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE PROCESO DE TUESTE", "Fecha de tueste", fmtTime(rec.PerformedAt)
		sheet.Sections = []SheetSection{generalSection(lot, false), roastingSection("A.2 - Parámetros de tueste", rec, false)}
		return sheet, name("tueste_lote"), nil
	case entity.StageCata:
		rec, err := uc.stageRepo.GetCupping(ctx, companyID, lotID)
		if err := found(rec == nil, err, "cata"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE EVALUACIÓN SENSORIAL", "Fecha de cata", fmtTime(rec.EvaluatedAt)
		sheet.Sections = []SheetSection{generalSection(lot, false), cuppingSection("A.2 - Resultados de cata", rec, false)}
		return sheet, name("cata_lote"), nil
	case entity.StageEmpaque:
		rec, err := uc.stageRepo.GetPackaging(ctx, companyID, lotID)
		if err := found(rec == nil, err, "empaque"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE LOTE Y EMPAQUE", "Fecha de empaque", fmtTime(rec.PackedAt)
		sheet.Sections = []SheetSection{shortLotSection(lot, true), packagingSection("A.2 - Datos de empaque", rec, false)}
		return sheet, name("empaque_lote"), nil
	case entity.StageDespacho:
		rec, err := uc.stageRepo.GetDispatch(ctx, companyID, lotID)
		if err := found(rec == nil, err, "despacho"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE DESPACHO AL CLIENTE", "Fecha de despacho", fmtTime(rec.DispatchedAt)
		sheet.Sections = []SheetSection{shortLotSection(lot, false), dispatchSection("A.2 - Datos de despacho", rec, false)}
		return sheet, name("despacho_lote"), nil
	case entity.StageInspeccion:
		rec, err := uc.stageRepo.GetInspection(ctx, companyID, lotID)
		if err := found(rec == nil, err, "inspección"); err != nil {
			return nil, "", err
		}
		sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA DE INSPECCIÓN Y REGISTRO DE LOTE", "Fecha de inspección", fmtTime(rec.InspectedAt)
		sheet.Sections = []SheetSection{shortLotSection(lot, false), inspectionSection("A.2 - Resultados de inspección", rec, false)}
		return sheet, name("inspeccion_lote"), nil
	}

	// ── Ficha completa: solo las etapas registradas ──
	sheet.Title, sheet.DateLabel, sheet.DateValue = "FICHA COMPLETA DE TRAZABILIDAD", "Fecha de generación", fmtTime(uc.now())
	general := generalSection(lot, true)
	general.Rows[5].Label = "Kilos iniciales"
	sheet.Sections = []SheetSection{general}
	if err := uc.appendFullSections(ctx, companyID, lotID, sheet); err != nil {
		return nil, "", err
	}
	return sheet, name("trazabilidad_lote"), nil
}

func (uc *SheetUseCase) appendFullSections(ctx context.Context, companyID, lotID string, sheet *Sheet) error {
	intake, err := uc.stageRepo.GetIntake(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: ingreso: %w", err)
	}
	if intake != nil {
		sheet.Sections = append(sheet.Sections, intakeSection("A.2 - Ingreso de materia prima", intake, true))
	}
	trilla, err := uc.stageRepo.GetTrilling(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: trilla: %w", err)
	}
	if trilla != nil {
		sheet.Sections = append(sheet.Sections, trillingSection("A.2 - Proceso de trilla", trilla, true))
	}
	roast, err := uc.stageRepo.GetRoasting(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: tueste: %w", err)
	}
	if roast != nil {
		sheet.Sections = append(sheet.Sections, roastingSection("A.2 - Proceso de tueste", roast, true))
	}
	cup, err := uc.stageRepo.GetCupping(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: cata: %w", err)
	}
	if cup != nil {
		sheet.Sections = append(sheet.Sections, cuppingSection("A.2 - Evaluación en taza", cup, true))
	}
	pack, err := uc.stageRepo.GetPackaging(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: empaque: %w", err)
	}
	if pack != nil {
		sheet.Sections = append(sheet.Sections, packagingSection("A.2 - Lote y empaque", pack, true))
	}
	disp, err := uc.stageRepo.GetDispatch(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: despacho: %w", err)
	}
	if disp != nil {
		sheet.Sections = append(sheet.Sections, dispatchSection("A.2 - Despacho al cliente", disp, true))
	}
	insp, err := uc.stageRepo.GetInspection(ctx, companyID, lotID)
	if err != nil {
		return fmt.Errorf("ficha: inspección: %w", err)
	}
	if insp != nil {
		sheet.Sections = append(sheet.Sections, inspectionSection("A.2 - Inspección final", insp, true))
	}
	return nil
}

// found traduce un registro ausente a ErrNotFound.
func found(missing bool, err error, what string) error {
	if err != nil {
		return fmt.Errorf("ficha: %s: %w", what, err)
	}
	if missing {
		return fmt.Errorf("ficha: %s no registrado: %w", what, domain.ErrNotFound)
	}
	return nil
}

// ── Secciones ──

func generalSection(lot *entity.LotDetail, withOrigin bool) SheetSection {
	rows := []SheetRow{
		{"Código de lote", orDefault(lot.Code, lot.ID)},
		{"Nombre / referencia", orDefault(lot.Name, empty)},
		{"Proveedor", fmtString(lot.ProviderName)},
	}
	if withOrigin {
		rows = append(rows,
			SheetRow{"Variedad / proceso", strings.TrimSpace(deref(lot.Variety) + " / " + deref(lot.Process))},
			SheetRow{"Línea de café", fmtString(lot.LineName)},
			SheetRow{"Kilos ingresados", lot.QuantityKg.String()},
			SheetRow{"Calidad (puntaje)", fmtDecimal(lot.QualityScore)},
		)
	} else {
		rows = append(rows, SheetRow{"Línea de café", fmtString(lot.LineName)})
	}
	return SheetSection{Title: "A.1 - Datos generales del lote", Rows: rows}
}

// shortLotSection datos mínimos del lote para empaque, despacho e inspección.
func shortLotSection(lot *entity.LotDetail, withProvider bool) SheetSection {
	rows := []SheetRow{
		{"Código de lote", orDefault(lot.Code, lot.ID)},
		{"Nombre / referencia", orDefault(lot.Name, empty)},
	}
	if withProvider {
		rows = append(rows, SheetRow{"Proveedor", fmtString(lot.ProviderName)})
	} else {
		rows = append(rows, SheetRow{"Línea de café", fmtString(lot.LineName)})
	}
	return SheetSection{Title: "A.1 - Datos del lote", Rows: rows}
}

func intakeSection(title string, rec *repository.IntakeDetail, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha recepción", fmtTime(rec.ReceivedAt)})
	}
	rows = append(rows,
		SheetRow{"Destinación", fmtString(rec.DestinationName)},
		SheetRow{"Línea de café", fmtString(rec.CoffeeLineName)},
		SheetRow{"Humedad (%)", fmtDecimal(rec.HumidityPct)},
		SheetRow{"Tipo de empaque", fmtString(rec.PackageType)},
		SheetRow{"Detalle empaque", fmtString(rec.PackageDetail)},
		SheetRow{"Servicios solicitados", servicesText(rec.ServicesJSON)},
		SheetRow{"Observaciones", fmtString(rec.Observations)},
	)
	return SheetSection{Title: title, Rows: rows}
}

func trillingSection(title string, rec *entity.Trilling, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha trilla", fmtTime(rec.PerformedAt)})
	}
	rows = append(rows,
		SheetRow{"Kilos de entrada", fmtDecimal(rec.InputKg)},
		SheetRow{"Kilos de salida", fmtDecimal(rec.OutputKg)},
		SheetRow{"Merma (kg)", fmtDecimal(rec.ShrinkageKg)},
		SheetRow{"Humedad antes (%)", fmtDecimal(rec.HumidityBefore)},
		SheetRow{"Humedad después (%)", fmtDecimal(rec.HumidityAfter)},
		SheetRow{"Máquina OK", yesNo(rec.MachineOK)},
		SheetRow{"Observaciones", fmtString(rec.Observations)},
	)
	return SheetSection{Title: title, Rows: rows}
}

func roastingSection(title string, rec *entity.Roasting, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha tueste", fmtTime(rec.PerformedAt)})
	}
	batches := empty
	if rec.Batches != nil {
		batches = strconv.Itoa(int(*rec.Batches))
	}
	rows = append(rows,
		SheetRow{"Código de perfil", fmtString(rec.ProfileCode)},
		SheetRow{"Nivel de tueste", fmtString(rec.RoastLevel)},
		SheetRow{"Número de baches", batches},
		SheetRow{"Kilos de entrada", fmtDecimal(rec.InputKg)},
		SheetRow{"Kilos de salida", fmtDecimal(rec.OutputKg)},
		SheetRow{"Merma (kg)", fmtDecimal(rec.ShrinkageKg)},
		SheetRow{"Humedad final (%)", fmtDecimal(rec.HumidityAfter)},
		SheetRow{"Densidad", fmtDecimal(rec.Density)},
		SheetRow{"Observaciones", fmtString(rec.Observations)},
	)
	return SheetSection{Title: title, Rows: rows}
}

func cuppingSection(title string, rec *entity.Cupping, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha cata", fmtTime(rec.EvaluatedAt)})
	}
	rows = append(rows,
		SheetRow{"Puntaje total", fmtDecimal(rec.TotalScore)},
		SheetRow{"Lote aceptado", yesNo(rec.IsAccepted)},
		SheetRow{"Decisión", cuppingDecision(rec.AttributesJSON)},
		SheetRow{"Notas / observaciones", fmtString(rec.Notes)},
	)
	return SheetSection{Title: title, Rows: rows}
}

func packagingSection(title string, rec *entity.Packaging, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha empaque", fmtTime(rec.PackedAt)})
	}
	bags, _ := domaininv.ParseBagCounts(deref(rec.Observations))
	bag := func(key string) string {
		if v, ok := bags[key]; ok {
			return v.String()
		}
		return empty
	}
	rows = append(rows,
		SheetRow{"Kg totales empacados", fmtDecimal(rec.TotalKg)},
		SheetRow{"Bolsas 340 g", bag("bags_340")},
		SheetRow{"Bolsas 500 g", bag("bags_500")},
		SheetRow{"Bolsas 1 kg", bag("bags_1000")},
		SheetRow{"Tipo de empaque", fmtString(rec.PackageType)},
		SheetRow{"Observaciones", fmtString(rec.Observations)},
	)
	return SheetSection{Title: title, Rows: rows}
}

func dispatchSection(title string, rec *entity.Dispatch, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha despacho", fmtTime(rec.DispatchedAt)})
	}
	rows = append(rows,
		SheetRow{"Cliente", fmtString(rec.ClientName)},
		SheetRow{"Ciudad destino", fmtString(rec.DestinationCity)},
		SheetRow{"Documento (remisión / factura)", fmtString(rec.DocumentNumber)},
		SheetRow{"Kilos despachados", fmtDecimal(rec.DispatchedKg)},
		SheetRow{"Observaciones", fmtString(rec.Notes)},
	)
	return SheetSection{Title: title, Rows: rows}
}

func inspectionSection(title string, rec *entity.Inspection, dated bool) SheetSection {
	var rows []SheetRow
	if dated {
		rows = append(rows, SheetRow{"Fecha inspección", fmtTime(rec.InspectedAt)})
	}
	checks := parseInspectionChecks(deref(rec.Findings))
	rows = append(rows,
		SheetRow{"Estado del empaque", optimal(checks.PackagingOK)},
		SheetRow{"Etiquetas correctas", optimal(checks.LabelsOK)},
		SheetRow{"Humedad adecuada", optimal(checks.MoistureOK)},
		SheetRow{"Hallazgos / observaciones", fmtString(rec.Findings)},
	)
	return SheetSection{Title: title, Rows: rows}
}

// ── Formato ──

func servicesText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return empty
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return "(no se pudo interpretar JSON)"
	}
	if len(ids) == 0 {
		return empty
	}
	return strings.Join(ids, ", ")
}

func cuppingDecision(raw string) string {
	var attrs struct {
		Decision string `json:"decision"`
	}
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil || attrs.Decision == "" {
		return empty
	}
	return attrs.Decision
}

// parseInspectionChecks lee el JSON de la última línea de los hallazgos.
func parseInspectionChecks(findings string) inspectionChecks {
	var c inspectionChecks
	if i := strings.LastIndex(findings, "\n"); i >= 0 {
		findings = findings[i+1:]
	}
	_ = json.Unmarshal([]byte(findings), &c)
	return c
}

func fmtString(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return empty
	}
	return *s
}

func fmtDecimal(d *decimal.Decimal) string {
	if d == nil {
		return empty
	}
	return d.String()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return empty
	}
	return t.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func optimal(b bool) string {
	if b {
		return "Óptimo"
	}
	return "No óptimo"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// SheetFilename nombre de archivo ASCII: sin tildes, espacios ni caracteres fuera de [A-Za-z0-9_-].
func SheetFilename(prefix, lotCode string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, prefix+"_"+lotCode)
	if err != nil {
		folded = prefix
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return b.String() + ".pdf"
}
