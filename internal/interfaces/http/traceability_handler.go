package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
)

// stageService lo implementa *traceability.StageUseCase.
type stageService interface {
	SaveIntake(ctx context.Context, companyID, userID, lotID string, in dto.IntakeRequest) (*dto.StageSaveResponse, error)
	SaveTrilla(ctx context.Context, companyID, userID, lotID string, in dto.TrillaRequest) (*dto.StageSaveResponse, error)
	SaveTueste(ctx context.Context, companyID, userID, lotID string, in dto.TuesteRequest) (*dto.StageSaveResponse, error)
	SaveCata(ctx context.Context, companyID, userID, lotID string, in dto.CataRequest) (*dto.StageSaveResponse, error)
	SaveEmpaque(ctx context.Context, companyID, userID, lotID string, in dto.EmpaqueRequest) (*dto.StageSaveResponse, error)
	SaveDespacho(ctx context.Context, companyID, userID, lotID string, in dto.DespachoRequest) (*dto.StageSaveResponse, error)
	SaveInspeccion(ctx context.Context, companyID, userID, lotID string, in dto.InspeccionRequest) (*dto.StageSaveResponse, error)
}

// sheetService lo implementa *traceability.SheetUseCase.
type sheetService interface {
	Download(ctx context.Context, companyID, lotID, stage string) ([]byte, string, error)
}

// TraceabilityHandler formularios de etapa y fichas PDF de un lote (protegido).
type TraceabilityHandler struct {
	stages stageService
	sheets sheetService
}

// NewTraceabilityHandler construye el handler.
func NewTraceabilityHandler(stages stageService, sheets sheetService) *TraceabilityHandler {
	return &TraceabilityHandler{stages: stages, sheets: sheets}
}

// saveStage parsea el formulario T y lo guarda para el lote de la ruta.
func saveStage[T any](c *fiber.Ctx, save func(ctx context.Context, companyID, userID, lotID string, in T) (*dto.StageSaveResponse, error)) error {
	lotID, err := uuidParam(c, "lotId")
	if err != nil {
		return err
	}
	var in T
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := save(c.UserContext(), GetCompanyID(c), GetUserID(c), lotID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Intake godoc
// @Summary      Guardar ingreso de materia prima
// @Description  Registra (o reemplaza) el ingreso y el movimiento INGRESO_LOTE por weight_kg.
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string             true  "Lot ID (UUID)"
// @Param        body   body  dto.IntakeRequest  true  "formulario de ingreso"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/intake [post]
func (h *TraceabilityHandler) Intake(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveIntake)
}

// Trilla godoc
// @Summary      Guardar trilla
// @Description  Registra la trilla y la merma (entrada - salida) como TRILLA_MERMA.
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string             true  "Lot ID (UUID)"
// @Param        body   body  dto.TrillaRequest  true  "formulario de trilla"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/trilla [post]
func (h *TraceabilityHandler) Trilla(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveTrilla)
}

// Tueste godoc
// @Summary      Guardar tueste
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string             true  "Lot ID (UUID)"
// @Param        body   body  dto.TuesteRequest  true  "formulario de tueste"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/tueste [post]
func (h *TraceabilityHandler) Tueste(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveTueste)
}

// Cata godoc
// @Summary      Guardar cata
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string           true  "Lot ID (UUID)"
// @Param        body   body  dto.CataRequest  true  "puntaje y decisión"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/cata [post]
func (h *TraceabilityHandler) Cata(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveCata)
}

// Empaque godoc
// @Summary      Guardar empaque
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string              true  "Lot ID (UUID)"
// @Param        body   body  dto.EmpaqueRequest  true  "kilos y bolsas por presentación"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/empaque [post]
func (h *TraceabilityHandler) Empaque(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveEmpaque)
}

// Despacho godoc
// @Summary      Guardar despacho
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string               true  "Lot ID (UUID)"
// @Param        body   body  dto.DespachoRequest  true  "cliente, ciudad, kilos despachados"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/despacho [post]
func (h *TraceabilityHandler) Despacho(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveDespacho)
}

// Inspeccion godoc
// @Summary      Guardar inspección de salida
// @Tags         traceability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lotId  path  string                 true  "Lot ID (UUID)"
// @Param        body   body  dto.InspeccionRequest  true  "verificaciones y observaciones"
// @Success      200    {object}  dto.StageSaveResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/inspeccion [post]
func (h *TraceabilityHandler) Inspeccion(c *fiber.Ctx) error {
	return saveStage(c, h.stages.SaveInspeccion)
}

// Sheet godoc
// @Summary      Descargar ficha PDF
// @Description  Ficha de una etapa o ficha completa (stage=full) del lote.
// @Tags         traceability
// @Security     Bearer
// @Produce      application/pdf
// @Param        lotId  path  string  true  "Lot ID (UUID)"
// @Param        stage  path  string  true  "intake | trilla | tueste | cata | empaque | despacho | inspeccion | full"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/traceability/{lotId}/pdf/{stage} [get]
func (h *TraceabilityHandler) Sheet(c *fiber.Ctx) error {
	lotID, err := uuidParam(c, "lotId")
	if err != nil {
		return err
	}
	pdf, filename, err := h.sheets.Download(c.UserContext(), GetCompanyID(c), lotID, c.Params("stage"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
