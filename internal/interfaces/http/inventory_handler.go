package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// ledgerService lo implementa *inventory.StockLedgerUseCase.
type ledgerService interface {
	RecordMovement(ctx context.Context, in inventory.MovementInput) (decimal.Decimal, bool, error)
	RecalculateForLot(ctx context.Context, companyID, lotID string) (decimal.Decimal, error)
}

// reportingService lo implementa *inventory.ReportingUseCase.
type reportingService interface {
	InventorySummary(ctx context.Context, companyID string) (*dto.InventorySummaryResponse, error)
	Movements(ctx context.Context, companyID string, f repository.MovementFilter, state string) ([]dto.MovementResponse, error)
	LotStock(ctx context.Context, companyID, lotID string) (*dto.LotStockResponse, error)
}

// InventoryHandler libro de stock y reportes de inventario (protegido).
type InventoryHandler struct {
	ledger    ledgerService
	reporting reportingService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger ledgerService, reporting reportingService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reporting: reporting}
}

// Summary godoc
// @Summary      Resumen de inventario
// @Description  Kilos por estado de lote, bolsas empacadas por presentación y rotación promedio en días.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.reporting.InventorySummary(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Listar movimientos de stock
// @Description  Últimos 500 movimientos de la empresa, del más reciente al más antiguo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Desde (AAAA-MM-DD o RFC3339)"
// @Param        to          query  string  false  "Hasta, inclusive (AAAA-MM-DD o RFC3339)"
// @Param        providerId  query  string  false  "Proveedor (UUID)"
// @Param        lineId      query  string  false  "Línea de café (UUID)"
// @Param        state       query  string  false  "pergamino | trillado | tostado | empacado"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	from, err := parseDateParam("from", in.From, false)
	if err != nil {
		return err
	}
	to, err := parseDateParam("to", in.To, true)
	if err != nil {
		return err
	}
	f := repository.MovementFilter{From: from, To: to, ProviderID: in.ProviderID, LineID: in.LineID}
	out, err := h.reporting.Movements(c.UserContext(), GetCompanyID(c), f, in.State)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecordMovement godoc
// @Summary      Registrar movimiento manual
// @Description  Inserta el movimiento y recalcula el saldo del lote en una transacción.
// @Description  Tipo vacío, cantidad <= 0 o dirección distinta de IN/OUT se omiten (recorded=false).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "lot_id, movement_type, direction, quantity_kg"
// @Success      201   {object}  dto.RecordMovementResponse
// @Success      200   {object}  dto.RecordMovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	balance, recorded, err := h.ledger.RecordMovement(c.UserContext(), inventory.MovementInput{
		CompanyID:    GetCompanyID(c),
		LotID:        in.LotID,
		MovementType: in.MovementType,
		Direction:    in.Direction,
		QuantityKg:   in.QuantityKg,
		Notes:        in.Notes,
	})
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if recorded {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.RecordMovementResponse{Recorded: recorded, StockKg: balance})
}

// LotStock godoc
// @Summary      Stock actual de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        lotId  path  string  true  "Lot ID (UUID)"
// @Success      200  {object}  dto.LotStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{lotId}/stock [get]
func (h *InventoryHandler) LotStock(c *fiber.Ctx) error {
	lotID, err := uuidParam(c, "lotId")
	if err != nil {
		return err
	}
	out, err := h.reporting.LotStock(c.UserContext(), GetCompanyID(c), lotID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Recalcular saldo de un lote
// @Description  Reproduce todo el historial del lote y reescribe el saldo de cada movimiento.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        lotId  path  string  true  "Lot ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{lotId}/recalculate [post]
func (h *InventoryHandler) Recalculate(c *fiber.Ctx) error {
	lotID, err := uuidParam(c, "lotId")
	if err != nil {
		return err
	}
	balance, err := h.ledger.RecalculateForLot(c.UserContext(), GetCompanyID(c), lotID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"lot_id": lotID, "stock_kg": balance})
}
