package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
)

type lotService interface {
	Create(ctx context.Context, companyID string, in dto.CreateLotRequest) (*dto.LotResponse, error)
	List(ctx context.Context, companyID string) ([]dto.LotResponse, error)
}

type lotMasterService interface {
	LotsMaster(ctx context.Context, companyID string, in dto.LotMasterFilterRequest) ([]dto.LotMasterResponse, error)
}

// LotHandler lotes de café (protegido).
type LotHandler struct {
	uc     lotService
	master lotMasterService
}

// NewLotHandler construye el handler.
func NewLotHandler(uc lotService, master lotMasterService) *LotHandler {
	return &LotHandler{uc: uc, master: master}
}

// List godoc
// @Summary      Listar lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	lots, err := h.uc.List(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return err
	}
	return c.JSON(lots)
}

// Create godoc
// @Summary      Crear lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "código, nombre, proveedor, línea, kilos"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	lot, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// Master godoc
// @Summary      Maestro de lotes
// @Description  Lotes con estado derivado, stock actual, destino y última cata.
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        search      query  string  false  "Código, nombre, proveedor o lugar de origen"
// @Param        providerId  query  string  false  "Proveedor (UUID)"
// @Param        lineId      query  string  false  "Línea de café (UUID)"
// @Param        state       query  string  false  "pergamino | trillado | tostado | empacado"
// @Success      200  {array}   dto.LotMasterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/lots/master [get]
func (h *LotHandler) Master(c *fiber.Ctx) error {
	var in dto.LotMasterFilterRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	rows, err := h.master.LotsMaster(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
