package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
)

// qualityService lo implementa *usecase.QualityUseCase.
type qualityService interface {
	TopLots(ctx context.Context, companyID string, limit int) ([]repository.TopLotResult, error)
	TopProviders(ctx context.Context, companyID string, limit int) ([]repository.TopProviderResult, error)
	ProviderHistory(ctx context.Context, companyID, providerID string) ([]repository.ProviderHistoryPoint, error)
	Cupping(ctx context.Context, companyID string, id int64) (*repository.CuppingDetail, error)
	SaveCupping(ctx context.Context, companyID string, in dto.SaveCuppingRequest) (*dto.SaveCuppingResponse, bool, error)
}

// QualityHandler tablero de calidad y catas (protegido).
type QualityHandler struct {
	uc qualityService
}

// NewQualityHandler construye el handler.
func NewQualityHandler(uc qualityService) *QualityHandler {
	return &QualityHandler{uc: uc}
}

// TopLots godoc
// @Summary      Catas recientes
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas (por defecto 5, máximo 50)"
// @Success      200  {array}  repository.TopLotResult
// @Router       /api/quality/top-lots [get]
func (h *QualityHandler) TopLots(c *fiber.Ctx) error {
	out, err := h.uc.TopLots(c.UserContext(), GetCompanyID(c), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// TopProviders godoc
// @Summary      Proveedores por puntaje promedio
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas (por defecto 5, máximo 50)"
// @Success      200  {array}  repository.TopProviderResult
// @Router       /api/quality/top-providers [get]
func (h *QualityHandler) TopProviders(c *fiber.Ctx) error {
	out, err := h.uc.TopProviders(c.UserContext(), GetCompanyID(c), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ProviderHistory godoc
// @Summary      Histórico de catas de un proveedor
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        providerId  path  string  true  "Provider ID (UUID)"
// @Success      200  {array}  repository.ProviderHistoryPoint
// @Router       /api/quality/provider-history/{providerId} [get]
func (h *QualityHandler) ProviderHistory(c *fiber.Ctx) error {
	providerID, err := uuidParam(c, "providerId")
	if err != nil {
		return err
	}
	out, err := h.uc.ProviderHistory(c.UserContext(), GetCompanyID(c), providerID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cupping godoc
// @Summary      Detalle de una cata
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        cuppingId  path  int  true  "Cupping ID"
// @Success      200  {object}  repository.CuppingDetail
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quality/cupping/{cuppingId} [get]
func (h *QualityHandler) Cupping(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("cuppingId"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest("INVALID_ID", "cuppingId debe ser un entero positivo")
	}
	out, err := h.uc.Cupping(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SaveCupping godoc
// @Summary      Guardar cata
// @Description  Sin id crea la cata del lote (o reemplaza la existente); con id la actualiza.
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveCuppingRequest  true  "lote, puntaje, aceptación, atributos"
// @Success      201   {object}  dto.SaveCuppingResponse
// @Success      200   {object}  dto.SaveCuppingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quality/cupping [post]
// @Router       /api/quality/cupping [put]
func (h *QualityHandler) SaveCupping(c *fiber.Ctx) error {
	var in dto.SaveCuppingRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, created, err := h.uc.SaveCupping(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	return c.JSON(out)
}
