package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
)

type catalogService interface {
	List(ctx context.Context, kind, companyID string) ([]dto.CatalogItemResponse, error)
	Create(ctx context.Context, kind, companyID string, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error)
	Update(ctx context.Context, kind, companyID, id string, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error)
	Delete(ctx context.Context, kind, companyID, id string) error
}

// CatalogHandler catálogos de configuración: destinaciones, líneas de café y servicios.
// Una instancia sirve a un solo tipo de catálogo.
type CatalogHandler struct {
	uc   catalogService
	kind string
}

// NewCatalogHandler construye el handler para kind (entity.Catalog*).
func NewCatalogHandler(uc catalogService, kind string) *CatalogHandler {
	return &CatalogHandler{uc: uc, kind: kind}
}

// List godoc
// @Summary      Listar ítems de catálogo
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/admin/destinations [get]
// @Router       /api/admin/coffee-lines [get]
// @Router       /api/admin/services [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.kind, GetCompanyID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ítem de catálogo
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogItemRequest  true  "nombre, código, descripción"
// @Success      201   {object}  dto.CatalogItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/destinations [post]
// @Router       /api/admin/coffee-lines [post]
// @Router       /api/admin/services [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CatalogItemRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), h.kind, GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem de catálogo
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID (UUID)"
// @Param        body  body  dto.CatalogItemRequest  true  "nombre, código, descripción"
// @Success      200   {object}  dto.CatalogItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/destinations/{id} [put]
// @Router       /api/admin/coffee-lines/{id} [put]
// @Router       /api/admin/services/{id} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.CatalogItemRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), h.kind, GetCompanyID(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem de catálogo
// @Tags         admin
// @Security     Bearer
// @Param        id  path  string  true  "ID (UUID)"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/destinations/{id} [delete]
// @Router       /api/admin/coffee-lines/{id} [delete]
// @Router       /api/admin/services/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), h.kind, GetCompanyID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
