package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/usecase"
)

// SupplierHandler CRUD de proveedores.
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// @Summary  Crear proveedor
// @Tags     suppliers
// @Security Bearer
// @Param    body  body  dto.SupplierRequest  true  "Datos del proveedor"
// @Success  201  {object}  dto.SupplierResponse
// @Router   /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Listar proveedores
// @Tags     suppliers
// @Security Bearer
// @Success  200  {object}  dto.SupplierListResponse
// @Router   /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// @Summary  Obtener proveedor
// @Tags     suppliers
// @Security Bearer
// @Success  200  {object}  dto.SupplierResponse
// @Router   /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// @Summary  Reemplazar datos del proveedor
// @Tags     suppliers
// @Security Bearer
// @Param    body  body  dto.SupplierRequest  true  "Datos del proveedor"
// @Success  200  {object}  dto.SupplierResponse
// @Router   /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// @Summary  Eliminar proveedor
// @Tags     suppliers
// @Security Bearer
// @Success  204
// @Failure  409  {object}  dto.ErrorResponse  "tiene órdenes de compra"
// @Router   /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
