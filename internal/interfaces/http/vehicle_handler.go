package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/usecase"
)

// VehicleHandler flota y mantenimientos.
type VehicleHandler struct {
	uc *usecase.VehicleUseCase
}

func NewVehicleHandler(uc *usecase.VehicleUseCase) *VehicleHandler {
	return &VehicleHandler{uc: uc}
}

// @Summary  Registrar vehículo
// @Tags     vehicles
// @Security Bearer
// @Param    body  body  dto.VehicleRequest  true  "Datos del vehículo"
// @Success  201  {object}  dto.VehicleResponse
// @Failure  409  {object}  dto.ErrorResponse  "placa duplicada"
// @Router   /api/vehicles [post]
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var in dto.VehicleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Listar vehículos
// @Tags     vehicles
// @Security Bearer
// @Success  200  {object}  dto.VehicleListResponse
// @Router   /api/vehicles [get]
func (h *VehicleHandler) List(c *fiber.Ctx) error {
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

// @Summary  Obtener vehículo
// @Tags     vehicles
// @Security Bearer
// @Success  200  {object}  dto.VehicleResponse
// @Router   /api/vehicles/{id} [get]
func (h *VehicleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// @Summary  Reemplazar datos del vehículo
// @Tags     vehicles
// @Security Bearer
// @Param    body  body  dto.VehicleRequest  true  "Datos del vehículo"
// @Success  200  {object}  dto.VehicleResponse
// @Router   /api/vehicles/{id} [put]
func (h *VehicleHandler) Update(c *fiber.Ctx) error {
	var in dto.VehicleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// @Summary  Eliminar vehículo
// @Tags     vehicles
// @Security Bearer
// @Success  204
// @Router   /api/vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary  Registrar mantenimiento
// @Tags     vehicles
// @Security Bearer
// @Param    body  body  dto.MaintenanceRequest  true  "Mantenimiento"
// @Success  201  {object}  dto.MaintenanceResponse
// @Router   /api/vehicles/{id}/maintenance [post]
func (h *VehicleHandler) AddMaintenance(c *fiber.Ctx) error {
	var in dto.MaintenanceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddMaintenance(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Historial de mantenimiento
// @Tags     vehicles
// @Security Bearer
// @Success  200  {array}  dto.MaintenanceResponse
// @Router   /api/vehicles/{id}/maintenance [get]
func (h *VehicleHandler) ListMaintenance(c *fiber.Ctx) error {
	out, err := h.uc.ListMaintenance(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
