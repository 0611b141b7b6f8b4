package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/sales"
)

// OrderHandler pedidos de clientes y envíos.
type OrderHandler struct {
	orders    *sales.OrderUseCase
	shipments *sales.ShipmentUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(orders *sales.OrderUseCase, shipments *sales.ShipmentUseCase) *OrderHandler {
	return &OrderHandler{orders: orders, shipments: shipments}
}

// Create godoc
// @Summary      Crear pedido (reserva stock)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Cliente, líneas y pago"
// @Success      201   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.orders.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderListRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.orders.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.ChangeStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.orders.ChangeStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateShipment godoc
// @Summary      Crear envío de un pedido confirmado
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "Pedido, transportadora y vehículo"
// @Success      201   {object}  dto.ShipmentResponse
// @Router       /api/shipments [post]
func (h *OrderHandler) CreateShipment(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.shipments.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListShipments godoc
// @Summary      Listar envíos
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        order_id  query  string  false  "Filtrar por pedido"
// @Success      200       {object}  dto.ShipmentListResponse
// @Router       /api/shipments [get]
func (h *OrderHandler) ListShipments(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return err
	}
	out, err := h.shipments.List(c.UserContext(), c.Query("order_id"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetShipment godoc
// @Summary      Obtener envío
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Router       /api/shipments/{id} [get]
func (h *OrderHandler) GetShipment(c *fiber.Ctx) error {
	out, err := h.shipments.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ChangeShipmentStatus godoc
// @Summary      Avanzar envío (in_transit marca el pedido shipped, delivered lo marca delivered)
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del envío"
// @Param        body  body  dto.ShipmentStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.ShipmentResponse
// @Router       /api/shipments/{id}/status [patch]
func (h *OrderHandler) ChangeShipmentStatus(c *fiber.Ctx) error {
	var in dto.ShipmentStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.shipments.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
