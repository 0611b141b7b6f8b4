package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de un pedido. El precio se toma del producto si no viene.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
}

// PaymentRequest detalle de pago del pedido.
type PaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=card cash transfer"`
	Paid   bool   `json:"paid"`
}

// CreateOrderRequest entrada para crear un pedido (reserva stock).
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerEmail string             `json:"customer_email" validate:"omitempty,email"`
	Address       string             `json:"address" validate:"required,max=300"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Payment       PaymentRequest     `json:"payment"`
}

// OrderItemResponse línea del pedido.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentResponse detalle de pago.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email,omitempty"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	CreatedBy     string              `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	Payment       *PaymentResponse    `json:"payment,omitempty"`
}

// OrderListRequest filtros del listado de pedidos.
type OrderListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
