package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido de cliente.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCard     = "card"
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// Estados del pago.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Order pedido de un cliente. Crear un pedido reserva stock.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Address       string
	Status        OrderStatus
	TotalAmount   decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
	Payment       *PaymentDetail
}

// OrderItem línea de un pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PaymentDetail detalle del pago de un pedido (1:1).
type PaymentDetail struct {
	ID      string
	OrderID string
	Method  string
	Amount  decimal.Decimal
	Status  string
	PaidAt  *time.Time
}
