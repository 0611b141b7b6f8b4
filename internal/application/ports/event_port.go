package ports

import (
	"context"
	"time"
)

// Routing keys de los eventos de dominio publicados en el exchange topic.
const (
	EventOrderStatusChanged   = "order.status_changed"
	EventPurchaseOrderOrdered = "purchase_order.ordered"
	EventRegistrationApproved = "registration.approved"
)

// EventPublisher define el puerto de salida para eventos de dominio.
// Los casos de uso publican después de confirmar la unidad de trabajo; un fallo al
// publicar no revierte la operación (el adaptador lo registra).
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// OrderStatusChanged payload de order.status_changed.
type OrderStatusChanged struct {
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	TotalAmount   string    `json:"total_amount"`
	ChangedAt     time.Time `json:"changed_at"`
}

// PurchaseOrderLine línea de una orden de compra en el evento.
type PurchaseOrderLine struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// PurchaseOrderOrdered payload de purchase_order.ordered (se envía al proveedor).
type PurchaseOrderOrdered struct {
	PurchaseOrderID       string              `json:"purchase_order_id"`
	SupplierName          string              `json:"supplier_name"`
	SupplierEmail         string              `json:"supplier_email"`
	TotalAmount           string              `json:"total_amount"`
	EstimatedDeliveryDate *time.Time          `json:"estimated_delivery_date,omitempty"`
	Lines                 []PurchaseOrderLine `json:"lines"`
}

// RegistrationApproved payload de registration.approved.
type RegistrationApproved struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	TemporaryPassword string `json:"temporary_password"`
}
