package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado del ciclo de vida de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderDeleted   PurchaseOrderStatus = "deleted"
)

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID                    string
	SupplierID            string
	Status                PurchaseOrderStatus
	TotalAmount           decimal.Decimal // suma de quantity * unit_price de los ítems
	EstimatedDeliveryDate *time.Time
	EffectiveDeliveryDate *time.Time
	Notes                 string
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Items                 []PurchaseOrderItem
}

// PurchaseOrderItem línea de una orden de compra (pertenece a una sola orden).
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
}
