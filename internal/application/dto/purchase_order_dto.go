package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra (queda en draft).
type CreatePurchaseOrderRequest struct {
	SupplierID            string                     `json:"supplier_id" validate:"required,uuid"`
	EstimatedDeliveryDate *time.Time                 `json:"estimated_delivery_date"`
	Notes                 string                     `json:"notes" validate:"max=1000"`
	Items                 []PurchaseOrderItemRequest `json:"items" validate:"dive"`
}

// UpdatePurchaseOrderRequest edición de una orden en draft: reemplaza los ítems si vienen.
type UpdatePurchaseOrderRequest struct {
	EstimatedDeliveryDate *time.Time                 `json:"estimated_delivery_date"`
	Notes                 *string                    `json:"notes" validate:"omitempty,max=1000"`
	Items                 []PurchaseOrderItemRequest `json:"items" validate:"omitempty,dive"`
}

// ChangeStatusRequest cambio de estado solicitado.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID                    string                      `json:"id"`
	SupplierID            string                      `json:"supplier_id"`
	Status                string                      `json:"status"`
	TotalAmount           decimal.Decimal             `json:"total_amount"`
	EstimatedDeliveryDate *time.Time                  `json:"estimated_delivery_date,omitempty"`
	EffectiveDeliveryDate *time.Time                  `json:"effective_delivery_date,omitempty"`
	Notes                 string                      `json:"notes,omitempty"`
	CreatedBy             string                      `json:"created_by,omitempty"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
	Items                 []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// PurchaseOrderListRequest filtros del listado.
type PurchaseOrderListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft ordered cancelled received deleted"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
