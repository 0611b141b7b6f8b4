package repository

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros de listado de órdenes de compra.
type PurchaseOrderFilter struct {
	Status     entity.PurchaseOrderStatus // vacío = todos excepto deleted
	SupplierID string
	Limit      int
	Offset     int
}

// PurchaseOrderRepository persistencia de órdenes de compra y sus ítems.
type PurchaseOrderRepository interface {
	// Create inserta la cabecera y sus ítems.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus ítems.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update actualiza la cabecera (estado, fechas, total, notas).
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	// ReplaceItems reemplaza todos los ítems de la orden.
	ReplaceItems(ctx context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error
	List(ctx context.Context, f PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
}
