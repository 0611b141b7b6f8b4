package repository

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	Status entity.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository persistencia de pedidos. Create inserta solo la cabecera;
// ítems y pago se insertan por separado dentro de la misma unidad de trabajo.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	// GetByID devuelve el pedido con ítems y pago.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
}

// PaymentRepository persistencia del detalle de pago de un pedido.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.PaymentDetail) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.PaymentDetail, error)
	Update(ctx context.Context, payment *entity.PaymentDetail) error
}
