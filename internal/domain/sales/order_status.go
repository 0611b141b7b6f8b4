// Package sales reglas puras de pedidos de cliente.
package sales

import (
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:   {entity.OrderConfirmed, entity.OrderCancelled},
	entity.OrderConfirmed: {entity.OrderShipped, entity.OrderCancelled},
	entity.OrderShipped:   {entity.OrderDelivered},
}

// CanTransition indica si un pedido puede pasar de from a to.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TotalAmount suma quantity * unit_price de las líneas del pedido.
func TotalAmount(items []entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
