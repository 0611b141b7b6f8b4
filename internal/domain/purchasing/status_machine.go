// Package purchasing contiene la lógica pura de órdenes de compra: la máquina de
// estados y el cálculo del total. No depende de persistencia.
package purchasing

import "github.com/jhoicas/portal-api/internal/domain/entity"

// transitions tabla de transiciones permitidas (aristas dirigidas).
// Los estados sin entrada son terminales.
var transitions = map[entity.PurchaseOrderStatus]map[entity.PurchaseOrderStatus]struct{}{
	entity.PurchaseOrderDraft: {
		entity.PurchaseOrderOrdered:   {},
		entity.PurchaseOrderCancelled: {},
		entity.PurchaseOrderDeleted:   {},
	},
	entity.PurchaseOrderOrdered: {
		entity.PurchaseOrderCancelled: {},
		entity.PurchaseOrderReceived:  {},
	},
}

// CanTransition indica si una orden de compra puede pasar de from a to.
// Devuelve false para cualquier par que no esté en la tabla, incluidos from == to
// y cualquier salida de Cancelled, Received o Deleted.
func CanTransition(from, to entity.PurchaseOrderStatus) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// IsValidStatus indica si s es uno de los estados conocidos.
func IsValidStatus(s entity.PurchaseOrderStatus) bool {
	switch s {
	case entity.PurchaseOrderDraft, entity.PurchaseOrderOrdered, entity.PurchaseOrderCancelled,
		entity.PurchaseOrderReceived, entity.PurchaseOrderDeleted:
		return true
	}
	return false
}

// IsTerminal indica si no existe ninguna transición de salida desde s.
func IsTerminal(s entity.PurchaseOrderStatus) bool {
	return len(transitions[s]) == 0
}

// AllStatuses todos los estados, en orden de ciclo de vida.
func AllStatuses() []entity.PurchaseOrderStatus {
	return []entity.PurchaseOrderStatus{
		entity.PurchaseOrderDraft,
		entity.PurchaseOrderOrdered,
		entity.PurchaseOrderCancelled,
		entity.PurchaseOrderReceived,
		entity.PurchaseOrderDeleted,
	}
}
