package memstore

import (
	"sort"
	"time"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// state todas las tablas en memoria. Se guardan valores (no punteros) para que
// clone pueda producir una copia independiente para cada unidad de trabajo.
type state struct {
	users          map[string]entity.User
	registrations  map[string]entity.RegistrationRequest
	suppliers      map[string]entity.Supplier
	products       map[string]entity.Product
	stocks         map[string]entity.Stock
	stockChanges   []entity.StockChange
	purchaseOrders map[string]entity.PurchaseOrder
	orders         map[string]entity.Order
	payments       map[string]entity.PaymentDetail // por order_id
	shipments      map[string]entity.Shipment
	vehicles       map[string]entity.Vehicle
	maintenances   []entity.Maintenance
}

func newState() *state {
	return &state{
		users:          map[string]entity.User{},
		registrations:  map[string]entity.RegistrationRequest{},
		suppliers:      map[string]entity.Supplier{},
		products:       map[string]entity.Product{},
		stocks:         map[string]entity.Stock{},
		purchaseOrders: map[string]entity.PurchaseOrder{},
		orders:         map[string]entity.Order{},
		payments:       map[string]entity.PaymentDetail{},
		shipments:      map[string]entity.Shipment{},
		vehicles:       map[string]entity.Vehicle{},
	}
}

func (s *state) clone() *state {
	c := &state{
		users:          cloneMap(s.users, nil),
		registrations:  cloneMap(s.registrations, nil),
		suppliers:      cloneMap(s.suppliers, nil),
		products:       cloneMap(s.products, nil),
		stocks:         cloneMap(s.stocks, nil),
		stockChanges:   append([]entity.StockChange(nil), s.stockChanges...),
		purchaseOrders: cloneMap(s.purchaseOrders, clonePurchaseOrder),
		orders:         cloneMap(s.orders, cloneOrder),
		payments:       cloneMap(s.payments, clonePayment),
		shipments:      cloneMap(s.shipments, cloneShipment),
		vehicles:       cloneMap(s.vehicles, nil),
		maintenances:   append([]entity.Maintenance(nil), s.maintenances...),
	}
	return c
}

func cloneMap[T any](m map[string]T, deep func(T) T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		if deep != nil {
			v = deep(v)
		}
		out[k] = v
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func clonePurchaseOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	po.EstimatedDeliveryDate = cloneTime(po.EstimatedDeliveryDate)
	po.EffectiveDeliveryDate = cloneTime(po.EffectiveDeliveryDate)
	return po
}

func cloneOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	o.Payment = nil // el pago vive en payments
	return o
}

func clonePayment(p entity.PaymentDetail) entity.PaymentDetail {
	p.PaidAt = cloneTime(p.PaidAt)
	return p
}

func cloneShipment(s entity.Shipment) entity.Shipment {
	s.ShippedAt = cloneTime(s.ShippedAt)
	s.DeliveredAt = cloneTime(s.DeliveredAt)
	return s
}

// page aplica limit/offset como lo haría LIMIT/OFFSET en SQL. limit <= 0 no limita.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// newestFirst ordena por fecha de creación descendente con desempate por id.
func newestFirst[T any](list []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := created(list[i]), created(list[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(list[i]) < id(list[j])
	})
}
