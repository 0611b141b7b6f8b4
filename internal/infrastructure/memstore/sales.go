package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository    = (*orderRepo)(nil)
	_ repository.PaymentRepository  = (*paymentRepo)(nil)
	_ repository.ShipmentRepository = (*shipmentRepo)(nil)
)

type orderRepo struct{ db access }

func (r *orderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		header := cloneOrder(*o)
		header.Items = nil
		s.orders[o.ID] = header
		return nil
	})
}

func (r *orderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	return r.db.write(ctx, func(s *state) error {
		o, ok := s.orders[it.OrderID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.products[it.ProductID]; !ok {
			return domain.ErrNotFound
		}
		o.Items = append(o.Items, *it)
		s.orders[it.OrderID] = o
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.db.read(ctx, func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return nil
		}
		o = cloneOrder(o)
		if p, ok := s.payments[id]; ok {
			p = clonePayment(p)
			o.Payment = &p
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *orderRepo) Update(ctx context.Context, o *entity.Order) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status, cur.Address, cur.TotalAmount, cur.UpdatedAt = o.Status, o.Address, o.TotalAmount, o.UpdatedAt
		s.orders[o.ID] = cur
		return nil
	})
}

func (r *orderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.db.read(ctx, func(s *state) error {
		var list []entity.Order
		for _, o := range s.orders {
			if f.Status == "" || o.Status == f.Status {
				o = cloneOrder(o)
				o.Items = nil
				list = append(list, o)
			}
		}
		newestFirst(list, func(o entity.Order) time.Time { return o.CreatedAt }, func(o entity.Order) string { return o.ID })
		for _, o := range page(list, f.Limit, f.Offset) {
			o := o
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

type paymentRepo struct{ db access }

func (r *paymentRepo) Create(ctx context.Context, p *entity.PaymentDetail) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.orders[p.OrderID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.payments[p.OrderID]; ok {
			return domain.ErrDuplicate
		}
		s.payments[p.OrderID] = clonePayment(*p)
		return nil
	})
}

func (r *paymentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.PaymentDetail, error) {
	var out *entity.PaymentDetail
	err := r.db.read(ctx, func(s *state) error {
		if p, ok := s.payments[orderID]; ok {
			p = clonePayment(p)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *paymentRepo) Update(ctx context.Context, p *entity.PaymentDetail) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.payments[p.OrderID]
		if !ok || cur.ID != p.ID {
			return domain.ErrNotFound
		}
		cur.Method, cur.Amount, cur.Status, cur.PaidAt = p.Method, p.Amount, p.Status, cloneTime(p.PaidAt)
		s.payments[p.OrderID] = cur
		return nil
	})
}

type shipmentRepo struct{ db access }

func (r *shipmentRepo) Create(ctx context.Context, sh *entity.Shipment) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.shipments[sh.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := s.orders[sh.OrderID]; !ok {
			return domain.ErrNotFound
		}
		if sh.VehicleID != "" {
			if _, ok := s.vehicles[sh.VehicleID]; !ok {
				return domain.ErrNotFound
			}
		}
		s.shipments[sh.ID] = cloneShipment(*sh)
		return nil
	})
}

func (r *shipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.db.read(ctx, func(s *state) error {
		if sh, ok := s.shipments[id]; ok {
			sh = cloneShipment(sh)
			out = &sh
		}
		return nil
	})
	return out, err
}

func (r *shipmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error) {
	list, err := r.collect(ctx, func(sh entity.Shipment) bool { return sh.OrderID == orderID })
	if err != nil {
		return nil, err
	}
	// más antiguo primero
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (r *shipmentRepo) Update(ctx context.Context, sh *entity.Shipment) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.shipments[sh.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if sh.VehicleID != "" {
			if _, ok := s.vehicles[sh.VehicleID]; !ok {
				return domain.ErrNotFound
			}
		}
		next := cloneShipment(*sh)
		next.OrderID, next.CreatedAt = cur.OrderID, cur.CreatedAt
		s.shipments[sh.ID] = next
		return nil
	})
}

func (r *shipmentRepo) List(ctx context.Context, limit, offset int) ([]*entity.Shipment, error) {
	list, err := r.collect(ctx, func(entity.Shipment) bool { return true })
	if err != nil {
		return nil, err
	}
	return page(list, limit, offset), nil
}

// collect devuelve los envíos que cumplen keep, el más reciente primero.
func (r *shipmentRepo) collect(ctx context.Context, keep func(entity.Shipment) bool) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	err := r.db.read(ctx, func(s *state) error {
		var list []entity.Shipment
		for _, sh := range s.shipments {
			if keep(sh) {
				list = append(list, cloneShipment(sh))
			}
		}
		newestFirst(list, func(sh entity.Shipment) time.Time { return sh.CreatedAt }, func(sh entity.Shipment) string { return sh.ID })
		for _, sh := range list {
			sh := sh
			out = append(out, &sh)
		}
		return nil
	})
	return out, err
}
