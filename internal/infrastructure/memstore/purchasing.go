package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)

type purchaseOrderRepo struct{ db access }

func (r *purchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.purchaseOrders[po.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := s.suppliers[po.SupplierID]; !ok {
			return domain.ErrNotFound
		}
		items, err := prepareItems(s, po.ID, po.Items)
		if err != nil {
			return err
		}
		po.Items = items
		s.purchaseOrders[po.ID] = clonePurchaseOrder(*po)
		return nil
	})
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.db.read(ctx, func(s *state) error {
		if po, ok := s.purchaseOrders[id]; ok {
			po = clonePurchaseOrder(po)
			out = &po
		}
		return nil
	})
	return out, err
}

// Update escribe la cabecera; los ítems solo cambian con ReplaceItems.
func (r *purchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.purchaseOrders[po.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.suppliers[po.SupplierID]; !ok {
			return domain.ErrNotFound
		}
		next := clonePurchaseOrder(*po)
		next.Items = cur.Items
		next.CreatedAt, next.CreatedBy = cur.CreatedAt, cur.CreatedBy
		s.purchaseOrders[po.ID] = next
		return nil
	})
}

func (r *purchaseOrderRepo) ReplaceItems(ctx context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.purchaseOrders[purchaseOrderID]
		if !ok {
			return domain.ErrNotFound
		}
		prepared, err := prepareItems(s, purchaseOrderID, items)
		if err != nil {
			return err
		}
		copy(items, prepared)
		cur.Items = prepared
		s.purchaseOrders[purchaseOrderID] = cur
		return nil
	})
}

func (r *purchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.db.read(ctx, func(s *state) error {
		var list []entity.PurchaseOrder
		for _, po := range s.purchaseOrders {
			if f.Status != "" && po.Status != f.Status {
				continue
			}
			if f.Status == "" && po.Status == entity.PurchaseOrderDeleted {
				continue
			}
			if f.SupplierID != "" && po.SupplierID != f.SupplierID {
				continue
			}
			po = clonePurchaseOrder(po)
			po.Items = nil
			list = append(list, po)
		}
		newestFirst(list, func(po entity.PurchaseOrder) time.Time { return po.CreatedAt },
			func(po entity.PurchaseOrder) string { return po.ID })
		for _, po := range page(list, f.Limit, f.Offset) {
			po := po
			out = append(out, &po)
		}
		return nil
	})
	return out, err
}

// prepareItems asigna ids y verifica que los productos existan.
func prepareItems(s *state, purchaseOrderID string, items []entity.PurchaseOrderItem) ([]entity.PurchaseOrderItem, error) {
	out := make([]entity.PurchaseOrderItem, len(items))
	for i, it := range items {
		if _, ok := s.products[it.ProductID]; !ok {
			return nil, domain.ErrNotFound
		}
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseOrderID = purchaseOrderID
		out[i] = it
	}
	return out, nil
}
