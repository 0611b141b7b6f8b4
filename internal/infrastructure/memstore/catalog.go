package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository    = (*supplierRepo)(nil)
	_ repository.ProductRepository     = (*productRepo)(nil)
	_ repository.StockRepository       = (*stockRepo)(nil)
	_ repository.StockChangeRepository = (*stockChangeRepo)(nil)
)

type supplierRepo struct{ db access }

func (r *supplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.suppliers[supplier.ID]; ok {
			return domain.ErrDuplicate
		}
		s.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *supplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.db.read(ctx, func(s *state) error {
		if v, ok := s.suppliers[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.suppliers[supplier.ID]
		if !ok {
			return domain.ErrNotFound
		}
		supplier.CreatedAt = cur.CreatedAt
		s.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.db.read(ctx, func(s *state) error {
		list := make([]entity.Supplier, 0, len(s.suppliers))
		for _, v := range s.suppliers {
			list = append(list, v)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		for _, v := range page(list, limit, offset) {
			v := v
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

// Delete falla con ErrConflict si el proveedor tiene órdenes de compra.
func (r *supplierRepo) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, po := range s.purchaseOrders {
			if po.SupplierID == id {
				return domain.ErrConflict
			}
		}
		for pid, p := range s.products {
			if p.SupplierID == id {
				p.SupplierID = ""
				s.products[pid] = p
			}
		}
		delete(s.suppliers, id)
		return nil
	})
}

type productRepo struct{ db access }

func (r *productRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, p := range s.products {
			if p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		if product.SupplierID != "" {
			if _, ok := s.suppliers[product.SupplierID]; !ok {
				return domain.ErrNotFound
			}
		}
		s.products[product.ID] = *product
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(ctx, func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(ctx, func(s *state) error {
		for _, p := range s.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if product.SupplierID != "" {
			if _, ok := s.suppliers[product.SupplierID]; !ok {
				return domain.ErrNotFound
			}
		}
		cur.Name, cur.Description, cur.Price = product.Name, product.Description, product.Price
		cur.ImageURL, cur.SupplierID, cur.UpdatedAt = product.ImageURL, product.SupplierID, product.UpdatedAt
		s.products[product.ID] = cur
		return nil
	})
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.read(ctx, func(s *state) error {
		list := make([]entity.Product, 0, len(s.products))
		for _, p := range s.products {
			list = append(list, p)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		for _, p := range page(list, limit, offset) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// Delete borra el producto y su fila de stock. Falla con ErrConflict si algún pedido,
// orden de compra o cambio de stock lo referencia: el libro nunca pierde filas.
func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, po := range s.purchaseOrders {
			for _, it := range po.Items {
				if it.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		for _, o := range s.orders {
			for _, it := range o.Items {
				if it.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		for _, ch := range s.stockChanges {
			if ch.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(s.products, id)
		delete(s.stocks, id)
		return nil
	})
}

type stockRepo struct{ db access }

func (r *stockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.products[stock.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.stocks[stock.ProductID]; ok {
			return domain.ErrDuplicate
		}
		s.stocks[stock.ProductID] = *stock
		return nil
	})
}

func (r *stockRepo) Get(ctx context.Context, productID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.db.read(ctx, func(s *state) error {
		if st, ok := s.stocks[productID]; ok {
			out = &st
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: las unidades de trabajo ya están serializadas.
func (r *stockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.Get(ctx, productID)
}

func (r *stockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.stocks[stock.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if stock.QuantityAvailable < 0 || stock.QuantityReserved < 0 || stock.QuantityOrdered < 0 {
			return domain.ErrInsufficientStock
		}
		s.stocks[stock.ProductID] = *stock
		return nil
	})
}

type stockChangeRepo struct{ db access }

func (r *stockChangeRepo) Create(ctx context.Context, change *entity.StockChange) error {
	if change.ID == "" {
		change.ID = uuid.New().String()
	}
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.products[change.ProductID]; !ok {
			return domain.ErrNotFound
		}
		s.stockChanges = append(s.stockChanges, *change)
		return nil
	})
}

// ListByProduct devuelve los cambios del producto, el más reciente primero.
func (r *stockChangeRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockChange, error) {
	var out []*entity.StockChange
	err := r.db.read(ctx, func(s *state) error {
		var list []entity.StockChange
		for i := len(s.stockChanges) - 1; i >= 0; i-- {
			if s.stockChanges[i].ProductID == productID {
				list = append(list, s.stockChanges[i])
			}
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		for _, ch := range page(list, limit, offset) {
			ch := ch
			out = append(out, &ch)
		}
		return nil
	})
	return out, err
}
