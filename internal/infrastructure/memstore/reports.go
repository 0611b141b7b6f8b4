package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*reportRepo)(nil)

type reportRepo struct{ db access }

func (r *reportRepo) SalesSummary(ctx context.Context, from, to time.Time, limit int) (*repository.SalesSummary, error) {
	out := &repository.SalesSummary{Revenue: decimal.Zero}
	err := r.db.read(ctx, func(s *state) error {
		byProduct := map[string]*repository.ProductSales{}
		for _, o := range s.orders {
			if o.Status == entity.OrderCancelled || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
				continue
			}
			out.OrderCount++
			out.Revenue = out.Revenue.Add(o.TotalAmount)
			for _, it := range o.Items {
				ps, ok := byProduct[it.ProductID]
				if !ok {
					p := s.products[it.ProductID]
					ps = &repository.ProductSales{
						ProductID: it.ProductID, SKU: p.SKU, ProductName: p.Name, ImageURL: p.ImageURL,
						Revenue: decimal.Zero,
					}
					byProduct[it.ProductID] = ps
				}
				ps.UnitsSold += it.Quantity
				ps.Revenue = ps.Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
		for _, ps := range byProduct {
			out.TopProducts = append(out.TopProducts, *ps)
		}
		sort.Slice(out.TopProducts, func(i, j int) bool {
			if c := out.TopProducts[i].Revenue.Cmp(out.TopProducts[j].Revenue); c != 0 {
				return c > 0
			}
			return out.TopProducts[i].ProductID < out.TopProducts[j].ProductID
		})
		out.TopProducts = page(out.TopProducts, limit, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
