package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool (las lecturas no requieren tx).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesSummary total de pedidos no cancelados en [from, to) y los productos más vendidos.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time, limit int) (*repository.SalesSummary, error) {
	var out repository.SalesSummary
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1 AND created_at < $2`, from, to).
		Scan(&out.OrderCount, &out.Revenue)
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.image_url,
			SUM(oi.quantity)::int AS units,
			SUM(oi.quantity * oi.unit_price) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status <> 'cancelled' AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY p.id, p.sku, p.name, p.image_url
		ORDER BY revenue DESC
		LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.SKU, &ps.ProductName, &ps.ImageURL, &ps.UnitsSold, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		out.TopProducts = append(out.TopProducts, ps)
	}
	return &out, rows.Err()
}
