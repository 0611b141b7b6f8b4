package purchasing

import (
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TotalAmount suma quantity * unit_price de todos los ítems. Lista vacía = 0.
func TotalAmount(items []entity.PurchaseOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
