package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, supplier_id, status, total_amount, estimated_delivery_date,
	effective_delivery_date, notes, created_by, created_at, updated_at`

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL. Create y ReplaceItems escriben
// varias tablas: usarlo con una tx (TxRunner) para que sea atómico.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta la cabecera y los ítems.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (`+purchaseOrderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		po.ID, po.SupplierID, string(po.Status), po.TotalAmount, po.EstimatedDeliveryDate,
		po.EffectiveDeliveryDate, po.Notes, nullString(po.CreatedBy), po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return r.insertItems(ctx, po.ID, po.Items)
}

// GetByID obtiene la orden con sus ítems en el orden en que se registraron.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

// Update actualiza la cabecera.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET supplier_id = $2, status = $3, total_amount = $4,
			estimated_delivery_date = $5, effective_delivery_date = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		po.ID, po.SupplierID, string(po.Status), po.TotalAmount, po.EstimatedDeliveryDate,
		po.EffectiveDeliveryDate, po.Notes, po.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra los ítems actuales e inserta los nuevos.
func (r *PurchaseOrderRepo) ReplaceItems(ctx context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, purchaseOrderID); err != nil {
		return fmt.Errorf("delete purchase order items: %w", err)
	}
	return r.insertItems(ctx, purchaseOrderID, items)
}

// List lista órdenes (sin ítems). Sin filtro de estado se excluyen las eliminadas.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE 1 = 1`
	var args []any
	pos := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(f.Status))
		pos++
	} else {
		query += " AND status <> 'deleted'"
	}
	if f.SupplierID != "" {
		query += fmt.Sprintf(" AND supplier_id = $%d", pos)
		args = append(args, f.SupplierID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

func (r *PurchaseOrderRepo) insertItems(ctx context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseOrderID = purchaseOrderID
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, purchaseOrderID, it.ProductID, it.Quantity, it.UnitPrice, i)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) items(ctx context.Context, purchaseOrderID string) ([]entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, unit_price
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY position`, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	var createdBy *string
	if err := row.Scan(&po.ID, &po.SupplierID, &status, &po.TotalAmount, &po.EstimatedDeliveryDate,
		&po.EffectiveDeliveryDate, &po.Notes, &createdBy, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return nil, err
	}
	po.Status = entity.PurchaseOrderStatus(status)
	po.CreatedBy = derefString(createdBy)
	return &po, nil
}
