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

var (
	_ repository.StockRepository       = (*StockRepo)(nil)
	_ repository.StockChangeRepository = (*StockChangeRepo)(nil)
)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create inserta la fila de stock de un producto nuevo.
func (r *StockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stocks (product_id, quantity_available, quantity_reserved, quantity_ordered, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		stock.ProductID, stock.QuantityAvailable, stock.QuantityReserved, stock.QuantityOrdered, stock.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Get obtiene el stock actual de un producto.
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.get(ctx, productID, "")
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.get(ctx, productID, " FOR UPDATE")
}

func (r *StockRepo) get(ctx context.Context, productID, lock string) (*entity.Stock, error) {
	query := `
		SELECT product_id, quantity_available, quantity_reserved, quantity_ordered, updated_at
		FROM stocks WHERE product_id = $1` + lock
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&s.ProductID, &s.QuantityAvailable, &s.QuantityReserved, &s.QuantityOrdered, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Update escribe los tres contadores.
func (r *StockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stocks SET quantity_available = $2, quantity_reserved = $3, quantity_ordered = $4, updated_at = $5
		WHERE product_id = $1`,
		stock.ProductID, stock.QuantityAvailable, stock.QuantityReserved, stock.QuantityOrdered, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StockChangeRepo libro de cambios de stock (solo inserción y lectura).
type StockChangeRepo struct {
	q Querier
}

// NewStockChangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockChangeRepository(q Querier) *StockChangeRepo {
	return &StockChangeRepo{q: q}
}

// Create agrega un registro al libro.
func (r *StockChangeRepo) Create(ctx context.Context, ch *entity.StockChange) error {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_changes (id, product_id, field, change_type, previous_value, new_value, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ch.ID, ch.ProductID, ch.Field, ch.ChangeType, ch.PreviousValue, ch.NewValue, ch.Reason, ch.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock change: %w", err)
	}
	return nil
}

// ListByProduct lista los cambios de un producto, el más reciente primero.
func (r *StockChangeRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockChange, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, field, change_type, previous_value, new_value, reason, created_at
		FROM stock_changes WHERE product_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockChange
	for rows.Next() {
		var c entity.StockChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Field, &c.ChangeType, &c.PreviousValue,
			&c.NewValue, &c.Reason, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
