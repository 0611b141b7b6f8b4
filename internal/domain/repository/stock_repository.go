package repository

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// StockRepository define el puerto para los contadores de stock por producto.
// Las mutaciones se hacen dentro de una unidad de trabajo junto con su StockChange.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	Get(ctx context.Context, productID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
}

// StockChangeRepository libro append-only de cambios de stock: no hay Update ni Delete.
type StockChangeRepository interface {
	Create(ctx context.Context, change *entity.StockChange) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockChange, error)
}
