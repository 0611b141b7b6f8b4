package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/inventory"
	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
)

func seedProduct(t *testing.T, store *memstore.Store, id string, available int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: id, SKU: id, Name: id}))
	require.NoError(t, store.Stocks().Create(ctx, &entity.Stock{ProductID: id, QuantityAvailable: available}))
}

func TestStockUseCase_Adjust(t *testing.T) {
	store := memstore.New()
	seedProduct(t, store, "p1", 10)
	uc := NewStockUseCase(store, store.Stocks(), store.StockChanges())
	ctx := context.Background()

	out, err := uc.Adjust(ctx, "p1", "u1", dto.StockAdjustmentRequest{Delta: -3, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Available)

	changes, err := uc.ListChanges(ctx, "p1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, changes.Items, 1)
	ch := changes.Items[0]
	assert.Equal(t, entity.StockFieldAvailable, ch.Field)
	assert.Equal(t, entity.StockChangeDecrease, ch.ChangeType)
	assert.Equal(t, 10, ch.PreviousValue)
	assert.Equal(t, 7, ch.NewValue)
	assert.Equal(t, "manual_adjustment:merma (u1)", ch.Reason)
	assert.Equal(t, dto.DefaultLimit, changes.Page.Limit)
}

func TestStockUseCase_AdjustBelowZero(t *testing.T) {
	store := memstore.New()
	seedProduct(t, store, "p1", 2)
	uc := NewStockUseCase(store, store.Stocks(), store.StockChanges())
	ctx := context.Background()

	_, err := uc.Adjust(ctx, "p1", "", dto.StockAdjustmentRequest{Delta: -3, Reason: "merma"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock, err := uc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Available)
	changes, _ := uc.ListChanges(ctx, "p1", dto.PageRequest{})
	assert.Empty(t, changes.Items)
}

func TestStockUseCase_UnknownProduct(t *testing.T) {
	store := memstore.New()
	uc := NewStockUseCase(store, store.Stocks(), store.StockChanges())

	_, err := uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Adjust(context.Background(), "nope", "", dto.StockAdjustmentRequest{Delta: 1, Reason: "conteo"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDeltas_OneChangePerField(t *testing.T) {
	store := memstore.New()
	seedProduct(t, store, "p1", 5)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return ApplyDeltas(ctx, repos, "p1", []inventory.Delta{
			{Field: entity.StockFieldAvailable, Amount: -2},
			{Field: entity.StockFieldReserved, Amount: 2},
		}, "order_created:o1", now)
	})

	list, err := store.StockChanges().ListByProduct(context.Background(), "p1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	stock, _ := store.Stocks().Get(context.Background(), "p1")
	assert.Equal(t, 3, stock.QuantityAvailable)
	assert.Equal(t, 2, stock.QuantityReserved)
}
