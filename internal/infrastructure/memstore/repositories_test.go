package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

func TestUserRepo_EmailIsUniqueIgnoringCase(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Email: "Ana@Example.com"}))

	err := store.Users().Create(ctx, &entity.User{ID: "u2", Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := store.Users().GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

func TestRegistrationRepo_OnePendingPerEmail(t *testing.T) {
	store := New()
	ctx := context.Background()
	repo := store.RegistrationRequests()
	require.NoError(t, repo.Create(ctx, &entity.RegistrationRequest{ID: "r1", Email: "a@x.com", Status: entity.RegistrationPending}))

	err := repo.Create(ctx, &entity.RegistrationRequest{ID: "r2", Email: "A@x.com", Status: entity.RegistrationPending})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, repo.Update(ctx, &entity.RegistrationRequest{ID: "r1", Status: entity.RegistrationRejected}))
	require.NoError(t, repo.Create(ctx, &entity.RegistrationRequest{ID: "r2", Email: "a@x.com", Status: entity.RegistrationPending}))

	pending, err := repo.ListByStatus(ctx, entity.RegistrationPending, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r2", pending[0].ID)
}

func TestProductRepo_DeleteReferencedByPurchaseOrder(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Suppliers().Create(ctx, supplier("s1")))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A"}))
	require.NoError(t, store.PurchaseOrders().Create(ctx, &entity.PurchaseOrder{
		ID: "po1", SupplierID: "s1", Status: entity.PurchaseOrderDraft,
		Items: []entity.PurchaseOrderItem{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	}))

	assert.ErrorIs(t, store.Products().Delete(ctx, "p1"), domain.ErrConflict)
	assert.ErrorIs(t, store.Products().Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestProductRepo_DeleteConLibroDeStock(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A"}))
	require.NoError(t, store.StockChanges().Create(ctx, &entity.StockChange{
		ID: "c1", ProductID: "p1", Field: entity.StockFieldAvailable, ChangeType: entity.StockChangeIncrease,
		PreviousValue: 0, NewValue: 4, Reason: "manual_adjustment:conteo",
	}))

	assert.ErrorIs(t, store.Products().Delete(ctx, "p1"), domain.ErrConflict)
	changes, err := store.StockChanges().ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, changes, 1)

	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "B"}))
	assert.NoError(t, store.Products().Delete(ctx, "p2"))
}

func TestProductRepo_DuplicateSKU(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A"}))
	assert.ErrorIs(t, store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "A"}), domain.ErrDuplicate)
}

func TestStockRepo_RejectsNegativeCounters(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A"}))
	require.NoError(t, store.Stocks().Create(ctx, &entity.Stock{ProductID: "p1", QuantityAvailable: 1}))

	err := store.Stocks().Update(ctx, &entity.Stock{ProductID: "p1", QuantityAvailable: -1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStockChangeRepo_NewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A"}))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.StockChanges().Create(ctx, &entity.StockChange{
			ProductID: "p1", Field: entity.StockFieldAvailable, NewValue: i, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := store.StockChanges().ListByProduct(ctx, "p1", 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].NewValue)
	assert.Equal(t, 1, list[1].NewValue)
}

func TestPurchaseOrderRepo_ListHidesDeletedByDefault(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Suppliers().Create(ctx, supplier("s1")))
	require.NoError(t, store.PurchaseOrders().Create(ctx, &entity.PurchaseOrder{ID: "a", SupplierID: "s1", Status: entity.PurchaseOrderDraft}))
	require.NoError(t, store.PurchaseOrders().Create(ctx, &entity.PurchaseOrder{ID: "b", SupplierID: "s1", Status: entity.PurchaseOrderDeleted}))

	list, err := store.PurchaseOrders().List(ctx, repository.PurchaseOrderFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	deleted, err := store.PurchaseOrders().List(ctx, repository.PurchaseOrderFilter{Status: entity.PurchaseOrderDeleted, Limit: 10})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
}

func TestReportRepo_SalesSummary(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "B"}))

	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	mk := func(id string, status entity.OrderStatus, items ...entity.OrderItem) {
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		require.NoError(t, store.Orders().Create(ctx, &entity.Order{ID: id, Status: status, TotalAmount: total, CreatedAt: at}))
		for _, it := range items {
			it := it
			it.OrderID = id
			require.NoError(t, store.Orders().CreateItem(ctx, &it))
		}
	}
	mk("o1", entity.OrderDelivered, entity.OrderItem{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(10)})
	mk("o2", entity.OrderPending, entity.OrderItem{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(50)})
	mk("o3", entity.OrderCancelled, entity.OrderItem{ProductID: "p1", Quantity: 9, UnitPrice: decimal.NewFromInt(10)})

	sum, err := store.Reports().SalesSummary(ctx, at.Add(-time.Hour), at.Add(time.Hour), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.OrderCount)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(70)))
	require.Len(t, sum.TopProducts, 2)
	assert.Equal(t, "p2", sum.TopProducts[0].ProductID)
	assert.Equal(t, 2, sum.TopProducts[1].UnitsSold)
}
