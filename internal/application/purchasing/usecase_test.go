package purchasing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
)

type recordedEvent struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{key: key, payload: payload})
	return nil
}

// countingUoW cuenta cuántas unidades de trabajo se abrieron.
type countingUoW struct {
	repository.UnitOfWork
	runs int
}

func (c *countingUoW) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	c.runs++
	return c.UnitOfWork.Run(ctx, fn)
}

// flakyProducts falla al leer un producto concreto.
type flakyProducts struct {
	repository.ProductRepository
	failID string
}

func (f flakyProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if id == f.failID {
		return nil, errors.New("conexión reiniciada")
	}
	return f.ProductRepository.GetByID(ctx, id)
}

type transitions struct{ seen [][2]string }

func (t *transitions) ObservePurchaseOrderTransition(from, to string) {
	t.seen = append(t.seen, [2]string{from, to})
}

type fixture struct {
	store    *memstore.Store
	uow      *countingUoW
	events   *recordingPublisher
	observer *transitions
	uc       *PurchaseOrderUseCase
	supplier string
	productA string
	productB string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	f := &fixture{
		store:    store,
		uow:      &countingUoW{UnitOfWork: store},
		events:   &recordingPublisher{},
		observer: &transitions{},
		supplier: uuid.NewString(),
		productA: uuid.NewString(),
		productB: uuid.NewString(),
	}
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: f.supplier, Name: "Distribuidora Andina", Email: "compras@andina.test"}))
	for _, p := range []struct{ id, sku string }{{f.productA, "A-1"}, {f.productB, "B-1"}} {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: p.id, SKU: p.sku, Name: "Producto " + p.sku}))
		require.NoError(t, store.Stocks().Create(ctx, &entity.Stock{ProductID: p.id}))
	}
	f.uc = NewPurchaseOrderUseCase(f.uow, store.PurchaseOrders(), store.Suppliers(), store.Products(), f.events, nil,
		WithObserver(f.observer))
	return f
}

func (f *fixture) draft(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier,
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: f.productA, Quantity: 5, UnitPrice: decimal.RequireFromString("10.50")},
			{ProductID: f.productB, Quantity: 3, UnitPrice: decimal.RequireFromString("2")},
		},
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stock(t *testing.T, productID string) *entity.Stock {
	t.Helper()
	s, err := f.store.Stocks().Get(context.Background(), productID)
	require.NoError(t, err)
	return s
}

func (f *fixture) changes(t *testing.T, productID string) []*entity.StockChange {
	t.Helper()
	list, err := f.store.StockChanges().ListByProduct(context.Background(), productID, 100, 0)
	require.NoError(t, err)
	return list
}

func TestCreate_DraftWithTotal(t *testing.T) {
	f := newFixture(t)
	po := f.draft(t)

	assert.Equal(t, string(entity.PurchaseOrderDraft), po.Status)
	assert.True(t, decimal.RequireFromString("58.50").Equal(po.TotalAmount))
	require.Len(t, po.Items, 2)
	assert.True(t, decimal.RequireFromString("52.50").Equal(po.Items[0].Subtotal))
	assert.NotEmpty(t, po.Items[0].ID)
}

func TestCreate_UnknownSupplier(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), "u1", dto.CreatePurchaseOrderRequest{SupplierID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChangeStatus_OrderedThenReceived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t)

	ordered, err := f.uc.ChangeStatus(ctx, po.ID, "ordered")
	require.NoError(t, err)
	assert.Equal(t, "ordered", ordered.Status)
	assert.Equal(t, 5, f.stock(t, f.productA).QuantityOrdered)
	assert.Equal(t, 3, f.stock(t, f.productB).QuantityOrdered)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, ports.EventPurchaseOrderOrdered, f.events.events[0].key)
	ev := f.events.events[0].payload.(ports.PurchaseOrderOrdered)
	assert.Equal(t, "compras@andina.test", ev.SupplierEmail)
	assert.Equal(t, "58.50", ev.TotalAmount)
	require.Len(t, ev.Lines, 2)
	assert.Equal(t, "A-1", ev.Lines[0].SKU)

	before := len(f.changes(t, f.productA)) + len(f.changes(t, f.productB))

	received, err := f.uc.ChangeStatus(ctx, po.ID, "received")
	require.NoError(t, err)
	assert.Equal(t, "received", received.Status)
	assert.NotNil(t, received.EffectiveDeliveryDate)

	a, b := f.stock(t, f.productA), f.stock(t, f.productB)
	assert.Equal(t, 5, a.QuantityAvailable)
	assert.Equal(t, 0, a.QuantityOrdered)
	assert.Equal(t, 3, b.QuantityAvailable)
	assert.Equal(t, 0, b.QuantityOrdered)

	after := len(f.changes(t, f.productA)) + len(f.changes(t, f.productB))
	assert.Equal(t, 4, after-before, "un cambio por campo tocado")
	for _, ch := range f.changes(t, f.productA)[:2] {
		assert.Equal(t, "purchase_order_received:"+po.ID, ch.Reason)
	}

	assert.Equal(t, [][2]string{{"draft", "ordered"}, {"ordered", "received"}}, f.observer.seen)
	assert.Len(t, f.events.events, 1, "recibir no publica evento")
}

func TestChangeStatus_OrderedCancelledReleasesOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t)

	_, err := f.uc.ChangeStatus(ctx, po.ID, "ordered")
	require.NoError(t, err)
	_, err = f.uc.ChangeStatus(ctx, po.ID, "cancelled")
	require.NoError(t, err)

	assert.Equal(t, 0, f.stock(t, f.productA).QuantityOrdered)
	assert.Equal(t, 0, f.stock(t, f.productA).QuantityAvailable)
	assert.Len(t, f.changes(t, f.productA), 2)
}

func TestChangeStatus_DraftCancelledTouchesNoStock(t *testing.T) {
	f := newFixture(t)
	po := f.draft(t)

	out, err := f.uc.ChangeStatus(context.Background(), po.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
	assert.Empty(t, f.changes(t, f.productA))
	assert.Empty(t, f.events.events)
}

func TestChangeStatus_InvalidTransitionWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t)
	runsBefore := f.uow.runs

	_, err := f.uc.ChangeStatus(ctx, po.ID, "received")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, runsBefore, f.uow.runs, "no se abre unidad de trabajo")

	got, err := f.uc.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Status)
	assert.Empty(t, f.changes(t, f.productA))
	assert.Empty(t, f.observer.seen)
}

func TestChangeStatus_TerminalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t)
	_, err := f.uc.ChangeStatus(ctx, po.ID, "deleted")
	require.NoError(t, err)

	for _, to := range []string{"draft", "ordered", "cancelled", "received", "deleted"} {
		_, err := f.uc.ChangeStatus(ctx, po.ID, to)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, to)
	}
}

func TestChangeStatus_UnknownStatusAndOrder(t *testing.T) {
	f := newFixture(t)
	po := f.draft(t)

	_, err := f.uc.ChangeStatus(context.Background(), po.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.ChangeStatus(context.Background(), uuid.NewString(), "ordered")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_OnlyInDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t)
	eta := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	notes := "entregar en bodega 2"

	out, err := f.uc.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{
		EstimatedDeliveryDate: &eta,
		Notes:                 &notes,
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: f.productB, Quantity: 10, UnitPrice: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(out.TotalAmount))
	assert.Equal(t, notes, out.Notes)
	require.Len(t, out.Items, 1)

	_, err = f.uc.ChangeStatus(ctx, po.ID, "ordered")
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, f.productB).QuantityOrdered)
	assert.Equal(t, 0, f.stock(t, f.productA).QuantityOrdered)

	_, err = f.uc.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestList_HidesDeletedByDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.draft(t)
	gone := f.draft(t)
	_, err := f.uc.ChangeStatus(ctx, gone.ID, "deleted")
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.PurchaseOrderListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, keep.ID, list.Items[0].ID)
	assert.Equal(t, dto.DefaultLimit, list.Page.Limit)

	deleted, err := f.uc.List(ctx, dto.PurchaseOrderListRequest{Status: "deleted"})
	require.NoError(t, err)
	require.Len(t, deleted.Items, 1)
	assert.Equal(t, gone.ID, deleted.Items[0].ID)
}

func TestChangeStatus_OrderedReportsProductLookupError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	type lookupErr struct {
		id  string
		err error
	}
	var seen []lookupErr
	f.uc = NewPurchaseOrderUseCase(f.uow, f.store.PurchaseOrders(), f.store.Suppliers(),
		flakyProducts{ProductRepository: f.store.Products(), failID: f.productB}, f.events, nil,
		WithLookupErrorHandler(func(id string, err error) { seen = append(seen, lookupErr{id, err}) }))
	po := f.draft(t)

	_, err := f.uc.ChangeStatus(ctx, po.ID, "ordered")
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, f.productB, seen[0].id)
	assert.EqualError(t, seen[0].err, "conexión reiniciada")

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0].payload.(ports.PurchaseOrderOrdered)
	require.Len(t, ev.Lines, 2)
	assert.Equal(t, "A-1", ev.Lines[0].SKU)
	assert.Equal(t, f.productB, ev.Lines[1].Name)
	assert.Empty(t, ev.Lines[1].SKU)
}
