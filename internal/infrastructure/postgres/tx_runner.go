package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/infrastructure/metrics"
)

var _ repository.UnitOfWork = (*TxRunner)(nil)

// DefaultTxTimeout tiempo máximo que una unidad de trabajo puede mantener la transacción abierta.
const DefaultTxTimeout = 20 * time.Second

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (unidad de trabajo).
type TxRunner struct {
	pool     *pgxpool.Pool
	timeout  time.Duration
	observer metrics.UnitOfWorkObserver
}

// NewTxRunner construye el runner con el pool. timeout <= 0 usa DefaultTxTimeout.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration, observer metrics.UnitOfWorkObserver) *TxRunner {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return &TxRunner{pool: pool, timeout: timeout, observer: observer}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El error de fn se devuelve sin envolver; si vence el plazo se devuelve ErrTransactionTimeout.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.finish(start, ctx, fmt.Errorf("begin transaction: %w", err))
	}
	// El rollback usa un contexto propio: ctx puede estar vencido justamente por el timeout.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, NewTxRepos(tx)); err != nil {
		return r.finish(start, ctx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return r.finish(start, ctx, fmt.Errorf("commit transaction: %w", err))
	}
	r.observe(metrics.OutcomeCommit, start)
	return nil
}

func (r *TxRunner) finish(start time.Time, ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.observe(metrics.OutcomeTimeout, start)
		return fmt.Errorf("%w (%s): %v", domain.ErrTransactionTimeout, r.timeout, err)
	}
	r.observe(metrics.OutcomeRollback, start)
	return err
}

func (r *TxRunner) observe(outcome string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveUnitOfWork(outcome, time.Since(start))
	}
}

// txRepos repositorios construidos sobre la misma pgx.Tx.
type txRepos struct {
	users         *UserRepo
	registrations *RegistrationRequestRepo
	products      *ProductRepo
	stocks        *StockRepo
	stockChanges  *StockChangeRepo
	suppliers     *SupplierRepo
	purchases     *PurchaseOrderRepo
	orders        *OrderRepo
	payments      *PaymentRepo
	shipments     *ShipmentRepo
}

// NewTxRepos ata todos los repositorios a tx.
func NewTxRepos(tx pgx.Tx) repository.TxRepos {
	return &txRepos{
		users:         NewUserRepository(tx),
		registrations: NewRegistrationRequestRepository(tx),
		products:      NewProductRepository(tx),
		stocks:        NewStockRepository(tx),
		stockChanges:  NewStockChangeRepository(tx),
		suppliers:     NewSupplierRepository(tx),
		purchases:     NewPurchaseOrderRepository(tx),
		orders:        NewOrderRepository(tx),
		payments:      NewPaymentRepository(tx),
		shipments:     NewShipmentRepository(tx),
	}
}

func (r *txRepos) Users() repository.UserRepository { return r.users }
func (r *txRepos) RegistrationRequests() repository.RegistrationRequestRepository {
	return r.registrations
}
func (r *txRepos) Products() repository.ProductRepository             { return r.products }
func (r *txRepos) Stocks() repository.StockRepository                 { return r.stocks }
func (r *txRepos) StockChanges() repository.StockChangeRepository     { return r.stockChanges }
func (r *txRepos) Suppliers() repository.SupplierRepository           { return r.suppliers }
func (r *txRepos) PurchaseOrders() repository.PurchaseOrderRepository { return r.purchases }
func (r *txRepos) Orders() repository.OrderRepository                 { return r.orders }
func (r *txRepos) Payments() repository.PaymentRepository             { return r.payments }
func (r *txRepos) Shipments() repository.ShipmentRepository           { return r.shipments }
