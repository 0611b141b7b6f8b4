// Package memstore implementa los puertos de persistencia en memoria. Sirve como
// driver de desarrollo (STORAGE_DRIVER=memory) y como backend de pruebas de la unidad de trabajo.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/infrastructure/metrics"
)

var _ repository.UnitOfWork = (*Store)(nil)

// DefaultTxTimeout tiempo máximo de una unidad de trabajo en memoria.
const DefaultTxTimeout = 20 * time.Second

// access abstrae dónde operan los repositorios: el estado confirmado (con locks)
// o la copia privada de una unidad de trabajo.
type access interface {
	read(ctx context.Context, fn func(s *state) error) error
	write(ctx context.Context, fn func(s *state) error) error
}

// Store base de datos en memoria. Las unidades de trabajo se serializan: cada una
// trabaja sobre una copia del estado y la publica solo si fn termina sin error.
type Store struct {
	mu       sync.RWMutex
	data     *state
	writer   chan struct{} // semáforo de escritor único
	timeout  time.Duration
	observer metrics.UnitOfWorkObserver
}

// Option configura el Store.
type Option func(*Store)

// WithTxTimeout define el tiempo máximo de cada unidad de trabajo.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithObserver registra métricas de cada unidad de trabajo.
func WithObserver(o metrics.UnitOfWorkObserver) Option {
	return func(s *Store) { s.observer = o }
}

// New crea un Store vacío.
func New(opts ...Option) *Store {
	s := &Store{
		data:    newState(),
		writer:  make(chan struct{}, 1),
		timeout: DefaultTxTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.writer }

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Run ejecuta fn sobre una copia del estado. Si fn devuelve error la copia se descarta
// y el error se devuelve sin modificar; si se agota el tiempo se devuelve ErrTransactionTimeout.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		return s.finish(start, ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer s.release()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	tx := &txAccess{data: work}
	if err := fn(ctx, tx.repos()); err != nil {
		return s.finish(start, ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return s.finish(start, ctx, fmt.Errorf("commit transaction: %w", err))
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	s.observe(metrics.OutcomeCommit, start)
	return nil
}

func (s *Store) finish(start time.Time, ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		s.observe(metrics.OutcomeTimeout, start)
		return fmt.Errorf("%w (%s): %v", domain.ErrTransactionTimeout, s.timeout, err)
	}
	s.observe(metrics.OutcomeRollback, start)
	return err
}

func (s *Store) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveUnitOfWork(outcome, time.Since(start))
	}
}

// txAccess opera sobre la copia privada de una unidad de trabajo. Solo la usa la
// goroutine que ejecuta fn, por eso no necesita locks; sí respeta la cancelación de ctx.
type txAccess struct {
	data *state
}

func (t *txAccess) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.data)
}

func (t *txAccess) write(ctx context.Context, fn func(st *state) error) error {
	return t.read(ctx, fn)
}

func (t *txAccess) repos() repository.TxRepos { return newRepoSet(t) }

// Repositorios sobre el estado confirmado, para lecturas y escrituras fuera de una unidad de trabajo.

func (s *Store) Users() repository.UserRepository { return &userRepo{db: s} }
func (s *Store) RegistrationRequests() repository.RegistrationRequestRepository {
	return &registrationRepo{db: s}
}
func (s *Store) Products() repository.ProductRepository             { return &productRepo{db: s} }
func (s *Store) Stocks() repository.StockRepository                 { return &stockRepo{db: s} }
func (s *Store) StockChanges() repository.StockChangeRepository     { return &stockChangeRepo{db: s} }
func (s *Store) Suppliers() repository.SupplierRepository           { return &supplierRepo{db: s} }
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return &purchaseOrderRepo{db: s} }
func (s *Store) Orders() repository.OrderRepository                 { return &orderRepo{db: s} }
func (s *Store) Payments() repository.PaymentRepository             { return &paymentRepo{db: s} }
func (s *Store) Shipments() repository.ShipmentRepository           { return &shipmentRepo{db: s} }
func (s *Store) Vehicles() repository.VehicleRepository             { return &vehicleRepo{db: s} }
func (s *Store) Reports() repository.ReportRepository               { return &reportRepo{db: s} }

type repoSet struct{ db access }

func newRepoSet(db access) repository.TxRepos { return &repoSet{db: db} }

func (r *repoSet) Users() repository.UserRepository { return &userRepo{db: r.db} }
func (r *repoSet) RegistrationRequests() repository.RegistrationRequestRepository {
	return &registrationRepo{db: r.db}
}
func (r *repoSet) Products() repository.ProductRepository         { return &productRepo{db: r.db} }
func (r *repoSet) Stocks() repository.StockRepository             { return &stockRepo{db: r.db} }
func (r *repoSet) StockChanges() repository.StockChangeRepository { return &stockChangeRepo{db: r.db} }
func (r *repoSet) Suppliers() repository.SupplierRepository       { return &supplierRepo{db: r.db} }
func (r *repoSet) PurchaseOrders() repository.PurchaseOrderRepository {
	return &purchaseOrderRepo{db: r.db}
}
func (r *repoSet) Orders() repository.OrderRepository       { return &orderRepo{db: r.db} }
func (r *repoSet) Payments() repository.PaymentRepository   { return &paymentRepo{db: r.db} }
func (r *repoSet) Shipments() repository.ShipmentRepository { return &shipmentRepo{db: r.db} }
