package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
	"github.com/jhoicas/portal-api/internal/infrastructure/metrics"
	"github.com/jhoicas/portal-api/internal/infrastructure/postgres"
	"github.com/jhoicas/portal-api/migrations"
	"github.com/jhoicas/portal-api/pkg/config"
	"github.com/jhoicas/portal-api/pkg/logger"
)

// storage repositorios de lectura fuera de tx más la unidad de trabajo del driver elegido.
type storage struct {
	uow                  repository.UnitOfWork
	users                repository.UserRepository
	registrationRequests repository.RegistrationRequestRepository
	products             repository.ProductRepository
	stocks               repository.StockRepository
	stockChanges         repository.StockChangeRepository
	suppliers            repository.SupplierRepository
	purchaseOrders       repository.PurchaseOrderRepository
	orders               repository.OrderRepository
	shipments            repository.ShipmentRepository
	vehicles             repository.VehicleRepository
	reports              repository.ReportRepository
	close                func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.StorageDriverMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memstore.New(memstore.WithTxTimeout(cfg.TxTimeout), memstore.WithObserver(m))
		return &storage{
			uow:                  s,
			users:                s.Users(),
			registrationRequests: s.RegistrationRequests(),
			products:             s.Products(),
			stocks:               s.Stocks(),
			stockChanges:         s.StockChanges(),
			suppliers:            s.Suppliers(),
			purchaseOrders:       s.PurchaseOrders(),
			orders:               s.Orders(),
			shipments:            s.Shipments(),
			vehicles:             s.Vehicles(),
			reports:              s.Reports(),
			close:                func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	applied, err := postgres.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
	return &storage{
		uow:                  postgres.NewTxRunner(pool, cfg.TxTimeout, m),
		users:                postgres.NewUserRepository(pool),
		registrationRequests: postgres.NewRegistrationRequestRepository(pool),
		products:             postgres.NewProductRepository(pool),
		stocks:               postgres.NewStockRepository(pool),
		stockChanges:         postgres.NewStockChangeRepository(pool),
		suppliers:            postgres.NewSupplierRepository(pool),
		purchaseOrders:       postgres.NewPurchaseOrderRepository(pool),
		orders:               postgres.NewOrderRepository(pool),
		shipments:            postgres.NewShipmentRepository(pool),
		vehicles:             postgres.NewVehicleRepository(pool),
		reports:              postgres.NewReportRepository(pool),
		close:                pool.Close,
	}, nil
}
