package repository

import "context"

// TxRepos repositorios atados a una misma transacción. Dentro de una unidad de trabajo
// solo se deben usar estos repositorios, nunca los construidos sobre el pool.
type TxRepos interface {
	Users() UserRepository
	RegistrationRequests() RegistrationRequestRepository
	Products() ProductRepository
	Stocks() StockRepository
	StockChanges() StockChangeRepository
	Suppliers() SupplierRepository
	PurchaseOrders() PurchaseOrderRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Shipments() ShipmentRepository
}

// UnitOfWork ejecuta fn dentro de una transacción: todo o nada.
// Si fn devuelve error se hace rollback y el error se devuelve sin modificar.
// La transacción tiene un tiempo máximo; al agotarse devuelve domain.ErrTransactionTimeout.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// RunWithResult ejecuta fn en la unidad de trabajo y devuelve su resultado.
func RunWithResult[T any](ctx context.Context, uow UnitOfWork, fn func(ctx context.Context, repos TxRepos) (T, error)) (T, error) {
	var result T
	err := uow.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		v, err := fn(ctx, repos)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
