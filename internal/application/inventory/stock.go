// Package inventory casos de uso sobre el stock por producto y su libro de cambios.
package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/inventory"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

// ApplyDeltas bloquea el stock del producto (GetForUpdate), aplica los deltas y registra un
// StockChange por campo tocado. Debe llamarse dentro de una unidad de trabajo con sus repos.
func ApplyDeltas(ctx context.Context, repos repository.TxRepos, productID string, deltas []inventory.Delta, reason string, now time.Time) error {
	stock, err := repos.Stocks().GetForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	if stock == nil {
		return domain.ErrNotFound
	}
	changes, err := inventory.ApplyAll(stock, deltas, reason, now)
	if err != nil {
		return err
	}
	if err := repos.Stocks().Update(ctx, stock); err != nil {
		return err
	}
	for _, ch := range changes {
		if err := repos.StockChanges().Create(ctx, ch); err != nil {
			return err
		}
	}
	return nil
}

// StockUseCase consulta y ajuste manual de stock.
type StockUseCase struct {
	uow     repository.UnitOfWork
	stocks  repository.StockRepository
	changes repository.StockChangeRepository
	now     func() time.Time
}

// NewStockUseCase construye el caso de uso. stocks y changes son los repos fuera de transacción (lecturas).
func NewStockUseCase(uow repository.UnitOfWork, stocks repository.StockRepository, changes repository.StockChangeRepository) *StockUseCase {
	return &StockUseCase{uow: uow, stocks: stocks, changes: changes, now: time.Now}
}

// Get devuelve los contadores de un producto.
func (uc *StockUseCase) Get(ctx context.Context, productID string) (*dto.StockResponse, error) {
	stock, err := uc.stocks.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	return ToStockResponse(stock), nil
}

// Adjust ajusta quantity_available (conteo físico, merma). No puede dejarlo negativo.
func (uc *StockUseCase) Adjust(ctx context.Context, productID, userID string, in dto.StockAdjustmentRequest) (*dto.StockResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	reason := inventory.Reason("manual_adjustment", in.Reason)
	if userID != "" {
		reason += " (" + userID + ")"
	}
	return repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*dto.StockResponse, error) {
		deltas := []inventory.Delta{{Field: entity.StockFieldAvailable, Amount: in.Delta}}
		if err := ApplyDeltas(ctx, repos, productID, deltas, reason, uc.now()); err != nil {
			return nil, err
		}
		stock, err := repos.Stocks().Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		return ToStockResponse(stock), nil
	})
}

// ListChanges lista el libro de cambios del producto, el más reciente primero.
func (uc *StockUseCase) ListChanges(ctx context.Context, productID string, page dto.PageRequest) (*dto.StockChangeListResponse, error) {
	page.DefaultPage()
	list, err := uc.changes.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockChangeResponse, 0, len(list))
	for _, ch := range list {
		items = append(items, dto.StockChangeResponse{
			ID:            ch.ID,
			Field:         ch.Field,
			ChangeType:    ch.ChangeType,
			PreviousValue: ch.PreviousValue,
			NewValue:      ch.NewValue,
			Reason:        ch.Reason,
			CreatedAt:     ch.CreatedAt,
		})
	}
	return &dto.StockChangeListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ToStockResponse convierte la entidad a DTO.
func ToStockResponse(s *entity.Stock) *dto.StockResponse {
	if s == nil {
		return nil
	}
	return &dto.StockResponse{
		ProductID: s.ProductID,
		Available: s.QuantityAvailable,
		Reserved:  s.QuantityReserved,
		Ordered:   s.QuantityOrdered,
		UpdatedAt: s.UpdatedAt,
	}
}
