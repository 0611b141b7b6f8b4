// Package sales casos de uso de pedidos de cliente y sus envíos.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/application/dto"
	appinventory "github.com/jhoicas/portal-api/internal/application/inventory"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/inventory"
	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/domain/sales"
)

const (
	reasonOrderCreated   = "order_created"
	reasonOrderCancelled = "order_cancelled"
	reasonOrderDelivered = "order_delivered"
)

// OrderUseCase casos de uso de pedidos.
type OrderUseCase struct {
	uow          repository.UnitOfWork
	orders       repository.OrderRepository
	events       ports.EventPublisher
	onPublishErr func(routingKey string, err error)
	now          func() time.Time
}

// NewOrderUseCase construye el caso de uso. events puede ser nil.
func NewOrderUseCase(uow repository.UnitOfWork, orders repository.OrderRepository, events ports.EventPublisher) *OrderUseCase {
	return &OrderUseCase{uow: uow, orders: orders, events: events, now: time.Now}
}

// OnPublishError recibe los errores de publicación de eventos.
func (uc *OrderUseCase) OnPublishError(fn func(routingKey string, err error)) { uc.onPublishErr = fn }

// Create registra el pedido, su pago y sus líneas, y reserva el stock de cada línea.
// Todo ocurre en una unidad de trabajo: si falta stock no queda nada escrito.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("el pedido no tiene líneas: %w", domain.ErrInvalidInput)
	}
	order, err := repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*entity.Order, error) {
		now := uc.now()
		order := &entity.Order{
			ID:            uuid.New().String(),
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			Address:       in.Address,
			Status:        entity.OrderPending,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, it := range in.Items {
			if it.Quantity <= 0 {
				return nil, domain.ErrInvalidInput
			}
			product, err := repos.Products().GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
			}
			price := product.Price
			if it.UnitPrice != nil {
				price = *it.UnitPrice
			}
			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: price,
			})
		}
		order.TotalAmount = sales.TotalAmount(order.Items)

		if err := repos.Orders().Create(ctx, order); err != nil {
			return nil, err
		}
		for i := range order.Items {
			if err := repos.Orders().CreateItem(ctx, &order.Items[i]); err != nil {
				return nil, err
			}
		}
		payment := &entity.PaymentDetail{
			ID:      uuid.New().String(),
			OrderID: order.ID,
			Method:  in.Payment.Method,
			Amount:  order.TotalAmount,
			Status:  entity.PaymentStatusPending,
		}
		if in.Payment.Paid {
			payment.Status = entity.PaymentStatusPaid
			payment.PaidAt = &now
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return nil, err
		}
		order.Payment = payment

		reason := inventory.Reason(reasonOrderCreated, order.ID)
		for _, it := range order.Items {
			err := appinventory.ApplyDeltas(ctx, repos, it.ProductID, []inventory.Delta{
				{Field: entity.StockFieldAvailable, Amount: -it.Quantity},
				{Field: entity.StockFieldReserved, Amount: it.Quantity},
			}, reason, now)
			if err != nil {
				return nil, fmt.Errorf("reserva de %s: %w", it.ProductID, err)
			}
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ChangeStatus valida la transición antes de escribir y aplica sus efectos en stock:
// cancelar libera la reserva, entregar la consume. No se cancela un pedido con envío.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	to := entity.OrderStatus(status)
	current, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	from := current.Status
	if !sales.CanTransition(from, to) {
		return nil, fmt.Errorf("%s → %s: %w", from, to, domain.ErrInvalidTransition)
	}
	order, err := repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*entity.Order, error) {
		return uc.applyStatus(ctx, repos, id, from, to)
	})
	if err != nil {
		return nil, err
	}
	uc.publishStatusChanged(ctx, order, from)
	return ToOrderResponse(order), nil
}

// applyStatus aplica la transición from → to dentro de una unidad de trabajo ya abierta.
// El llamador debe haber validado la transición.
func (uc *OrderUseCase) applyStatus(ctx context.Context, repos repository.TxRepos, id string, from, to entity.OrderStatus) (*entity.Order, error) {
	order, err := repos.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != from {
		return nil, fmt.Errorf("el pedido pasó a %s: %w", order.Status, domain.ErrConflict)
	}
	if to == entity.OrderCancelled {
		shipments, err := repos.Shipments().ListByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if len(shipments) > 0 {
			return nil, fmt.Errorf("el pedido tiene un envío %s: %w", shipments[0].Status, domain.ErrConflict)
		}
	}
	now := uc.now()
	var reason string
	var deltas func(qty int) []inventory.Delta
	switch to {
	case entity.OrderCancelled:
		reason = reasonOrderCancelled
		deltas = func(qty int) []inventory.Delta {
			return []inventory.Delta{
				{Field: entity.StockFieldAvailable, Amount: qty},
				{Field: entity.StockFieldReserved, Amount: -qty},
			}
		}
	case entity.OrderDelivered:
		reason = reasonOrderDelivered
		deltas = func(qty int) []inventory.Delta {
			return []inventory.Delta{{Field: entity.StockFieldReserved, Amount: -qty}}
		}
	}
	if deltas != nil {
		for _, it := range order.Items {
			err := appinventory.ApplyDeltas(ctx, repos, it.ProductID, deltas(it.Quantity), inventory.Reason(reason, order.ID), now)
			if err != nil {
				return nil, fmt.Errorf("stock de %s: %w", it.ProductID, err)
			}
		}
	}
	if to == entity.OrderCancelled && order.Payment != nil && order.Payment.Status == entity.PaymentStatusPaid {
		order.Payment.Status = entity.PaymentStatusRefunded
		if err := repos.Payments().Update(ctx, order.Payment); err != nil {
			return nil, err
		}
	}
	order.Status = to
	order.UpdatedAt = now
	if err := repos.Orders().Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *OrderUseCase) publishStatusChanged(ctx context.Context, order *entity.Order, from entity.OrderStatus) {
	if uc.events == nil {
		return
	}
	err := uc.events.Publish(ctx, ports.EventOrderStatusChanged, ports.OrderStatusChanged{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		From:          string(from),
		To:            string(order.Status),
		TotalAmount:   order.TotalAmount.StringFixed(2),
		ChangedAt:     order.UpdatedAt,
	})
	if err != nil && uc.onPublishErr != nil {
		uc.onPublishErr(ports.EventOrderStatusChanged, err)
	}
}

// GetByID devuelve el pedido con líneas y pago.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return ToOrderResponse(order), nil
}

// List lista pedidos, el más reciente primero.
func (uc *OrderUseCase) List(ctx context.Context, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	list, err := uc.orders.List(ctx, repository.OrderFilter{
		Status: entity.OrderStatus(in.Status),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// ToOrderResponse convierte la entidad a DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Address:       o.Address,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if p := o.Payment; p != nil {
		out.Payment = &dto.PaymentResponse{ID: p.ID, Method: p.Method, Amount: p.Amount, Status: p.Status, PaidAt: p.PaidAt}
	}
	return out
}
