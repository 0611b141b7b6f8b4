package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
	"github.com/jhoicas/portal-api/internal/domain/sales"
)

// ShipmentUseCase envíos de pedidos. El avance del envío mueve el estado del pedido:
// in_transit → shipped, delivered → delivered.
type ShipmentUseCase struct {
	uow       repository.UnitOfWork
	shipments repository.ShipmentRepository
	orders    *OrderUseCase
}

// NewShipmentUseCase construye el caso de uso.
func NewShipmentUseCase(uow repository.UnitOfWork, shipments repository.ShipmentRepository, orders *OrderUseCase) *ShipmentUseCase {
	return &ShipmentUseCase{uow: uow, shipments: shipments, orders: orders}
}

// Create crea el envío de un pedido confirmado.
func (uc *ShipmentUseCase) Create(ctx context.Context, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	sh, err := repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*entity.Shipment, error) {
		order, err := repos.Orders().GetByID(ctx, in.OrderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, fmt.Errorf("pedido %s: %w", in.OrderID, domain.ErrNotFound)
		}
		if order.Status != entity.OrderConfirmed {
			return nil, fmt.Errorf("el pedido está %s, solo se despachan pedidos confirmados: %w", order.Status, domain.ErrConflict)
		}
		now := uc.orders.now()
		sh := &entity.Shipment{
			ID:             uuid.New().String(),
			OrderID:        in.OrderID,
			Carrier:        in.Carrier,
			TrackingNumber: in.TrackingNumber,
			VehicleID:      in.VehicleID,
			Status:         entity.ShipmentPreparing,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Shipments().Create(ctx, sh); err != nil {
			return nil, err
		}
		return sh, nil
	})
	if err != nil {
		return nil, err
	}
	return ToShipmentResponse(sh), nil
}

// ChangeStatus avanza el envío y, en la misma unidad de trabajo, el pedido asociado.
func (uc *ShipmentUseCase) ChangeStatus(ctx context.Context, id string, in dto.ShipmentStatusRequest) (*dto.ShipmentResponse, error) {
	to := entity.ShipmentStatus(in.Status)
	current, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	var orderTo entity.OrderStatus
	switch {
	case current.Status == entity.ShipmentPreparing && to == entity.ShipmentInTransit:
		orderTo = entity.OrderShipped
	case current.Status == entity.ShipmentInTransit && to == entity.ShipmentDelivered:
		orderTo = entity.OrderDelivered
	default:
		return nil, fmt.Errorf("envío %s → %s: %w", current.Status, to, domain.ErrInvalidTransition)
	}
	order, err := uc.orders.orders.GetByID(ctx, current.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	orderFrom := order.Status
	if !sales.CanTransition(orderFrom, orderTo) {
		return nil, fmt.Errorf("pedido %s → %s: %w", orderFrom, orderTo, domain.ErrInvalidTransition)
	}

	var updatedOrder *entity.Order
	sh, err := repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*entity.Shipment, error) {
		sh, err := repos.Shipments().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if sh == nil {
			return nil, domain.ErrNotFound
		}
		if sh.Status != current.Status {
			return nil, fmt.Errorf("el envío pasó a %s: %w", sh.Status, domain.ErrConflict)
		}
		now := uc.orders.now()
		sh.Status = to
		sh.UpdatedAt = now
		if to == entity.ShipmentInTransit {
			sh.ShippedAt = &now
		} else {
			sh.DeliveredAt = &now
		}
		if err := repos.Shipments().Update(ctx, sh); err != nil {
			return nil, err
		}
		updatedOrder, err = uc.orders.applyStatus(ctx, repos, sh.OrderID, orderFrom, orderTo)
		if err != nil {
			return nil, err
		}
		return sh, nil
	})
	if err != nil {
		return nil, err
	}
	uc.orders.publishStatusChanged(ctx, updatedOrder, orderFrom)
	return ToShipmentResponse(sh), nil
}

// GetByID obtiene un envío.
func (uc *ShipmentUseCase) GetByID(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	sh, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, domain.ErrNotFound
	}
	return ToShipmentResponse(sh), nil
}

// List lista envíos; con orderID filtra por pedido.
func (uc *ShipmentUseCase) List(ctx context.Context, orderID string, page dto.PageRequest) (*dto.ShipmentListResponse, error) {
	page.DefaultPage()
	var list []*entity.Shipment
	var err error
	if orderID != "" {
		list, err = uc.shipments.ListByOrder(ctx, orderID)
	} else {
		list, err = uc.shipments.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShipmentResponse, 0, len(list))
	for _, sh := range list {
		items = append(items, *ToShipmentResponse(sh))
	}
	return &dto.ShipmentListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ToShipmentResponse convierte la entidad a DTO.
func ToShipmentResponse(sh *entity.Shipment) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:             sh.ID,
		OrderID:        sh.OrderID,
		Carrier:        sh.Carrier,
		TrackingNumber: sh.TrackingNumber,
		VehicleID:      sh.VehicleID,
		Status:         string(sh.Status),
		ShippedAt:      sh.ShippedAt,
		DeliveredAt:    sh.DeliveredAt,
		CreatedAt:      sh.CreatedAt,
		UpdatedAt:      sh.UpdatedAt,
	}
}
