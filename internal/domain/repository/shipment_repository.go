package repository

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// ShipmentRepository persistencia de envíos.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error
	List(ctx context.Context, limit, offset int) ([]*entity.Shipment, error)
}
