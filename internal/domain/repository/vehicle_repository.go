package repository

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// VehicleRepository persistencia de vehículos y su historial de mantenimiento.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*entity.Vehicle, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
	List(ctx context.Context, limit, offset int) ([]*entity.Vehicle, error)
	Delete(ctx context.Context, id string) error

	CreateMaintenance(ctx context.Context, m *entity.Maintenance) error
	ListMaintenance(ctx context.Context, vehicleID string) ([]*entity.Maintenance, error)
}
