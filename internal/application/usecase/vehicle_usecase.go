package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

// VehicleUseCase flota de reparto y su historial de mantenimiento.
type VehicleUseCase struct {
	repo repository.VehicleRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo}
}

// Create registra un vehículo; la placa es única (ErrDuplicate).
func (uc *VehicleUseCase) Create(ctx context.Context, in dto.VehicleRequest) (*dto.VehicleResponse, error) {
	existing, err := uc.repo.GetByPlate(ctx, in.Plate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:        uuid.New().String(),
		Plate:     in.Plate,
		Brand:     in.Brand,
		Model:     in.Model,
		Year:      in.Year,
		Mileage:   in.Mileage,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

func (uc *VehicleUseCase) GetByID(ctx context.Context, id string) (*dto.VehicleResponse, error) {
	v, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

func (uc *VehicleUseCase) Update(ctx context.Context, id string, in dto.VehicleRequest) (*dto.VehicleResponse, error) {
	v, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Plate, v.Brand, v.Model, v.Year, v.Mileage = in.Plate, in.Brand, in.Model, in.Year, in.Mileage
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

func (uc *VehicleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.VehicleListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return &dto.VehicleListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func (uc *VehicleUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// AddMaintenance registra un mantenimiento. Si el kilometraje reportado supera el del
// vehículo, el vehículo se actualiza.
func (uc *VehicleUseCase) AddMaintenance(ctx context.Context, vehicleID string, in dto.MaintenanceRequest) (*dto.MaintenanceResponse, error) {
	v, err := uc.get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	m := &entity.Maintenance{
		ID:          uuid.New().String(),
		VehicleID:   vehicleID,
		Description: in.Description,
		Cost:        in.Cost,
		Mileage:     in.Mileage,
		Date:        date,
		CreatedAt:   now,
	}
	if err := uc.repo.CreateMaintenance(ctx, m); err != nil {
		return nil, err
	}
	if in.Mileage > v.Mileage {
		v.Mileage = in.Mileage
		v.UpdatedAt = now
		if err := uc.repo.Update(ctx, v); err != nil {
			return nil, err
		}
	}
	return toMaintenanceResponse(m), nil
}

// ListMaintenance historial del vehículo, el más reciente primero.
func (uc *VehicleUseCase) ListMaintenance(ctx context.Context, vehicleID string) ([]dto.MaintenanceResponse, error) {
	if _, err := uc.get(ctx, vehicleID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListMaintenance(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaintenanceResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMaintenanceResponse(m))
	}
	return out, nil
}

func (uc *VehicleUseCase) get(ctx context.Context, id string) (*entity.Vehicle, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:        v.ID,
		Plate:     v.Plate,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		Mileage:   v.Mileage,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toMaintenanceResponse(m *entity.Maintenance) *dto.MaintenanceResponse {
	return &dto.MaintenanceResponse{
		ID:          m.ID,
		VehicleID:   m.VehicleID,
		Description: m.Description,
		Cost:        m.Cost,
		Mileage:     m.Mileage,
		Date:        m.Date,
	}
}
