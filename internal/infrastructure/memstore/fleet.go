package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*vehicleRepo)(nil)

type vehicleRepo struct{ db access }

func (r *vehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.vehicles[v.ID]; ok {
			return domain.ErrDuplicate
		}
		if plateTaken(s, v.Plate, v.ID) {
			return domain.ErrDuplicate
		}
		s.vehicles[v.ID] = *v
		return nil
	})
}

func plateTaken(s *state, plate, exceptID string) bool {
	for id, v := range s.vehicles {
		if id != exceptID && strings.EqualFold(v.Plate, plate) {
			return true
		}
	}
	return false
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	var out *entity.Vehicle
	err := r.db.read(ctx, func(s *state) error {
		if v, ok := s.vehicles[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *vehicleRepo) GetByPlate(ctx context.Context, plate string) (*entity.Vehicle, error) {
	var out *entity.Vehicle
	err := r.db.read(ctx, func(s *state) error {
		for _, v := range s.vehicles {
			if strings.EqualFold(v.Plate, plate) {
				v := v
				out = &v
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *vehicleRepo) Update(ctx context.Context, v *entity.Vehicle) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.vehicles[v.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if plateTaken(s, v.Plate, v.ID) {
			return domain.ErrDuplicate
		}
		v.CreatedAt = cur.CreatedAt
		s.vehicles[v.ID] = *v
		return nil
	})
}

func (r *vehicleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Vehicle, error) {
	var out []*entity.Vehicle
	err := r.db.read(ctx, func(s *state) error {
		list := make([]entity.Vehicle, 0, len(s.vehicles))
		for _, v := range s.vehicles {
			list = append(list, v)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Plate < list[j].Plate })
		for _, v := range page(list, limit, offset) {
			v := v
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

// Delete borra el vehículo y su historial de mantenimiento.
func (r *vehicleRepo) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.vehicles[id]; !ok {
			return domain.ErrNotFound
		}
		for _, sh := range s.shipments {
			if sh.VehicleID == id {
				return domain.ErrConflict
			}
		}
		delete(s.vehicles, id)
		kept := s.maintenances[:0]
		for _, m := range s.maintenances {
			if m.VehicleID != id {
				kept = append(kept, m)
			}
		}
		s.maintenances = kept
		return nil
	})
}

func (r *vehicleRepo) CreateMaintenance(ctx context.Context, m *entity.Maintenance) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.vehicles[m.VehicleID]; !ok {
			return domain.ErrNotFound
		}
		s.maintenances = append(s.maintenances, *m)
		return nil
	})
}

// ListMaintenance historial del vehículo, el más reciente primero.
func (r *vehicleRepo) ListMaintenance(ctx context.Context, vehicleID string) ([]*entity.Maintenance, error) {
	var out []*entity.Maintenance
	err := r.db.read(ctx, func(s *state) error {
		for _, m := range s.maintenances {
			if m.VehicleID == vehicleID {
				m := m
				out = append(out, &m)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		return nil
	})
	return out, err
}
