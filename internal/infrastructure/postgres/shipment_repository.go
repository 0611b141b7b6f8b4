package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `id, order_id, carrier, tracking_number, vehicle_id, status, shipped_at, delivered_at, created_at, updated_at`

// ShipmentRepo envíos sobre PostgreSQL.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipments (`+shipmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.OrderID, s.Carrier, s.TrackingNumber, nullString(s.VehicleID), string(s.Status),
		s.ShippedAt, s.DeliveredAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return s, nil
}

func (r *ShipmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error) {
	return r.list(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE order_id = $1 ORDER BY created_at`, orderID)
}

func (r *ShipmentRepo) List(ctx context.Context, limit, offset int) ([]*entity.Shipment, error) {
	return r.list(ctx, `SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments SET carrier = $2, tracking_number = $3, vehicle_id = $4, status = $5,
			shipped_at = $6, delivered_at = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Carrier, s.TrackingNumber, nullString(s.VehicleID), string(s.Status), s.ShippedAt, s.DeliveredAt, s.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ShipmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	var vehicleID *string
	var status string
	if err := row.Scan(&s.ID, &s.OrderID, &s.Carrier, &s.TrackingNumber, &vehicleID, &status,
		&s.ShippedAt, &s.DeliveredAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.VehicleID = derefString(vehicleID)
	s.Status = entity.ShipmentStatus(status)
	return &s, nil
}
