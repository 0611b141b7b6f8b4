package entity

import "time"

// ShipmentStatus estado de un envío.
type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "preparing"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
)

// Shipment envío de un pedido, opcionalmente asignado a un vehículo propio.
type Shipment struct {
	ID             string
	OrderID        string
	Carrier        string
	TrackingNumber string
	VehicleID      string
	Status         ShipmentStatus
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
