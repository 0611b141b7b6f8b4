package dto

import "time"

// CreateShipmentRequest entrada para crear el envío de un pedido confirmado.
type CreateShipmentRequest struct {
	OrderID        string `json:"order_id" validate:"required,uuid"`
	Carrier        string `json:"carrier" validate:"required,max=100"`
	TrackingNumber string `json:"tracking_number" validate:"max=100"`
	VehicleID      string `json:"vehicle_id" validate:"omitempty,uuid"`
}

// ShipmentStatusRequest avance del envío.
type ShipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_transit delivered"`
}

// ShipmentResponse salida de un envío.
type ShipmentResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	VehicleID      string     `json:"vehicle_id,omitempty"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ShipmentListResponse lista paginada de envíos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
