package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleRequest entrada para crear o reemplazar un vehículo.
type VehicleRequest struct {
	Plate   string `json:"plate" validate:"required,min=3,max=20"`
	Brand   string `json:"brand" validate:"required,max=100"`
	Model   string `json:"model" validate:"required,max=100"`
	Year    int    `json:"year" validate:"required,min=1950,max=2100"`
	Mileage int    `json:"mileage" validate:"min=0"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID        string    `json:"id"`
	Plate     string    `json:"plate"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Mileage   int       `json:"mileage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleListResponse lista paginada de vehículos.
type VehicleListResponse struct {
	Items []VehicleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// MaintenanceRequest registro de mantenimiento.
type MaintenanceRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Mileage     int             `json:"mileage" validate:"min=0"`
	Date        *time.Time      `json:"date"`
}

// MaintenanceResponse salida de un mantenimiento.
type MaintenanceResponse struct {
	ID          string          `json:"id"`
	VehicleID   string          `json:"vehicle_id"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Mileage     int             `json:"mileage"`
	Date        time.Time       `json:"date"`
}
