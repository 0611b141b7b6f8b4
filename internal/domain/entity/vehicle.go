package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle vehículo de la flota de reparto.
type Vehicle struct {
	ID        string
	Plate     string // placa única
	Brand     string
	Model     string
	Year      int
	Mileage   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Maintenance registro de mantenimiento de un vehículo.
type Maintenance struct {
	ID          string
	VehicleID   string
	Description string
	Cost        decimal.Decimal
	Mileage     int
	Date        time.Time
	CreatedAt   time.Time
}
