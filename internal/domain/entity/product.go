package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Su stock vive en Stock (1:1).
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	ImageURL    string          // miniatura usada en reportes
	SupplierID  string          // proveedor habitual (opcional)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
