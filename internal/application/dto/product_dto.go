package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en cero.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	SupplierID  string          `json:"supplier_id" validate:"omitempty,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto (el SKU no cambia; el stock vía ajustes).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto con su stock.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Stock       *StockResponse  `json:"stock,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockResponse contadores de stock de un producto.
type StockResponse struct {
	ProductID string    `json:"product_id"`
	Available int       `json:"quantity_available"`
	Reserved  int       `json:"quantity_reserved"`
	Ordered   int       `json:"quantity_ordered"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockAdjustmentRequest ajuste manual (conteo físico, merma) del stock disponible.
type StockAdjustmentRequest struct {
	Delta  int    `json:"delta" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// StockChangeResponse una fila del libro de cambios de stock.
type StockChangeResponse struct {
	ID            string    `json:"id"`
	Field         string    `json:"field"`
	ChangeType    string    `json:"change_type"`
	PreviousValue int       `json:"previous_value"`
	NewValue      int       `json:"new_value"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockChangeListResponse lista paginada del libro de stock.
type StockChangeListResponse struct {
	Items []StockChangeResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
