package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportRequest período del reporte (fechas YYYY-MM-DD, to inclusive).
type SalesReportRequest struct {
	From string `query:"from" validate:"required,datetime=2006-01-02"`
	To   string `query:"to" validate:"required,datetime=2006-01-02"`
	Top  int    `query:"top" validate:"min=0,max=50"`
}

// ProductSalesResponse ventas de un producto.
type ProductSalesResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReportResponse resumen de ventas del período.
type SalesReportResponse struct {
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	OrderCount  int                    `json:"order_count"`
	Revenue     decimal.Decimal        `json:"revenue"`
	TopProducts []ProductSalesResponse `json:"top_products"`
}
