package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductSales ventas agregadas de un producto en un período.
type ProductSales struct {
	ProductID   string
	SKU         string
	ProductName string
	ImageURL    string
	UnitsSold   int
	Revenue     decimal.Decimal
}

// SalesSummary totales de pedidos no cancelados en un período.
type SalesSummary struct {
	OrderCount  int
	Revenue     decimal.Decimal
	TopProducts []ProductSales
}

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	// SalesSummary agrega pedidos con created_at en [from, to) excluyendo cancelados.
	// limit controla cuántos productos devolver en TopProducts (orden por revenue desc).
	SalesSummary(ctx context.Context, from, to time.Time, limit int) (*SalesSummary, error)
}
