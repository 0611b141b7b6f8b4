package entity

import "time"

// Tipos de cambio registrados en el libro de stock.
const (
	StockChangeIncrease = "increase"
	StockChangeDecrease = "decrease"
)

// StockChange registro inmutable de una mutación de un campo de Stock (libro append-only).
type StockChange struct {
	ID            string
	ProductID     string
	Field         string // available, reserved, ordered
	ChangeType    string // increase, decrease
	PreviousValue int
	NewValue      int
	Reason        string // ej: "purchase_order_received:<id>"
	CreatedAt     time.Time
}
