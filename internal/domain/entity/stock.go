package entity

import "time"

// Campos de Stock que pueden mutar; cada mutación genera un StockChange.
const (
	StockFieldAvailable = "available"
	StockFieldReserved  = "reserved"
	StockFieldOrdered   = "ordered"
)

// Stock contadores por producto: disponible, reservado (pedidos) y ordenado (órdenes de compra).
type Stock struct {
	ProductID         string
	QuantityAvailable int
	QuantityReserved  int
	QuantityOrdered   int
	UpdatedAt         time.Time
}

// Get devuelve el valor del campo indicado.
func (s *Stock) Get(field string) (int, bool) {
	switch field {
	case StockFieldAvailable:
		return s.QuantityAvailable, true
	case StockFieldReserved:
		return s.QuantityReserved, true
	case StockFieldOrdered:
		return s.QuantityOrdered, true
	}
	return 0, false
}

// Set asigna el valor del campo indicado.
func (s *Stock) Set(field string, value int) bool {
	switch field {
	case StockFieldAvailable:
		s.QuantityAvailable = value
	case StockFieldReserved:
		s.QuantityReserved = value
	case StockFieldOrdered:
		s.QuantityOrdered = value
	default:
		return false
	}
	return true
}
