// Package inventory servicio de dominio para mutar los contadores de Stock.
// Cada mutación produce exactamente un StockChange para el libro append-only.
package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// Adjust suma delta al campo indicado de stock y devuelve el StockChange correspondiente.
// Un delta cero es inválido (no hay cambio que auditar). Un resultado negativo devuelve
// ErrInsufficientStock y deja stock intacto.
func Adjust(stock *entity.Stock, field string, delta int, reason string, now time.Time) (*entity.StockChange, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	prev, ok := stock.Get(field)
	if !ok {
		return nil, fmt.Errorf("campo de stock desconocido %q: %w", field, domain.ErrInvalidInput)
	}
	next := prev + delta
	if next < 0 {
		return nil, domain.ErrInsufficientStock
	}
	stock.Set(field, next)
	stock.UpdatedAt = now

	changeType := entity.StockChangeIncrease
	if delta < 0 {
		changeType = entity.StockChangeDecrease
	}
	return &entity.StockChange{
		ProductID:     stock.ProductID,
		Field:         field,
		ChangeType:    changeType,
		PreviousValue: prev,
		NewValue:      next,
		Reason:        reason,
		CreatedAt:     now,
	}, nil
}

// Delta un ajuste pendiente sobre un campo.
type Delta struct {
	Field  string
	Amount int
}

// ApplyAll aplica los deltas en orden. Si alguno falla, stock queda como estaba.
func ApplyAll(stock *entity.Stock, deltas []Delta, reason string, now time.Time) ([]*entity.StockChange, error) {
	snapshot := *stock
	changes := make([]*entity.StockChange, 0, len(deltas))
	for _, d := range deltas {
		ch, err := Adjust(stock, d.Field, d.Amount, reason, now)
		if err != nil {
			*stock = snapshot
			return nil, err
		}
		changes = append(changes, ch)
	}
	return changes, nil
}

// Reason construye el motivo estándar "<evento>:<referencia>".
func Reason(event, ref string) string {
	return event + ":" + ref
}
