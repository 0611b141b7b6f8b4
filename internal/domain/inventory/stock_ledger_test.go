package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/inventory"
)

func TestAdjust_Incremento(t *testing.T) {
	now := time.Now()
	s := &entity.Stock{ProductID: "p1", QuantityAvailable: 4}

	ch, err := inventory.Adjust(s, entity.StockFieldAvailable, 5, "test:1", now)
	require.NoError(t, err)

	assert.Equal(t, 9, s.QuantityAvailable)
	assert.Equal(t, entity.StockChangeIncrease, ch.ChangeType)
	assert.Equal(t, 4, ch.PreviousValue)
	assert.Equal(t, 9, ch.NewValue)
	assert.Equal(t, "p1", ch.ProductID)
	assert.Equal(t, "test:1", ch.Reason)
}

func TestAdjust_NoPermiteNegativos(t *testing.T) {
	s := &entity.Stock{ProductID: "p1", QuantityOrdered: 2}

	_, err := inventory.Adjust(s, entity.StockFieldOrdered, -3, "x", time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, s.QuantityOrdered, "el stock no debe cambiar")
}

func TestAdjust_CampoDesconocidoODeltaCero(t *testing.T) {
	s := &entity.Stock{ProductID: "p1"}
	_, err := inventory.Adjust(s, "otro", 1, "x", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Adjust(s, entity.StockFieldAvailable, 0, "x", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyAll_RestauraSiFalla(t *testing.T) {
	s := &entity.Stock{ProductID: "p1", QuantityAvailable: 1, QuantityReserved: 0}

	_, err := inventory.ApplyAll(s, []inventory.Delta{
		{Field: entity.StockFieldAvailable, Amount: 5},
		{Field: entity.StockFieldReserved, Amount: -1},
	}, "x", time.Now())

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, s.QuantityAvailable)
	assert.Equal(t, 0, s.QuantityReserved)
}

func TestApplyAll_UnCambioPorCampo(t *testing.T) {
	s := &entity.Stock{ProductID: "p1", QuantityOrdered: 5}

	changes, err := inventory.ApplyAll(s, []inventory.Delta{
		{Field: entity.StockFieldAvailable, Amount: 5},
		{Field: entity.StockFieldOrdered, Amount: -5},
	}, inventory.Reason("purchase_order_received", "po1"), time.Now())

	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, entity.StockFieldAvailable, changes[0].Field)
	assert.Equal(t, entity.StockFieldOrdered, changes[1].Field)
	assert.Equal(t, "purchase_order_received:po1", changes[1].Reason)
	assert.Equal(t, 5, s.QuantityAvailable)
	assert.Equal(t, 0, s.QuantityOrdered)
}
