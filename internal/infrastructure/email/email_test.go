package email

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/application/ports"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(msg *Message) error {
	return m.Called(msg).Error(0)
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("Portal")
	require.NoError(t, err)
	return r
}

func TestRenderer_Money(t *testing.T) {
	r := newRenderer(t)
	assert.Contains(t, r.Money("1234567.5"), "567,50")
	assert.Equal(t, "n/a", r.Money("n/a"))
}

func TestRenderer_OrderStatusChanged(t *testing.T) {
	r := newRenderer(t)
	msg, err := r.OrderStatusChanged(ports.OrderStatusChanged{
		OrderID: "0123456789abcdef", CustomerName: "Ana <script>", CustomerEmail: "ana@x.com",
		From: "pending", To: "shipped", TotalAmount: "25.00",
		ChangedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@x.com", msg.To)
	assert.Equal(t, "Su pedido 01234567 está Enviado", msg.Subject)
	assert.Contains(t, msg.HTML, "Pendiente")
	assert.Contains(t, msg.HTML, "03/02/2024")
	assert.Contains(t, msg.HTML, "25,00")
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestRenderer_PurchaseOrder(t *testing.T) {
	r := newRenderer(t)
	eta := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	msg, err := r.PurchaseOrder(ports.PurchaseOrderOrdered{
		PurchaseOrderID: "po-1", SupplierName: "ACME", SupplierEmail: "acme@x.com", TotalAmount: "25",
		EstimatedDeliveryDate: &eta,
		Lines: []ports.PurchaseOrderLine{
			{SKU: "A", Name: "Tornillo", Quantity: 2, UnitPrice: "10"},
			{SKU: "B", Name: "Tuerca", Quantity: 1, UnitPrice: "5"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "acme@x.com", msg.To)
	assert.Contains(t, msg.HTML, "Tornillo")
	assert.Contains(t, msg.HTML, "Tuerca")
	assert.Contains(t, msg.HTML, "01/06/2024")
}

func TestNotifier_RegistrationApproved(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.MatchedBy(func(m *Message) bool {
		return m.To == "new@x.com" && len(m.HTML) > 0
	})).Return(nil).Once()
	n := NewNotifier(newRenderer(t), sender, zerolog.Nop())

	body, _ := json.Marshal(ports.RegistrationApproved{Email: "new@x.com", Name: "Nuevo", Role: "vendedor", TemporaryPassword: "tmp"})
	require.NoError(t, n.HandleRegistrationApproved(context.Background(), body))
	sender.AssertExpectations(t)
}

func TestNotifier_SenderErrorIsReturned(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(errors.New("smtp down"))
	n := NewNotifier(newRenderer(t), sender, zerolog.Nop())

	body, _ := json.Marshal(ports.OrderStatusChanged{OrderID: "o1", CustomerEmail: "c@x.com", To: "confirmed"})
	assert.EqualError(t, n.HandleOrderStatusChanged(context.Background(), body), "smtp down")
}

func TestNotifier_SkipsWithoutRecipient(t *testing.T) {
	sender := &mockSender{}
	n := NewNotifier(newRenderer(t), sender, zerolog.Nop())

	body, _ := json.Marshal(ports.PurchaseOrderOrdered{PurchaseOrderID: "po-1"})
	require.NoError(t, n.HandlePurchaseOrderOrdered(context.Background(), body))
	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestNotifier_InvalidJSON(t *testing.T) {
	n := NewNotifier(newRenderer(t), &mockSender{}, zerolog.Nop())
	assert.Error(t, n.HandleOrderStatusChanged(context.Background(), []byte("{")))
}
