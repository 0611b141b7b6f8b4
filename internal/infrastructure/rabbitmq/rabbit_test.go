package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/application/ports"
)

func TestNewPublishing(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	msg, err := newPublishing(ports.RegistrationApproved{Email: "a@x.com", Role: "vendedor"}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)

	var got ports.RegistrationApproved
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "a@x.com", got.Email)
}

func TestNewPublishing_Unmarshalable(t *testing.T) {
	_, err := newPublishing(make(chan int), time.Now())
	assert.Error(t, err)
}

func TestDispatch(t *testing.T) {
	var seen []byte
	handlers := map[string]Handler{
		ports.EventOrderStatusChanged: func(_ context.Context, body []byte) error {
			seen = body
			return nil
		},
		ports.EventRegistrationApproved: func(context.Context, []byte) error {
			return errors.New("smtp down")
		},
	}
	ctx := context.Background()

	require.NoError(t, dispatch(ctx, handlers, ports.EventOrderStatusChanged, []byte(`{}`)))
	assert.Equal(t, []byte(`{}`), seen)
	assert.EqualError(t, dispatch(ctx, handlers, ports.EventRegistrationApproved, nil), "smtp down")
	assert.Error(t, dispatch(ctx, handlers, "unknown.key", nil))
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	require.NoError(t, p.Publish(context.Background(), ports.EventPurchaseOrderOrdered, map[string]string{"id": "po1"}))
	assert.Contains(t, buf.String(), `"routing_key":"purchase_order.ordered"`)
	assert.Contains(t, buf.String(), `"po1"`)
}
