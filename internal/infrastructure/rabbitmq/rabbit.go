// Package rabbitmq publica y consume eventos de dominio sobre un exchange topic.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/pkg/config"
)

var _ ports.EventPublisher = (*Rabbit)(nil)

// Rabbit conexión y canal AMQP sobre un exchange topic durable.
type Rabbit struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex // un canal no admite publicaciones concurrentes intercaladas
	log      zerolog.Logger
}

// Dial abre la conexión y declara el exchange.
func Dial(cfg config.RabbitMQConfig, log zerolog.Logger) (*Rabbit, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	return &Rabbit{conn: conn, ch: ch, exchange: cfg.Exchange, log: log}, nil
}

// Close cierra canal y conexión.
func (r *Rabbit) Close() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// Publish serializa payload a JSON y lo publica con la routing key dada.
func (r *Rabbit) Publish(ctx context.Context, routingKey string, payload any) error {
	msg, err := newPublishing(payload, time.Now())
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, err)
	}
	r.log.Debug().Str("routing_key", routingKey).Msg("evento publicado")
	return nil
}

func newPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}, nil
}

// Handler procesa el cuerpo de un mensaje con una routing key concreta.
type Handler func(ctx context.Context, body []byte) error

// Consume declara la cola durable, la enlaza a cada routing key de handlers y procesa
// los mensajes en una sola goroutine hasta que ctx se cancela o el canal se cierra.
// Un handler que falla provoca Nack sin reencolar; un mensaje sin handler se descarta.
func (r *Rabbit) Consume(ctx context.Context, queue string, handlers map[string]Handler) error {
	q, err := r.ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	for rk := range handlers {
		if err := r.ch.QueueBind(q.Name, rk, r.exchange, false, nil); err != nil {
			return fmt.Errorf("rabbitmq queue bind %s: %w", rk, err)
		}
	}
	msgs, err := r.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq: canal de entregas cerrado")
			}
			if err := dispatch(ctx, handlers, d.RoutingKey, d.Body); err != nil {
				r.log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("error procesando evento")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func dispatch(ctx context.Context, handlers map[string]Handler, routingKey string, body []byte) error {
	h, ok := handlers[routingKey]
	if !ok {
		return fmt.Errorf("sin handler para %q", routingKey)
	}
	return h(ctx, body)
}

// LogPublisher publicador usado cuando no hay broker configurado: solo registra el evento.
type LogPublisher struct {
	log zerolog.Logger
}

var _ ports.EventPublisher = LogPublisher{}

// NewLogPublisher crea el publicador de respaldo.
func NewLogPublisher(log zerolog.Logger) LogPublisher {
	return LogPublisher{log: log}
}

// Publish registra el evento en el log.
func (p LogPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.log.Info().Str("routing_key", routingKey).Interface("payload", payload).Msg("evento (sin broker)")
	return nil
}
