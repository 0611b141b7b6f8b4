package email

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/pkg/config"
)

// Sender entrega un Message ya renderizado.
type Sender interface {
	Send(msg *Message) error
}

// SMTPSender envía correos con gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el sender. Sin usuario no se autentica (útil con MailHog/Mailpit).
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send arma el mensaje MIME y lo envía.
func (s *SMTPSender) Send(msg *Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// Notifier traduce eventos de dominio a correos.
type Notifier struct {
	renderer *Renderer
	sender   Sender
	log      zerolog.Logger
}

// NewNotifier construye el notificador.
func NewNotifier(renderer *Renderer, sender Sender, log zerolog.Logger) *Notifier {
	return &Notifier{renderer: renderer, sender: sender, log: log}
}

// HandleOrderStatusChanged procesa order.status_changed.
func (n *Notifier) HandleOrderStatusChanged(_ context.Context, body []byte) error {
	var ev ports.OrderStatusChanged
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", ports.EventOrderStatusChanged, err)
	}
	if ev.CustomerEmail == "" {
		n.log.Warn().Str("order_id", ev.OrderID).Msg("pedido sin email de cliente, no se notifica")
		return nil
	}
	return n.deliver(n.renderer.OrderStatusChanged(ev))
}

// HandlePurchaseOrderOrdered procesa purchase_order.ordered.
func (n *Notifier) HandlePurchaseOrderOrdered(_ context.Context, body []byte) error {
	var ev ports.PurchaseOrderOrdered
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", ports.EventPurchaseOrderOrdered, err)
	}
	if ev.SupplierEmail == "" {
		n.log.Warn().Str("purchase_order_id", ev.PurchaseOrderID).Msg("proveedor sin email, no se notifica")
		return nil
	}
	return n.deliver(n.renderer.PurchaseOrder(ev))
}

// HandleRegistrationApproved procesa registration.approved.
func (n *Notifier) HandleRegistrationApproved(_ context.Context, body []byte) error {
	var ev ports.RegistrationApproved
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", ports.EventRegistrationApproved, err)
	}
	return n.deliver(n.renderer.RegistrationApproved(ev))
}

func (n *Notifier) deliver(msg *Message, err error) error {
	if err != nil {
		return err
	}
	if err := n.sender.Send(msg); err != nil {
		return err
	}
	n.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("correo enviado")
	return nil
}
