// Package email renderiza las plantillas HTML de notificación y las envía por SMTP.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/portal-api/internal/application/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

// Nombres de plantilla.
const (
	TemplateOrderStatusChanged   = "order_status_changed.html"
	TemplatePurchaseOrder        = "purchase_order.html"
	TemplateRegistrationApproved = "registration_approved.html"
)

var statusLabels = map[string]string{
	"pending":   "Pendiente",
	"confirmed": "Confirmado",
	"shipped":   "Enviado",
	"delivered": "Entregado",
	"cancelled": "Cancelado",
}

// Renderer plantillas parseadas una sola vez.
type Renderer struct {
	appName string
	tmpl    *template.Template
	printer *message.Printer
}

// NewRenderer parsea las plantillas embebidas. Los montos se formatean en español.
func NewRenderer(appName string) (*Renderer, error) {
	r := &Renderer{appName: appName, printer: message.NewPrinter(language.Spanish)}
	tmpl, err := template.New("email").Funcs(template.FuncMap{
		"money":       r.Money,
		"date":        func(t time.Time) string { return t.Format("02/01/2006") },
		"statusLabel": statusLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Money formatea un monto decimal (string) con separadores locales: "$ 1.234,50".
// Un valor que no es número se devuelve tal cual.
func (r *Renderer) Money(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return "$ " + r.printer.Sprintf("%.2f", d.InexactFloat64())
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

type page struct {
	AppName string
	Subject string
	Data    any
}

// Message correo listo para enviar.
type Message struct {
	To      string
	Subject string
	HTML    string
}

func (r *Renderer) render(name, to, subject string, data any) (*Message, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, page{AppName: r.appName, Subject: subject, Data: data}); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return &Message{To: to, Subject: subject, HTML: buf.String()}, nil
}

// OrderStatusChanged correo al cliente cuando su pedido cambia de estado.
func (r *Renderer) OrderStatusChanged(ev ports.OrderStatusChanged) (*Message, error) {
	subject := fmt.Sprintf("Su pedido %s está %s", shortID(ev.OrderID), statusLabel(ev.To))
	return r.render(TemplateOrderStatusChanged, ev.CustomerEmail, subject, ev)
}

// PurchaseOrder correo al proveedor con la orden de compra emitida.
func (r *Renderer) PurchaseOrder(ev ports.PurchaseOrderOrdered) (*Message, error) {
	subject := fmt.Sprintf("Orden de compra %s", shortID(ev.PurchaseOrderID))
	return r.render(TemplatePurchaseOrder, ev.SupplierEmail, subject, ev)
}

// RegistrationApproved correo con las credenciales temporales del nuevo usuario.
func (r *Renderer) RegistrationApproved(ev ports.RegistrationApproved) (*Message, error) {
	return r.render(TemplateRegistrationApproved, ev.Email, "Su acceso al portal fue aprobado", ev)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
