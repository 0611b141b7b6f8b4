// Package pdf genera con Maroto v2 los documentos imprimibles del portal:
// la orden de compra que se envía al proveedor y el reporte de ventas de un período.
//
// Layout de la orden de compra (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Portal + "ORDEN DE COMPRA"  │  N° + Fecha + Estado  │
//	│  PROVEEDOR: Nombre / Email / Tel / Dirección                 │
//	│  TABLA: SKU | Producto | Cant | P.Unit | Subtotal            │
//	│  TOTAL                                                       │
//	│  QR con el id de la orden + entrega estimada                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"net/http"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[entity.PurchaseOrderStatus]string{
	entity.PurchaseOrderDraft:     "BORRADOR",
	entity.PurchaseOrderOrdered:   "ORDENADA",
	entity.PurchaseOrderCancelled: "CANCELADA",
	entity.PurchaseOrderReceived:  "RECIBIDA",
	entity.PurchaseOrderDeleted:   "ELIMINADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.appName, true).
		Build()
	return maroto.New(cfg)
}

// PurchaseOrderPDF genera el PDF de una orden de compra y devuelve sus bytes.
func (g *MarotoPDFGenerator) PurchaseOrderPDF(doc *ports.PurchaseOrderDocument) ([]byte, error) {
	if doc == nil || doc.Order == nil {
		return nil, fmt.Errorf("pdf: orden de compra vacía")
	}
	po := doc.Order
	m := g.newDocument("Orden de compra " + po.ID)

	m.AddRows(g.purchaseOrderHeader(po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if doc.Supplier != nil {
		m.AddRows(supplierRow(doc.Supplier))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(
		heading{"SKU", 2, align.Left},
		heading{"Producto", 4, align.Left},
		heading{"Cant.", 1, align.Center},
		heading{"Precio Unit.", 2, align.Right},
		heading{"Subtotal", 3, align.Right},
	))
	m.AddRows(itemRows(po.Items, doc.Products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("TOTAL:", po.TotalAmount))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(po))

	return generate(m)
}

// headerRow: nombre del portal (izq) y N° + fecha + estado (der).
func (g *MarotoPDFGenerator) purchaseOrderHeader(po *entity.PurchaseOrder) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("ORDEN DE COMPRA", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(statusLabels[po.Status], props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+shortID(po.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+po.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   Dirección: %s",
				nonEmpty(s.Email, "—"), nonEmpty(s.Phone, "—"), nonEmpty(s.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func itemRows(items []entity.PurchaseOrderItem, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		sku, name := "—", it.ProductID
		if p, ok := products[it.ProductID]; ok && p != nil {
			sku, name = p.SKU, p.Name
		}
		subtotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRow: QR con el id de la orden y fecha estimada de entrega.
func footerRow(po *entity.PurchaseOrder) core.Row {
	eta := "Entrega estimada: por confirmar"
	if po.EstimatedDeliveryDate != nil {
		eta = "Entrega estimada: " + po.EstimatedDeliveryDate.Format("02/01/2006")
	}
	if po.EffectiveDeliveryDate != nil {
		eta += "\nRecibida: " + po.EffectiveDeliveryDate.Format("02/01/2006")
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(po.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(eta, props.Text{Size: 9, Top: 4, Left: 3}),
			text.New(nonEmpty(po.Notes, ""), props.Text{Size: 8, Top: 16, Left: 3, Color: colorGray}),
		),
	)
}

// SalesReportPDF genera el reporte de ventas con miniaturas de los productos más vendidos.
func (g *MarotoPDFGenerator) SalesReportPDF(doc *ports.SalesReportDocument) ([]byte, error) {
	if doc == nil || doc.Summary == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	m := g.newDocument("Reporte de ventas")

	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("REPORTE DE VENTAS", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Período: %s – %s", doc.From, doc.To), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Pedidos: %d", doc.Summary.OrderCount), props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 3,
		})),
		col.New(6).Add(text.New("Ingresos: "+formatMoney(doc.Summary.Revenue), props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 3, Align: align.Right,
		})),
	))

	m.AddRows(tableHeaderRow(
		heading{"", 2, align.Center},
		heading{"SKU", 2, align.Left},
		heading{"Producto", 4, align.Left},
		heading{"Unidades", 1, align.Center},
		heading{"Ingresos", 3, align.Right},
	))
	for _, ps := range doc.Summary.TopProducts {
		m.AddRows(salesRow(ps.ProductID, ps.SKU, ps.ProductName, ps.UnitsSold, ps.Revenue, doc.Images[ps.ProductID]))
	}
	return generate(m)
}

func salesRow(productID, sku, name string, units int, revenue decimal.Decimal, img []byte) core.Row {
	thumb := col.New(2)
	if ext, ok := imageExtension(img); ok {
		thumb.Add(image.NewFromBytes(img, ext, props.Rect{Percent: 90, Center: true}))
	}
	return row.New(16).Add(
		thumb,
		col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 6, Left: 1})),
		col.New(4).Add(text.New(nonEmpty(name, productID), props.Text{Size: 8, Top: 6, Left: 1})),
		col.New(1).Add(text.New(fmt.Sprint(units), props.Text{Size: 8, Align: align.Center, Top: 6})),
		col.New(3).Add(text.New(formatMoney(revenue), props.Text{Size: 8, Align: align.Right, Top: 6, Right: 1})),
	)
}

// imageExtension detecta el formato por contenido; Maroto solo acepta JPG y PNG.
func imageExtension(img []byte) (extension.Type, bool) {
	if len(img) == 0 {
		return "", false
	}
	switch http.DetectContentType(img) {
	case "image/jpeg":
		return extension.Jpg, true
	case "image/png":
		return extension.Png, true
	}
	return "", false
}

// ── Secciones comunes ─────────────────────────────────────────────────────────

type heading struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla con fondo primario.
func tableHeaderRow(hs ...heading) core.Row {
	cols := make([]core.Col, 0, len(hs))
	for _, h := range hs {
		cols = append(cols, col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func totalRow(label string, amount decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(amount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "$25.000,00", 1234.5 → "$1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + "," + frac
}
