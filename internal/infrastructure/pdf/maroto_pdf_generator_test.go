package pdf

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

// PNG 1x1 transparente.
var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "$0,00",
		"25":       "$25,00",
		"1234.5":   "$1.234,50",
		"1000000":  "$1.000.000,00",
		"-99.999":  "-$100,00",
		"123456.7": "$123.456,70",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestImageExtension(t *testing.T) {
	ext, ok := imageExtension(tinyPNG)
	assert.True(t, ok)
	assert.EqualValues(t, "png", ext)

	_, ok = imageExtension([]byte("<html></html>"))
	assert.False(t, ok)
	_, ok = imageExtension(nil)
	assert.False(t, ok)
}

func TestPurchaseOrderPDF(t *testing.T) {
	eta := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := &ports.PurchaseOrderDocument{
		Order: &entity.PurchaseOrder{
			ID: "7f1c2a90-0000-0000-0000-000000000000", Status: entity.PurchaseOrderOrdered,
			TotalAmount: decimal.NewFromInt(25), EstimatedDeliveryDate: &eta, CreatedAt: time.Now(),
			Items: []entity.PurchaseOrderItem{
				{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
				{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
			},
		},
		Supplier: &entity.Supplier{Name: "ACME", Email: "acme@x.com"},
		Products: map[string]*entity.Product{"p1": {SKU: "A", Name: "Tornillo"}},
	}

	out, err := NewMarotoPDFGenerator("Portal").PurchaseOrderPDF(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPurchaseOrderPDF_NilOrder(t *testing.T) {
	_, err := NewMarotoPDFGenerator("Portal").PurchaseOrderPDF(&ports.PurchaseOrderDocument{})
	assert.Error(t, err)
}

func TestSalesReportPDF_WithAndWithoutImages(t *testing.T) {
	doc := &ports.SalesReportDocument{
		From: "01/03/2024", To: "31/03/2024",
		Summary: &repository.SalesSummary{
			OrderCount: 2, Revenue: decimal.NewFromInt(70),
			TopProducts: []repository.ProductSales{
				{ProductID: "p1", SKU: "A", ProductName: "Tornillo", UnitsSold: 2, Revenue: decimal.NewFromInt(20)},
				{ProductID: "p2", SKU: "B", ProductName: "Tuerca", UnitsSold: 1, Revenue: decimal.NewFromInt(50)},
			},
		},
		Images: map[string][]byte{"p1": tinyPNG},
	}

	out, err := NewMarotoPDFGenerator("Portal").SalesReportPDF(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
