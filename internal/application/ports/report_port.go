package ports

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

// PurchaseOrderDocument datos necesarios para imprimir una orden de compra.
type PurchaseOrderDocument struct {
	Order    *entity.PurchaseOrder
	Supplier *entity.Supplier
	Products map[string]*entity.Product // por id
}

// SalesReportDocument resumen de ventas de un período con miniaturas ya descargadas.
type SalesReportDocument struct {
	From, To string // fechas ya formateadas
	Summary  *repository.SalesSummary
	Images   map[string][]byte // por product id; ausente si la descarga falló
}

// PDFGenerator define el puerto de salida para generar documentos PDF.
type PDFGenerator interface {
	PurchaseOrderPDF(doc *PurchaseOrderDocument) ([]byte, error)
	SalesReportPDF(doc *SalesReportDocument) ([]byte, error)
}

// ImageFetcher descarga imágenes remotas (miniaturas de producto).
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
