// Package reporting reportes de ventas en JSON y PDF.
package reporting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

const (
	defaultTop = 10
	maxTop     = 50
	// descargas de miniaturas en paralelo
	fetchConcurrency = 4
	dateLayout       = "2006-01-02"
)

// ReportUseCase resumen de ventas por período y su versión PDF.
type ReportUseCase struct {
	repo   repository.ReportRepository
	pdf    ports.PDFGenerator
	images ports.ImageFetcher
	// onFetchErr recibe las miniaturas que no se pudieron descargar (se omiten del PDF).
	onFetchErr func(url string, err error)
	loc        *time.Location
}

// NewReportUseCase construye el caso de uso. images puede ser nil: el PDF sale sin miniaturas.
func NewReportUseCase(repo repository.ReportRepository, pdf ports.PDFGenerator, images ports.ImageFetcher) *ReportUseCase {
	return &ReportUseCase{repo: repo, pdf: pdf, images: images, loc: time.Local}
}

// OnFetchError registra un callback para descargas fallidas.
func (uc *ReportUseCase) OnFetchError(fn func(url string, err error)) { uc.onFetchErr = fn }

// SalesSummary agrega los pedidos no cancelados entre from y to, ambos inclusive.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, in dto.SalesReportRequest) (*dto.SalesReportResponse, error) {
	from, to, err := uc.parsePeriod(in.From, in.To)
	if err != nil {
		return nil, err
	}
	summary, err := uc.repo.SalesSummary(ctx, from, to, clampTop(in.Top))
	if err != nil {
		return nil, err
	}
	out := &dto.SalesReportResponse{
		From:        from,
		To:          to.Add(-time.Nanosecond),
		OrderCount:  summary.OrderCount,
		Revenue:     summary.Revenue,
		TopProducts: make([]dto.ProductSalesResponse, 0, len(summary.TopProducts)),
	}
	for _, p := range summary.TopProducts {
		out.TopProducts = append(out.TopProducts, dto.ProductSalesResponse{
			ProductID:   p.ProductID,
			SKU:         p.SKU,
			ProductName: p.ProductName,
			ImageURL:    p.ImageURL,
			UnitsSold:   p.UnitsSold,
			Revenue:     p.Revenue,
		})
	}
	return out, nil
}

// SalesPDF genera el reporte en PDF con miniaturas de los productos más vendidos.
// Las imágenes que fallan se omiten; el reporte se genera igual.
func (uc *ReportUseCase) SalesPDF(ctx context.Context, in dto.SalesReportRequest) ([]byte, error) {
	from, to, err := uc.parsePeriod(in.From, in.To)
	if err != nil {
		return nil, err
	}
	summary, err := uc.repo.SalesSummary(ctx, from, to, clampTop(in.Top))
	if err != nil {
		return nil, err
	}
	images := uc.fetchImages(ctx, summary)
	return uc.pdf.SalesReportPDF(&ports.SalesReportDocument{
		From:    in.From,
		To:      in.To,
		Summary: summary,
		Images:  images,
	})
}

// fetchImages descarga las miniaturas de los productos, indexadas por product id.
func (uc *ReportUseCase) fetchImages(ctx context.Context, summary *repository.SalesSummary) map[string][]byte {
	out := make(map[string][]byte)
	if uc.images == nil {
		return out
	}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, p := range summary.TopProducts {
		if p.ImageURL == "" {
			continue
		}
		productID, url := p.ProductID, p.ImageURL
		g.Go(func() error {
			data, err := uc.images.Fetch(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if uc.onFetchErr != nil {
					uc.onFetchErr(url, err)
				}
				return nil
			}
			out[productID] = data
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// parsePeriod convierte fechas YYYY-MM-DD al intervalo semiabierto [from, to+1d).
func (uc *ReportUseCase) parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, fromStr, uc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from inválido: %w", domain.ErrInvalidInput)
	}
	to, err := time.ParseInLocation(dateLayout, toStr, uc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to inválido: %w", domain.ErrInvalidInput)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from no puede ser posterior a to: %w", domain.ErrInvalidInput)
	}
	return from, to.AddDate(0, 0, 1), nil
}

func clampTop(n int) int {
	if n <= 0 {
		return defaultTop
	}
	if n > maxTop {
		return maxTop
	}
	return n
}
