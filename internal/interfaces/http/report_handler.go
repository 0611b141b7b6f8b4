package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/reporting"
)

// ReportHandler reportes de ventas.
type ReportHandler struct {
	uc *reporting.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Resumen de ventas del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true   "Desde (YYYY-MM-DD)"
// @Param        to    query  string  true   "Hasta inclusive (YYYY-MM-DD)"
// @Param        top   query  int     false  "Productos en el ranking"  default(10)
// @Success      200   {object}  dto.SalesReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var in dto.SalesReportRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SalesSummary(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SalesPDF godoc
// @Summary      Reporte de ventas en PDF con miniaturas
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  true  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200   {file}  binary
// @Router       /api/reports/sales/pdf [get]
func (h *ReportHandler) SalesPDF(c *fiber.Ctx) error {
	var in dto.SalesReportRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	pdf, err := h.uc.SalesPDF(c.UserContext(), in)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ventas-%s-%s.pdf"`, in.From, in.To))
	return c.Send(pdf)
}
