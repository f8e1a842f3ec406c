package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/report"
)

// ReportHandler expone los reportes y exportaciones (protegido).
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// UserStats godoc
// @Summary      Usuarios por estado y rol
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserStatsResponse
// @Router       /api/reports/users [get]
func (h *ReportHandler) UserStats(c *fiber.Ctx) error {
	out, err := h.uc.UserStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MovementSeries godoc
// @Summary      Serie diaria de entradas y salidas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días hacia atrás (máx 90)"  default(7)
// @Success      200  {object}  dto.MovementSeriesResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) MovementSeries(c *fiber.Ctx) error {
	out, err := h.uc.MovementSeries(c.UserContext(), c.QueryInt("days", report.DefaultSeriesDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockByCategory godoc
// @Summary      Stock por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoryStockResponse
// @Router       /api/reports/categories [get]
func (h *ReportHandler) StockByCategory(c *fiber.Ctx) error {
	out, err := h.uc.StockByCategory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecentActivity godoc
// @Summary      Actividad reciente
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad de movimientos"  default(10)
// @Success      200  {array}  dto.ActivityResponse
// @Router       /api/reports/activity [get]
func (h *ReportHandler) RecentActivity(c *fiber.Ctx) error {
	out, err := h.uc.RecentActivity(c.UserContext(), c.QueryInt("limit", report.DefaultActivityLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockPDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	body, filename, err := h.uc.StockReportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// StockCSV godoc
// @Summary      Reporte de inventario en CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/reports/stock.csv [get]
func (h *ReportHandler) StockCSV(c *fiber.Ctx) error {
	body, filename, err := h.uc.StockReportCSV(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
