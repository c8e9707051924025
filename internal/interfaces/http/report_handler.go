package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warenwelt-api/internal/application/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler reportes de ventas y exportaciones contables (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Daily GET /api/reports/daily?date=
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.DailySummary(c.Context(), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Weekly resumen de la semana ISO que contiene date.
// GET /api/reports/weekly?date=
func (h *ReportHandler) Weekly(c *fiber.Ctx) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.WeeklySummary(c.Context(), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Monthly GET /api/reports/monthly?year=&month=
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.MonthlySummary(c.Context(), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Period GET /api/reports/period?start_date=&end_date=&report_type=
func (h *ReportHandler) Period(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.PeriodSummary(c.Context(), start, end, c.Query("report_type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Revenue GET /api/reports/revenue?start_date=&end_date=
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.RevenueList(c.Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportDailyCSV GET /api/reports/export/daily.csv?date=&encoding=
func (h *ReportHandler) ExportDailyCSV(c *fiber.Ctx) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	charset, err := report.ParseCharset(c.Query("encoding"))
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.uc.ExportDailyCSV(c.Context(), date, charset)
	if err != nil {
		return respondError(c, err)
	}
	return sendCSV(c, data, charset, "tagesbericht_"+date.Format("2006-01-02")+".csv")
}

// ExportMonthlyCSV GET /api/reports/export/monthly.csv?year=&month=&encoding=
func (h *ReportHandler) ExportMonthlyCSV(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	charset, err := report.ParseCharset(c.Query("encoding"))
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.uc.ExportMonthlyCSV(c.Context(), year, month, charset)
	if err != nil {
		return respondError(c, err)
	}
	return sendCSV(c, data, charset, fmt.Sprintf("monatsbericht_%04d-%02d.csv", year, month))
}

// ExportDATEVCSV GET /api/reports/export/datev.csv?start_date=&end_date=&encoding=
func (h *ReportHandler) ExportDATEVCSV(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	charset, err := report.ParseCharset(c.Query("encoding"))
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.uc.ExportDATEVCSV(c.Context(), start, end, charset)
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("datev_%s_%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
	return sendCSV(c, data, charset, name)
}

// ExportRevenueXLSX GET /api/reports/export/revenue.xlsx?start_date=&end_date=
func (h *ReportHandler) ExportRevenueXLSX(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	data, err := h.uc.ExportRevenueXLSX(c.Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("umsatzliste_%s_%s.xlsx", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

func sendCSV(c *fiber.Ctx, data []byte, charset report.Charset, filename string) error {
	ct := "text/csv; charset=utf-8"
	if charset == report.CharsetLatin1 {
		ct = "text/csv; charset=iso-8859-1"
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func yearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := queryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
