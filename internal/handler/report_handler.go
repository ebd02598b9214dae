package handler

import (
	"time"

	"go-bizkeeper/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports service.ReportService
	now     func() time.Time
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// GetDashboard returns today's figures
// GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	return c.JSON(h.reports.Dashboard(h.now()))
}

// GetSales returns revenue, per-day sales and top products
// GET /api/v1/reports/sales?days=7
func (h *ReportHandler) GetSales(c *fiber.Ctx) error {
	days := c.QueryInt("days", service.DefaultSalesDays)
	if days < 1 || days > 366 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 366"})
	}
	return c.JSON(h.reports.Sales(h.now(), days))
}
