package handlers

import (
	"SonoCare/repositories"
	"SonoCare/services"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.service.GetDashboardSummary(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, summary)
}

func (h *ReportHandler) GetBillingReport(c *gin.Context) {
	var filter repositories.BillingReportFilter

	if start, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		if end, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
			filter.StartDate = &start
			filter.EndDate = &end
		}
	}
	filter.Status = c.Query("status")
	if min, err := decimal.NewFromString(c.Query("min_amount")); err == nil {
		filter.MinAmount = &min
	}
	if max, err := decimal.NewFromString(c.Query("max_amount")); err == nil {
		filter.MaxAmount = &max
	}

	report, err := h.service.GetBillingReport(c, filter)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, report)
}

func (h *ReportHandler) GetRevenueByMethod(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)
	if s, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		start = s
	}
	if e, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		end = e
	}

	rows, err := h.service.GetRevenueByMethod(c, start, end)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, rows)
}

func (h *ReportHandler) GetRevenueByService(c *gin.Context) {
	rows, err := h.service.GetRevenueByService(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, rows)
}
