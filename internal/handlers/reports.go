// internal/handlers/reports.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func dateRangeFromQuery(c *gin.Context) (*time.Time, *time.Time) {
	var startDate, endDate *time.Time
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			startDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			endDate = &t
		}
	}
	return startDate, endDate
}

// GET /reports/dashboard
func (h *ReportHandler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.reportService.GetDashboardOverview()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, overview)
}

// GET /reports/revenue
func (h *ReportHandler) GetRevenueSeries(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	series, err := h.reportService.GetRevenueSeries(days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, series)
}

// GET /reports/loans
func (h *ReportHandler) GetLoanReport(c *gin.Context) {
	startDate, endDate := dateRangeFromQuery(c)

	report, err := h.reportService.GetLoanReport(startDate, endDate)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// GET /reports/inventory
func (h *ReportHandler) GetInventoryReport(c *gin.Context) {
	var branchID *string
	if raw := c.Query("branch_id"); raw != "" {
		branchID = &raw
	}

	report, err := h.reportService.GetInventoryReport(branchID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// GET /reports/customers
func (h *ReportHandler) GetCustomerReport(c *gin.Context) {
	report, err := h.reportService.GetCustomerReport()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// GET /reports/loans/export
func (h *ReportHandler) ExportLoans(c *gin.Context) {
	startDate, endDate := dateRangeFromQuery(c)

	var status *models.LoanStatus
	if raw := c.Query("status"); raw != "" {
		s := models.LoanStatus(raw)
		status = &s
	}

	format := c.DefaultQuery("format", "csv")
	data, err := h.reportService.ExportLoans(status, startDate, endDate, format)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if format == "json" {
		c.Header("Content-Disposition", "attachment; filename=loans.json")
		c.Data(200, "application/json", data)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=loans.csv")
	c.Data(200, "text/csv", data)
}
