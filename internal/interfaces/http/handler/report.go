package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/rentals/backend/internal/application/report"
)

// ReportHandler handles dashboard reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Dashboard godoc
// @ID           getDashboardSummary
// @Summary      Get dashboard summary
// @Description  Retrieve the headline counts and income total for the dashboard
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.DashboardSummary]
// @Failure      500 {object} dto.ErrorResponse
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Charts godoc
// @ID           getDashboardCharts
// @Summary      Get dashboard chart data
// @Description  Retrieve unit and invoice status distributions for the dashboard charts
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.DashboardCharts]
// @Failure      500 {object} dto.ErrorResponse
// @Router       /reports/charts [get]
func (h *ReportHandler) Charts(c *gin.Context) {
	charts, err := h.reportService.Charts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, charts)
}
