package report

import (
	"context"

	"github.com/rentals/backend/internal/domain/report"
)

// ReportService exposes dashboard read models
type ReportService struct {
	dashboardRepo report.DashboardRepository
}

// NewReportService creates a new ReportService
func NewReportService(dashboardRepo report.DashboardRepository) *ReportService {
	return &ReportService{dashboardRepo: dashboardRepo}
}

// Dashboard returns the headline dashboard numbers
func (s *ReportService) Dashboard(ctx context.Context) (*report.DashboardSummary, error) {
	return s.dashboardRepo.Summary(ctx)
}

// Charts returns the dashboard chart datasets
func (s *ReportService) Charts(ctx context.Context) (*report.DashboardCharts, error) {
	units, err := s.dashboardRepo.UnitStatusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.dashboardRepo.InvoiceStatusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	return &report.DashboardCharts{
		UnitsByStatus:    units,
		InvoicesByStatus: invoices,
	}, nil
}
