package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardSummary is a read model with the headline numbers shown on
// the landing dashboard
type DashboardSummary struct {
	TotalUnits       int64           `json:"total_units"`
	AvailableUnits   int64           `json:"available_units"`
	OccupiedUnits    int64           `json:"occupied_units"`
	MaintenanceUnits int64           `json:"maintenance_units"`
	TotalTenants     int64           `json:"total_tenants"`
	ActiveContracts  int64           `json:"active_contracts"`
	TotalInvoices    int64           `json:"total_invoices"`
	PendingInvoices  int64           `json:"pending_invoices"`
	OverdueInvoices  int64           `json:"overdue_invoices"`
	PaidInvoices     int64           `json:"paid_invoices"`
	TotalIncome      decimal.Decimal `json:"total_income"` // sum of paid invoice amounts
}

// StatusSlice is one segment of a status distribution chart
type StatusSlice struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardCharts bundles the chart datasets of the dashboard
type DashboardCharts struct {
	UnitsByStatus    []StatusSlice `json:"units_by_status"`
	InvoicesByStatus []StatusSlice `json:"invoices_by_status"`
}

// DashboardRepository reads aggregated dashboard figures straight from
// the database
type DashboardRepository interface {
	// Summary returns the headline dashboard numbers
	Summary(ctx context.Context) (*DashboardSummary, error)

	// UnitStatusDistribution returns unit counts grouped by status
	UnitStatusDistribution(ctx context.Context) ([]StatusSlice, error)

	// InvoiceStatusDistribution returns invoice counts grouped by status
	InvoiceStatusDistribution(ctx context.Context) ([]StatusSlice, error)
}
