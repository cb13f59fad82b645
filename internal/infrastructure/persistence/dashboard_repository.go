package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/report"
	"github.com/rentals/backend/internal/infrastructure/persistence/models"
)

// GormDashboardRepository implements DashboardRepository using GORM.
// It aggregates straight in SQL rather than loading the aggregates.
type GormDashboardRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db, now: time.Now}
}

// Summary returns the headline dashboard numbers
func (r *GormDashboardRepository) Summary(ctx context.Context) (*report.DashboardSummary, error) {
	summary := &report.DashboardSummary{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.UnitModel{}).Count(&summary.TotalUnits).Error; err != nil {
		return nil, err
	}
	unitCounts := map[property.UnitStatus]*int64{
		property.UnitStatusAvailable:   &summary.AvailableUnits,
		property.UnitStatusOccupied:    &summary.OccupiedUnits,
		property.UnitStatusMaintenance: &summary.MaintenanceUnits,
	}
	for status, target := range unitCounts {
		if err := db.Model(&models.UnitModel{}).
			Where("status = ?", status).
			Count(target).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.TenantModel{}).Count(&summary.TotalTenants).Error; err != nil {
		return nil, err
	}

	today := leasing.DateOnly(r.now())
	if err := db.Model(&models.ContractModel{}).
		Where("is_cancelled = ?", false).
		Where("start_date <= ? AND end_date >= ?", today, today).
		Count(&summary.ActiveContracts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.InvoiceModel{}).Count(&summary.TotalInvoices).Error; err != nil {
		return nil, err
	}
	invoiceCounts := map[billing.InvoiceStatus]*int64{
		billing.InvoiceStatusPending: &summary.PendingInvoices,
		billing.InvoiceStatusOverdue: &summary.OverdueInvoices,
		billing.InvoiceStatusPaid:    &summary.PaidInvoices,
	}
	for status, target := range invoiceCounts {
		if err := db.Model(&models.InvoiceModel{}).
			Where("status = ?", status).
			Count(target).Error; err != nil {
			return nil, err
		}
	}

	var income decimal.Decimal
	if err := db.Model(&models.InvoiceModel{}).
		Where("status = ?", billing.InvoiceStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&income).Error; err != nil {
		return nil, err
	}
	summary.TotalIncome = income

	return summary, nil
}

// UnitStatusDistribution returns unit counts grouped by status
func (r *GormDashboardRepository) UnitStatusDistribution(ctx context.Context) ([]report.StatusSlice, error) {
	var slices []report.StatusSlice
	if err := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&slices).Error; err != nil {
		return nil, err
	}
	return slices, nil
}

// InvoiceStatusDistribution returns invoice counts grouped by status
func (r *GormDashboardRepository) InvoiceStatusDistribution(ctx context.Context) ([]report.StatusSlice, error) {
	var slices []report.StatusSlice
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&slices).Error; err != nil {
		return nil, err
	}
	return slices, nil
}

// Ensure GormDashboardRepository implements DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
