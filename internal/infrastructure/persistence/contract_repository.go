package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/infrastructure/persistence/models"
)

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]leasing.Contract, error) {
	var contractModels []models.ContractModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter)

	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// FindByUnit finds all contracts for a unit
func (r *GormContractRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]leasing.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("start_date ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// FindByTenant finds all contracts for a tenant
func (r *GormContractRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]leasing.Contract, error) {
	var contractModels []models.ContractModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ContractModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// FindOverlapping finds non-cancelled contracts for the unit whose
// period intersects [startDate, endDate], bounds inclusive
func (r *GormContractRepository) FindOverlapping(ctx context.Context, unitID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) ([]leasing.Contract, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("unit_id = ? AND is_cancelled = ?", unitID, false).
		Where("start_date <= ? AND end_date >= ?", leasing.DateOnly(endDate), leasing.DateOnly(startDate))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var contractModels []models.ContractModel
	if err := query.Order("start_date ASC").Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// FindActiveByUnit finds non-cancelled contracts for the unit whose
// period covers the given date
func (r *GormContractRepository) FindActiveByUnit(ctx context.Context, unitID uuid.UUID, date time.Time) ([]leasing.Contract, error) {
	day := leasing.DateOnly(date)

	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND is_cancelled = ?", unitID, false).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// FindExpiringBy finds non-cancelled, not yet notified contracts ending
// within [from, deadline]. Contracts already past their end date are
// not candidates for an expiry warning.
func (r *GormContractRepository) FindExpiringBy(ctx context.Context, from, deadline time.Time) ([]leasing.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("is_cancelled = ? AND notification_sent = ?", false, false).
		Where("end_date >= ? AND end_date <= ?", leasing.DateOnly(from), leasing.DateOnly(deadline)).
		Order("end_date ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	model := models.ContractModelFromDomain(contract)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a contract with optimistic locking (version check).
// Returns error if the version has changed (concurrent modification).
// Columns are written through an explicit map so zero values (a cleared
// note, flags flipped back to false) reach the database.
func (r *GormContractRepository) SaveWithLock(ctx context.Context, contract *leasing.Contract) error {
	model := models.ContractModelFromDomain(contract)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", contract.ID, contract.Version-1).
		Updates(map[string]interface{}{
			"start_date":                   model.StartDate,
			"end_date":                     model.EndDate,
			"monthly_rent":                 model.MonthlyRent,
			"rent_currency":                model.RentCurrency,
			"municipality_fees":            model.MunicipalityFees,
			"is_cancelled":                 model.IsCancelled,
			"notification_sent":            model.NotificationSent,
			"agreement_note":               model.AgreementNote,
			"electricity_previous_reading": model.ElectricityPreviousReading,
			"electricity_current_reading":  model.ElectricityCurrentReading,
			"water_previous_reading":       model.WaterPreviousReading,
			"water_current_reading":        model.WaterCurrentReading,
			"updated_at":                   model.UpdatedAt,
			"version":                      model.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The contract record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a contract
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByUnit counts contracts referencing the unit
func (r *GormContractRepository) CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("unit_id = ?", unitID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("start_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormContractRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"agreement_note ILIKE ? OR unit_id IN (SELECT id FROM units WHERE number ILIKE ?) OR tenant_id IN (SELECT id FROM tenants WHERE username ILIKE ? OR company_name ILIKE ?)",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "unit_id":
			query = query.Where("unit_id = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "is_cancelled":
			query = query.Where("is_cancelled = ?", value)
		}
	}

	return query
}

// Ensure GormContractRepository implements ContractRepository
var _ leasing.ContractRepository = (*GormContractRepository)(nil)
