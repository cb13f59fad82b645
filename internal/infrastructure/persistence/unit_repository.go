package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/infrastructure/persistence/models"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a unit by ID taking a FOR UPDATE row lock.
// Inside a transaction this serializes concurrent contract creation
// against the same unit.
func (r *GormUnitRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a unit by its unique number
func (r *GormUnitRepository) FindByNumber(ctx context.Context, number string) (*property.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("number = ?", strings.TrimSpace(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all units matching the filter
func (r *GormUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Unit, error) {
	var unitModels []models.UnitModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UnitModel{}), filter)

	if err := query.Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]property.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = *model.ToDomain()
	}
	return units, nil
}

// FindByStatus finds units with the given status
func (r *GormUnitRepository) FindByStatus(ctx context.Context, status property.UnitStatus, filter shared.Filter) ([]property.Unit, error) {
	var unitModels []models.UnitModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.UnitModel{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]property.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = *model.ToDomain()
	}
	return units, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *property.Unit) error {
	model := models.UnitModelFromDomain(unit)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a unit with optimistic locking (version check).
// Returns error if the version has changed (concurrent modification).
// Columns are written through an explicit map so zero values (a cleared
// account number or description) reach the database.
func (r *GormUnitRepository) SaveWithLock(ctx context.Context, unit *property.Unit) error {
	model := models.UnitModelFromDomain(unit)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", unit.ID, unit.Version-1).
		Updates(map[string]interface{}{
			"number":              model.Number,
			"type":                model.Type,
			"status":              model.Status,
			"rent_price":          model.RentPrice,
			"rent_currency":       model.RentCurrency,
			"electricity_account": model.ElectricityAccount,
			"water_account":       model.WaterAccount,
			"description":         model.Description,
			"updated_at":          model.UpdatedAt,
			"version":             model.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The unit record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a unit
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UnitModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts units matching the filter
func (r *GormUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.UnitModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts units with the given status
func (r *GormUnitRepository) CountByStatus(ctx context.Context, status property.UnitStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether a unit with the given number exists
func (r *GormUnitRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Where("number = ?", strings.TrimSpace(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("number ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormUnitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	return query
}

// Ensure GormUnitRepository implements UnitRepository
var _ property.UnitRepository = (*GormUnitRepository)(nil)
