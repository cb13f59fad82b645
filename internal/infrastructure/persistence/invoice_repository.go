package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Payments are loaded with the invoice and saved through the
// association, so the aggregate always round-trips whole.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID, payments included
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an invoice by ID taking a FOR UPDATE row
// lock. Inside a transaction this serializes concurrent payment
// recording against the same invoice.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	// The locking clause cannot ride along with a preload, so payments
	// load in a second query under the same transaction.
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("payment_date ASC, created_at ASC").
		Find(&model.Payments).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Preload("Payments"), filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindByContract finds all invoices of a contract ordered by invoice date
func (r *GormInvoiceRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("contract_id = ?", contractID).
		Order("invoice_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindByStatus finds invoices with the given stored status
func (r *GormInvoiceRepository) FindByStatus(ctx context.Context, status billing.InvoiceStatus, filter shared.Filter) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Preload("Payments").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its payments
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// SaveBatch creates or updates multiple invoices
func (r *GormInvoiceRepository) SaveBatch(ctx context.Context, invoices []*billing.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	invoiceModels := make([]*models.InvoiceModel, len(invoices))
	for i, inv := range invoices {
		invoiceModels[i] = models.InvoiceModelFromDomain(inv)
	}
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(invoiceModels).Error
}

// SaveWithLock saves an invoice with optimistic locking (version
// check). New payments are appended in the same call.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"amount":     model.Amount,
			"due_date":   model.DueDate,
			"updated_at": model.UpdatedAt,
			"version":    model.Version,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The invoice record has been modified by another transaction")
	}

	if len(model.Payments) == 0 {
		return nil
	}
	// Payments are immutable; upserting by primary key keeps existing
	// rows untouched and inserts the new ones.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Payments).Error
}

// Delete deletes an invoice and its payments
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.PaymentModel{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByContract deletes all invoices of a contract
func (r *GormInvoiceRepository) DeleteByContract(ctx context.Context, contractID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("invoice_id IN (?)",
			r.db.Model(&models.InvoiceModel{}).Select("id").Where("contract_id = ?", contractID)).
		Delete(&models.PaymentModel{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Delete(&models.InvoiceModel{}, "contract_id = ?", contractID).Error
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts invoices with the given stored status
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context, status billing.InvoiceStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPaidAmounts sums the amounts of fully paid invoices
func (r *GormInvoiceRepository) SumPaidAmounts(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("status = ?", billing.InvoiceStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindPayments finds payments across all invoices matching the filter
func (r *GormInvoiceRepository) FindPayments(ctx context.Context, filter shared.Filter) ([]billing.Payment, error) {
	query := r.applyPaymentFilter(r.db.WithContext(ctx).Model(&models.PaymentModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var paymentModels []models.PaymentModel
	if err := query.Order("payment_date DESC, created_at DESC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]billing.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments, nil
}

// CountPayments counts payments matching the filter
func (r *GormInvoiceRepository) CountPayments(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyPaymentFilter(r.db.WithContext(ctx).Model(&models.PaymentModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) applyPaymentFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "invoice_id":
			query = query.Where("invoice_id = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		}
	}

	return query
}

// applyFilter applies filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("invoice_date ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "contract_id":
			query = query.Where("contract_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
