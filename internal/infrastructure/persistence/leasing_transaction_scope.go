package persistence

import (
	"context"

	"gorm.io/gorm"

	appleasing "github.com/rentals/backend/internal/application/leasing"
	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/tenancy"
)

// GormLeasingTransactionScope implements the leasing TransactionScope
// using GORM transactions. A contract save, its generated invoices and
// the unit status recompute commit or roll back together.
type GormLeasingTransactionScope struct {
	db *gorm.DB
}

// NewGormLeasingTransactionScope creates a new GormLeasingTransactionScope
func NewGormLeasingTransactionScope(db *gorm.DB) *GormLeasingTransactionScope {
	return &GormLeasingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormLeasingTransactionScope) Execute(ctx context.Context, fn func(repos appleasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLeasingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormLeasingRepositories provides access to the leasing repositories
// within a transaction
type gormLeasingRepositories struct {
	tx *gorm.DB
}

// UnitRepo returns the unit repository scoped to the current transaction
func (r *gormLeasingRepositories) UnitRepo() property.UnitRepository {
	return NewGormUnitRepository(r.tx)
}

// TenantRepo returns the tenant repository scoped to the current transaction
func (r *gormLeasingRepositories) TenantRepo() tenancy.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

// ContractRepo returns the contract repository scoped to the current transaction
func (r *gormLeasingRepositories) ContractRepo() leasing.ContractRepository {
	return NewGormContractRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormLeasingRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure GormLeasingTransactionScope implements TransactionScope
var _ appleasing.TransactionScope = (*GormLeasingTransactionScope)(nil)

// Ensure gormLeasingRepositories implements TransactionalRepositories
var _ appleasing.TransactionalRepositories = (*gormLeasingRepositories)(nil)
