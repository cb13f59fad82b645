package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/rentals/backend/internal/application/billing"
	"github.com/rentals/backend/internal/domain/billing"
)

// GormBillingTransactionScope implements the billing TransactionScope
// using GORM transactions. Payment recording runs inside it with a row
// lock on the invoice.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormBillingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormBillingRepositories provides access to the billing repositories
// within a transaction
type gormBillingRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormBillingRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure GormBillingTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)

// Ensure gormBillingRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
