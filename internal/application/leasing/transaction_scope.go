package leasing

import (
	"context"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/tenancy"
)

// TransactionScope provides transactional access to the repositories a
// contract operation touches. A contract save, its generated invoices
// and the unit status recompute must commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within
// a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// UnitRepo returns the unit repository scoped to the current transaction
	UnitRepo() property.UnitRepository
	// TenantRepo returns the tenant repository scoped to the current transaction
	TenantRepo() tenancy.TenantRepository
	// ContractRepo returns the contract repository scoped to the current transaction
	ContractRepo() leasing.ContractRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	unitRepo     property.UnitRepository
	tenantRepo   tenancy.TenantRepository
	contractRepo leasing.ContractRepository
	invoiceRepo  billing.InvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	unitRepo property.UnitRepository,
	tenantRepo tenancy.TenantRepository,
	contractRepo leasing.ContractRepository,
	invoiceRepo billing.InvoiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// UnitRepo returns the unit repository
func (s *NoOpTransactionScope) UnitRepo() property.UnitRepository {
	return s.unitRepo
}

// TenantRepo returns the tenant repository
func (s *NoOpTransactionScope) TenantRepo() tenancy.TenantRepository {
	return s.tenantRepo
}

// ContractRepo returns the contract repository
func (s *NoOpTransactionScope) ContractRepo() leasing.ContractRepository {
	return s.contractRepo
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
