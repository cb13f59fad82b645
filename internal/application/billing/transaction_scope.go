package billing

import (
	"context"

	"github.com/rentals/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to the invoice
// repository. Payment recording runs inside it with a row lock on the
// invoice so concurrent payments against the same invoice serialize.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	invoiceRepo billing.InvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository
func NewNoOpTransactionScope(invoiceRepo billing.InvoiceRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{invoiceRepo: invoiceRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
