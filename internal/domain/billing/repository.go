package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentals/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence.
// Implementations load payments together with the invoice aggregate.
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID, payments included
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate finds an invoice by its ID taking a row lock.
	// Only meaningful inside a transaction; it serializes concurrent
	// payment recording against the same invoice.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll finds all invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByContract finds all invoices of a contract ordered by
	// invoice date
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]Invoice, error)

	// FindByStatus finds invoices with the given stored status
	FindByStatus(ctx context.Context, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice together with its payments
	Save(ctx context.Context, invoice *Invoice) error

	// SaveBatch creates or updates multiple invoices
	SaveBatch(ctx context.Context, invoices []*Invoice) error

	// SaveWithLock saves an invoice with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete deletes an invoice and its payments
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByContract deletes all invoices of a contract
	DeleteByContract(ctx context.Context, contractID uuid.UUID) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices with the given stored status
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)

	// SumPaidAmounts sums the amounts of fully paid invoices
	SumPaidAmounts(ctx context.Context) (float64, error)

	// FindPayments finds payments across all invoices matching the filter
	FindPayments(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// CountPayments counts payments matching the filter
	CountPayments(ctx context.Context, filter shared.Filter) (int64, error)
}
