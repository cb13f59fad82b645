package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentals/backend/internal/domain/shared"
)

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	// FindByID finds a contract by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)

	// FindAll finds all contracts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Contract, error)

	// FindByUnit finds all contracts for a unit
	FindByUnit(ctx context.Context, unitID uuid.UUID) ([]Contract, error)

	// FindByTenant finds all contracts for a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Contract, error)

	// FindOverlapping finds non-cancelled contracts for the unit whose
	// period intersects [startDate, endDate], bounds inclusive.
	// excludeID, when non-nil, leaves out the contract being updated.
	FindOverlapping(ctx context.Context, unitID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) ([]Contract, error)

	// FindActiveByUnit finds non-cancelled contracts for the unit whose
	// period covers the given date
	FindActiveByUnit(ctx context.Context, unitID uuid.UUID, date time.Time) ([]Contract, error)

	// FindExpiringBy finds non-cancelled contracts ending within
	// [from, deadline] that have not yet been notified
	FindExpiringBy(ctx context.Context, from, deadline time.Time) ([]Contract, error)

	// Save creates or updates a contract
	Save(ctx context.Context, contract *Contract) error

	// SaveWithLock saves a contract with optimistic locking (version check)
	SaveWithLock(ctx context.Context, contract *Contract) error

	// Delete deletes a contract
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts contracts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByUnit counts contracts referencing the unit
	CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error)
}
