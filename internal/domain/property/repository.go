package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentals/backend/internal/domain/shared"
)

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	// FindByID finds a unit by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)

	// FindByIDForUpdate finds a unit by its ID taking a row lock.
	// Only meaningful inside a transaction; it serializes concurrent
	// contract creation against the same unit.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Unit, error)

	// FindByNumber finds a unit by its unique number
	FindByNumber(ctx context.Context, number string) (*Unit, error)

	// FindAll finds all units matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Unit, error)

	// FindByStatus finds units with the given status
	FindByStatus(ctx context.Context, status UnitStatus, filter shared.Filter) ([]Unit, error)

	// Save creates or updates a unit
	Save(ctx context.Context, unit *Unit) error

	// SaveWithLock saves a unit with optimistic locking (version check)
	SaveWithLock(ctx context.Context, unit *Unit) error

	// Delete deletes a unit
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts units matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts units with the given status
	CountByStatus(ctx context.Context, status UnitStatus) (int64, error)

	// ExistsByNumber checks whether a unit with the given number exists
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
