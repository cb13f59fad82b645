package tenancy

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentals/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByUsername finds a tenant by its unique username
	FindByUsername(ctx context.Context, username string) (*Tenant, error)

	// FindAll finds all tenants matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)

	// FindByType finds tenants of the given kind
	FindByType(ctx context.Context, tenantType TenantType, filter shared.Filter) ([]Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// Delete deletes a tenant
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts tenants matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByUsername checks whether a tenant with the given username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
