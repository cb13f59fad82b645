package tenancy

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/tenancy"
)

// TenantService handles tenant registry operations
type TenantService struct {
	tenantRepo   tenancy.TenantRepository
	contractRepo leasing.ContractRepository
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo tenancy.TenantRepository, contractRepo leasing.ContractRepository) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		contractRepo: contractRepo,
	}
}

// Create registers a new tenant
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	exists, err := s.tenantRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant with this username already exists")
	}

	tenant, err := tenancy.NewTenant(req.Username, req.Email, req.Phone,
		tenancy.TenantType(req.Type), req.CompanyName, req.CommercialRegistrationNumber)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Update updates a tenant's information
func (s *TenantService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	username := tenant.Username
	email := tenant.Email
	phone := tenant.Phone
	tenantType := tenant.Type
	companyName := tenant.CompanyName
	registration := tenant.CommercialRegistrationNumber

	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Type != nil {
		tenantType = tenancy.TenantType(*req.Type)
	}
	if req.CompanyName != nil {
		companyName = *req.CompanyName
	}
	if req.CommercialRegistrationNumber != nil {
		registration = *req.CommercialRegistrationNumber
	}

	if username != tenant.Username {
		exists, err := s.tenantRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant with this username already exists")
		}
	}

	if err := tenant.Update(username, email, phone, tenantType, companyName, registration); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// List retrieves tenants with pagination
func (s *TenantService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[TenantResponse], error) {
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = ToTenantResponse(&tenants[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a tenant. Tenants referenced by contracts cannot be
// deleted.
func (s *TenantService) Delete(ctx context.Context, tenantID uuid.UUID) error {
	contracts, err := s.contractRepo.FindByTenant(ctx, tenantID, shared.DefaultFilter())
	if err != nil {
		return err
	}
	if len(contracts) > 0 {
		return shared.NewDomainError("TENANT_IN_USE", "Tenant has contracts and cannot be deleted")
	}
	return s.tenantRepo.Delete(ctx, tenantID)
}
