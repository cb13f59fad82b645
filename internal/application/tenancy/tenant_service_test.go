package tenancy

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/tenancy"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockTenantRepository is a mock implementation of tenancy.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByUsername(ctx context.Context, username string) (*tenancy.Tenant, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.Tenant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tenancy.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByType(ctx context.Context, tenantType tenancy.TenantType, filter shared.Filter) ([]tenancy.Tenant, error) {
	args := m.Called(ctx, tenantType, filter)
	return args.Get(0).([]tenancy.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *tenancy.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockContractRepository is a mock implementation of leasing.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]leasing.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]leasing.Contract, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]leasing.Contract, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindOverlapping(ctx context.Context, unitID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) ([]leasing.Contract, error) {
	args := m.Called(ctx, unitID, startDate, endDate, excludeID)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActiveByUnit(ctx context.Context, unitID uuid.UUID, date time.Time) ([]leasing.Contract, error) {
	args := m.Called(ctx, unitID, date)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindExpiringBy(ctx context.Context, from, deadline time.Time) ([]leasing.Contract, error) {
	args := m.Called(ctx, from, deadline)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) SaveWithLock(ctx context.Context, contract *leasing.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Tests
// =============================================================================

func newTestService() (*TenantService, *MockTenantRepository, *MockContractRepository) {
	tenantRepo := new(MockTenantRepository)
	contractRepo := new(MockContractRepository)
	return NewTenantService(tenantRepo, contractRepo), tenantRepo, contractRepo
}

func TestTenantServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an individual tenant", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenantRepo.On("ExistsByUsername", ctx, "ahmad").Return(false, nil)
		tenantRepo.On("Save", ctx, mock.AnythingOfType("*tenancy.Tenant")).Return(nil)

		resp, err := service.Create(ctx, CreateTenantRequest{
			Username: "ahmad",
			Email:    "ahmad@example.com",
			Type:     "individual",
		})
		require.NoError(t, err)
		assert.Equal(t, "ahmad", resp.Username)
		assert.Equal(t, "ahmad", resp.DisplayName)
	})

	t.Run("registers a company tenant with its legal fields", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenantRepo.On("ExistsByUsername", ctx, "acme").Return(false, nil)
		tenantRepo.On("Save", ctx, mock.AnythingOfType("*tenancy.Tenant")).Return(nil)

		resp, err := service.Create(ctx, CreateTenantRequest{
			Username:                     "acme",
			Email:                        "office@acme.example",
			Type:                         "company",
			CompanyName:                  "Acme Trading LLC",
			CommercialRegistrationNumber: "CR-445566",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Trading LLC", resp.CompanyName)
		assert.Equal(t, "Acme Trading LLC", resp.DisplayName)
	})

	t.Run("rejects a company without registration details", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenantRepo.On("ExistsByUsername", ctx, "acme").Return(false, nil)

		_, err := service.Create(ctx, CreateTenantRequest{
			Username: "acme",
			Email:    "office@acme.example",
			Type:     "company",
		})
		require.Error(t, err)
		tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects company fields on an individual", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenantRepo.On("ExistsByUsername", ctx, "ahmad").Return(false, nil)

		_, err := service.Create(ctx, CreateTenantRequest{
			Username:    "ahmad",
			Email:       "ahmad@example.com",
			Type:        "individual",
			CompanyName: "Acme Trading LLC",
		})
		assert.Error(t, err)
	})

	t.Run("rejects a duplicate username", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenantRepo.On("ExistsByUsername", ctx, "ahmad").Return(true, nil)

		_, err := service.Create(ctx, CreateTenantRequest{
			Username: "ahmad",
			Email:    "ahmad@example.com",
			Type:     "individual",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestTenantServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("switching to company requires the legal fields", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenant, err := tenancy.NewIndividualTenant("ahmad", "ahmad@example.com", "")
		require.NoError(t, err)

		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		companyType := "company"
		_, err = service.Update(ctx, tenant.ID, UpdateTenantRequest{Type: &companyType})
		require.Error(t, err)
		tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("checks uniqueness only when the username changes", func(t *testing.T) {
		service, tenantRepo, _ := newTestService()
		tenant, err := tenancy.NewIndividualTenant("ahmad", "ahmad@example.com", "")
		require.NoError(t, err)

		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
		tenantRepo.On("Save", ctx, tenant).Return(nil)

		email := "new@example.com"
		resp, err := service.Update(ctx, tenant.ID, UpdateTenantRequest{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", resp.Email)
		tenantRepo.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	})
}

func TestTenantServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a tenant without contracts", func(t *testing.T) {
		service, tenantRepo, contractRepo := newTestService()
		tenantID := uuid.New()

		contractRepo.On("FindByTenant", ctx, tenantID, shared.DefaultFilter()).
			Return([]leasing.Contract{}, nil)
		tenantRepo.On("Delete", ctx, tenantID).Return(nil)

		assert.NoError(t, service.Delete(ctx, tenantID))
	})

	t.Run("refuses while contracts reference the tenant", func(t *testing.T) {
		service, tenantRepo, contractRepo := newTestService()
		tenantID := uuid.New()

		contractRepo.On("FindByTenant", ctx, tenantID, shared.DefaultFilter()).
			Return([]leasing.Contract{{}}, nil)

		err := service.Delete(ctx, tenantID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TENANT_IN_USE", domainErr.Code)
		tenantRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
