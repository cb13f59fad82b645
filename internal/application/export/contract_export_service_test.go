package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
	"github.com/rentals/backend/internal/domain/tenancy"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

// MockUnitRepository is a mock implementation of property.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByNumber(ctx context.Context, number string) (*property.Unit, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Unit, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByStatus(ctx context.Context, status property.UnitStatus, filter shared.Filter) ([]property.Unit, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *property.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) SaveWithLock(ctx context.Context, unit *property.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) CountByStatus(ctx context.Context, status property.UnitStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

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

// =============================================================================
// Tests
// =============================================================================

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newExportFixture(t *testing.T) (*ContractExportService, *MockContractRepository, shared.Filter) {
	t.Helper()
	contractRepo := new(MockContractRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)

	unit, err := property.NewUnit("A-101", property.UnitTypeApartment, valueobject.NewMoneySARFromFloat(1000))
	require.NoError(t, err)
	tenant, err := tenancy.NewIndividualTenant("ahmad", "ahmad@example.com", "")
	require.NoError(t, err)

	first, err := leasing.NewContract(unit.ID, tenant.ID,
		testDate(2024, 1, 1), testDate(2024, 6, 30), valueobject.NewMoneySARFromFloat(1000))
	require.NoError(t, err)
	second, err := leasing.NewContract(unit.ID, tenant.ID,
		testDate(2024, 7, 1), testDate(2024, 12, 31), valueobject.NewMoneySARFromFloat(1250.5))
	require.NoError(t, err)
	require.NoError(t, second.Cancel())

	filter := shared.DefaultFilter()
	contractRepo.On("FindAll", mock.Anything, filter).Return([]leasing.Contract{*first, *second}, nil)
	// Lookups are cached, so each referenced row loads once.
	unitRepo.On("FindByID", mock.Anything, unit.ID).Return(unit, nil).Once()
	tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()

	service := NewContractExportService(contractRepo, unitRepo, tenantRepo)
	service.now = func() time.Time { return testDate(2024, 8, 1) }
	return service, contractRepo, filter
}

func TestContractExportCSV(t *testing.T) {
	service, _, filter := newExportFixture(t)

	file, err := service.Export(context.Background(), filter, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "contracts_20240801.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	expected := "unit_number,tenant,start_date,end_date,monthly_rent,cancelled,notification_sent\n" +
		"A-101,ahmad,2024-01-01,2024-06-30,1000.00,false,false\n" +
		"A-101,ahmad,2024-07-01,2024-12-31,1250.50,true,false\n"
	assert.Equal(t, expected, string(file.Data))
}

func TestContractExportExcel(t *testing.T) {
	service, _, filter := newExportFixture(t)

	file, err := service.Export(context.Background(), filter, FormatExcel)
	require.NoError(t, err)

	assert.Equal(t, "contracts_20240801.xlsx", file.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)

	workbook, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Contracts")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, contractColumns, rows[0])
	assert.Equal(t, []string{"A-101", "ahmad", "2024-01-01", "2024-06-30", "1000.00", "false", "false"}, rows[1])
}

func TestContractExportRejectsUnknownFormat(t *testing.T) {
	contractRepo := new(MockContractRepository)
	service := NewContractExportService(contractRepo, new(MockUnitRepository), new(MockTenantRepository))

	_, err := service.Export(context.Background(), shared.DefaultFilter(), Format("pdf"))
	require.Error(t, err)
	contractRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}
