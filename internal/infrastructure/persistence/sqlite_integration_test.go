package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
	"github.com/rentals/backend/internal/domain/tenancy"
	"github.com/rentals/backend/internal/infrastructure/persistence/models"
)

// newSQLiteDB opens an in-memory database with a single connection so
// every query in the test sees the same schema.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.UnitModel{},
		&models.TenantModel{},
		&models.ContractModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
	))
	return db
}

func mustContract(t *testing.T, unitID, tenantID uuid.UUID, start, end time.Time, rent int64) *leasing.Contract {
	t.Helper()
	contract, err := leasing.NewContract(unitID, tenantID, start, end, valueobject.NewMoneySAR(decimal.NewFromInt(rent)))
	require.NoError(t, err)
	return contract
}

func TestSQLiteContractOverlapQuery(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	unitID := uuid.New()
	tenantID := uuid.New()
	existing := mustContract(t, unitID, tenantID, day(2026, 1, 1), day(2026, 6, 30), 2000)
	require.NoError(t, repo.Save(ctx, existing))

	t.Run("touching boundary dates count as overlap", func(t *testing.T) {
		overlapping, err := repo.FindOverlapping(ctx, unitID, day(2026, 6, 30), day(2026, 12, 31), nil)
		require.NoError(t, err)
		require.Len(t, overlapping, 1)
		assert.Equal(t, existing.ID, overlapping[0].ID)
	})

	t.Run("adjacent periods do not overlap", func(t *testing.T) {
		overlapping, err := repo.FindOverlapping(ctx, unitID, day(2026, 7, 1), day(2026, 12, 31), nil)
		require.NoError(t, err)
		assert.Empty(t, overlapping)
	})

	t.Run("the contract being updated is excluded", func(t *testing.T) {
		overlapping, err := repo.FindOverlapping(ctx, unitID, day(2026, 3, 1), day(2026, 9, 30), &existing.ID)
		require.NoError(t, err)
		assert.Empty(t, overlapping)
	})

	t.Run("other units are not considered", func(t *testing.T) {
		overlapping, err := repo.FindOverlapping(ctx, uuid.New(), day(2026, 1, 1), day(2026, 12, 31), nil)
		require.NoError(t, err)
		assert.Empty(t, overlapping)
	})

	t.Run("cancelled contracts do not block the period", func(t *testing.T) {
		cancelled := mustContract(t, unitID, tenantID, day(2027, 1, 1), day(2027, 12, 31), 2000)
		require.NoError(t, cancelled.Cancel())
		require.NoError(t, repo.Save(ctx, cancelled))

		overlapping, err := repo.FindOverlapping(ctx, unitID, day(2027, 3, 1), day(2027, 5, 31), nil)
		require.NoError(t, err)
		assert.Empty(t, overlapping)
	})
}

func TestSQLiteContractActiveAndExpiring(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	unitID := uuid.New()
	tenantID := uuid.New()
	contract := mustContract(t, unitID, tenantID, day(2026, 1, 1), day(2026, 6, 30), 1500)
	require.NoError(t, repo.Save(ctx, contract))

	active, err := repo.FindActiveByUnit(ctx, unitID, day(2026, 3, 15))
	require.NoError(t, err)
	require.Len(t, active, 1)

	active, err = repo.FindActiveByUnit(ctx, unitID, day(2026, 7, 1))
	require.NoError(t, err)
	assert.Empty(t, active)

	expiring, err := repo.FindExpiringBy(ctx, day(2026, 6, 1), day(2026, 7, 31))
	require.NoError(t, err)
	require.Len(t, expiring, 1)

	expiring[0].MarkNotificationSent()
	require.NoError(t, repo.Save(ctx, &expiring[0]))

	expiring, err = repo.FindExpiringBy(ctx, day(2026, 6, 1), day(2026, 7, 31))
	require.NoError(t, err)
	assert.Empty(t, expiring)

	// a contract that ended years before the window never needs a warning
	stale := mustContract(t, uuid.New(), tenantID, day(2020, 1, 1), day(2020, 6, 30), 900)
	require.NoError(t, repo.Save(ctx, stale))

	expiring, err = repo.FindExpiringBy(ctx, day(2026, 6, 1), day(2026, 7, 31))
	require.NoError(t, err)
	assert.Empty(t, expiring)
}

func TestSQLiteSaveWithLockClearsFields(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()

	t.Run("cleared agreement note reaches the database", func(t *testing.T) {
		repo := NewGormContractRepository(db)
		contract := mustContract(t, uuid.New(), uuid.New(), day(2026, 1, 1), day(2026, 12, 31), 1500)
		contract.SetAgreementNote("keep the garden")
		require.NoError(t, repo.Save(ctx, contract))

		contract.SetAgreementNote("")
		require.NoError(t, contract.UpdateTerms(contract.StartDate, contract.EndDate, contract.MonthlyRent))
		require.NoError(t, repo.SaveWithLock(ctx, contract))

		found, err := repo.FindByID(ctx, contract.ID)
		require.NoError(t, err)
		assert.Equal(t, "", found.AgreementNote)
		assert.Equal(t, contract.Version, found.Version)
	})

	t.Run("cleared utility accounts reach the database", func(t *testing.T) {
		repo := NewGormUnitRepository(db)
		unit, err := property.NewUnit("Z-900", property.UnitTypeShop, valueobject.NewMoneySAR(decimal.NewFromInt(800)))
		require.NoError(t, err)
		require.NoError(t, unit.SetUtilityAccounts("ELEC-1", "WATER-1"))
		require.NoError(t, repo.Save(ctx, unit))

		require.NoError(t, unit.SetUtilityAccounts("", ""))
		require.NoError(t, repo.SaveWithLock(ctx, unit))

		found, err := repo.FindByID(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "", found.ElectricityAccount)
		assert.Equal(t, "", found.WaterAccount)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		repo := NewGormContractRepository(db)
		contract := mustContract(t, uuid.New(), uuid.New(), day(2026, 1, 1), day(2026, 12, 31), 1500)
		require.NoError(t, repo.Save(ctx, contract))

		stale := *contract
		require.NoError(t, contract.UpdateTerms(contract.StartDate, contract.EndDate, contract.MonthlyRent))
		require.NoError(t, repo.SaveWithLock(ctx, contract))

		require.NoError(t, stale.UpdateTerms(stale.StartDate, stale.EndDate, stale.MonthlyRent))
		err := repo.SaveWithLock(ctx, &stale)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestSQLiteUnitRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormUnitRepository(db)
	ctx := context.Background()

	unit, err := property.NewUnit("A-101", property.UnitTypeApartment, valueobject.NewMoneySAR(decimal.NewFromInt(2500)))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, unit))

	found, err := repo.FindByNumber(ctx, "A-101")
	require.NoError(t, err)
	assert.Equal(t, unit.ID, found.ID)
	assert.Equal(t, property.UnitStatusAvailable, found.Status)
	assert.True(t, found.RentPrice.Amount().Equal(decimal.NewFromInt(2500)))

	exists, err := repo.ExistsByNumber(ctx, "A-101")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNumber(ctx, "B-202")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByNumber(ctx, "B-202")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	count, err := repo.CountByStatus(ctx, property.UnitStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unit.RecomputeStatus(true)
	require.NoError(t, repo.Save(ctx, unit))

	occupied, err := repo.FindByStatus(ctx, property.UnitStatusOccupied, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, unit.ID, occupied[0].ID)
}

func TestSQLiteInvoiceLedger(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	contractID := uuid.New()
	first, err := billing.NewInvoice(contractID, day(2026, 1, 1), valueobject.NewMoneySAR(decimal.NewFromInt(2000)))
	require.NoError(t, err)
	second, err := billing.NewInvoice(contractID, day(2026, 1, 31), valueobject.NewMoneySAR(decimal.NewFromInt(2000)))
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, []*billing.Invoice{first, second}))

	today := day(2026, 1, 10)
	_, err = first.RecordPayment(day(2026, 1, 10), valueobject.NewMoneySAR(decimal.NewFromInt(700)), billing.PaymentMethodCash, "RCPT-1", today)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	invoices, err := repo.FindByContract(ctx, contractID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	// Ordered by invoice date, payments preloaded
	assert.Equal(t, first.ID, invoices[0].ID)
	require.Len(t, invoices[0].Payments, 1)
	assert.Equal(t, "RCPT-1", invoices[0].Payments[0].Reference)
	assert.True(t, invoices[0].RemainingBalance().Amount().Equal(decimal.NewFromInt(1300)))
	assert.Empty(t, invoices[1].Payments)

	pendingCount, err := repo.CountByStatus(ctx, billing.InvoiceStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pendingCount)

	paid, err := repo.SumPaidAmounts(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 700, paid, 0.001)
}

func TestSQLiteDashboardSummary(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()

	unitRepo := NewGormUnitRepository(db)
	tenantRepo := NewGormTenantRepository(db)
	contractRepo := NewGormContractRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)

	occupied, err := property.NewUnit("A-101", property.UnitTypeApartment, valueobject.NewMoneySAR(decimal.NewFromInt(2000)))
	require.NoError(t, err)
	occupied.RecomputeStatus(true)
	require.NoError(t, unitRepo.Save(ctx, occupied))

	vacant, err := property.NewUnit("B-202", property.UnitTypeShop, valueobject.NewMoneySAR(decimal.NewFromInt(5000)))
	require.NoError(t, err)
	require.NoError(t, unitRepo.Save(ctx, vacant))

	tenant, err := tenancy.NewTenant("acme", "billing@acme.example", "0500000000", tenancy.TenantTypeCompany, "Acme Trading", "CR-12345")
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Save(ctx, tenant))

	contract := mustContract(t, occupied.ID, tenant.ID, day(2026, 1, 1), day(2026, 12, 31), 2000)
	require.NoError(t, contractRepo.Save(ctx, contract))

	invoice, err := billing.NewInvoice(contract.ID, day(2026, 1, 1), valueobject.NewMoneySAR(decimal.NewFromInt(2000)))
	require.NoError(t, err)
	_, err = invoice.PayFull(day(2026, 1, 5), billing.PaymentMethodBankTransfer, "", day(2026, 1, 5))
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Save(ctx, invoice))

	repo := NewGormDashboardRepository(db)
	repo.now = func() time.Time { return day(2026, 6, 1) }

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalUnits)
	assert.Equal(t, int64(1), summary.OccupiedUnits)
	assert.Equal(t, int64(1), summary.AvailableUnits)
	assert.Equal(t, int64(0), summary.MaintenanceUnits)
	assert.Equal(t, int64(1), summary.TotalTenants)
	assert.Equal(t, int64(1), summary.ActiveContracts)
	assert.Equal(t, int64(1), summary.TotalInvoices)
	assert.Equal(t, int64(1), summary.PaidInvoices)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(2000)))

	slices, err := repo.UnitStatusDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, slices, 2)
}
