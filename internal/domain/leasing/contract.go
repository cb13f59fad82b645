package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

const (
	// BillingPeriodDays is the length of one rent billing period
	BillingPeriodDays = 30

	// MaxBillingPeriods caps how many billing periods a single contract
	// may span, which bounds invoice generation.
	MaxBillingPeriods = 120
)

// MunicipalityFeeRate is the annual municipality fee rate applied to rent
var MunicipalityFeeRate = decimal.NewFromFloat(0.03)

// Contract represents a rental agreement binding a tenant to a unit for
// a date range. It is the aggregate root of the leasing context.
//
// MunicipalityFees is derived from the monthly rent and is recomputed on
// every rent change; it is never set by callers.
type Contract struct {
	shared.BaseAggregateRoot
	UnitID           uuid.UUID
	TenantID         uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	MonthlyRent      valueobject.Money
	MunicipalityFees valueobject.Money
	IsCancelled      bool
	NotificationSent bool
	AgreementNote    string

	// Meter readings for utility settlement. Dues are current minus
	// previous and may be negative when a meter was replaced or
	// misread; they are intentionally not clamped.
	ElectricityPreviousReading decimal.Decimal
	ElectricityCurrentReading  decimal.Decimal
	WaterPreviousReading       decimal.Decimal
	WaterCurrentReading        decimal.Decimal
}

// NewContract creates a new contract for a unit and tenant
func NewContract(unitID, tenantID uuid.UUID, startDate, endDate time.Time, monthlyRent valueobject.Money) (*Contract, error) {
	startDate = DateOnly(startDate)
	endDate = DateOnly(endDate)

	if err := validatePeriod(startDate, endDate); err != nil {
		return nil, err
	}
	if !monthlyRent.IsPositive() {
		return nil, shared.NewValidationError("Monthly rent must be positive")
	}

	c := &Contract{
		BaseAggregateRoot:          shared.NewBaseAggregateRoot(),
		UnitID:                     unitID,
		TenantID:                   tenantID,
		StartDate:                  startDate,
		EndDate:                    endDate,
		MonthlyRent:                monthlyRent,
		ElectricityPreviousReading: decimal.Zero,
		ElectricityCurrentReading:  decimal.Zero,
		WaterPreviousReading:       decimal.Zero,
		WaterCurrentReading:        decimal.Zero,
	}
	c.recomputeMunicipalityFees()
	return c, nil
}

// UpdateTerms changes the contract period and rent
func (c *Contract) UpdateTerms(startDate, endDate time.Time, monthlyRent valueobject.Money) error {
	if c.IsCancelled {
		return shared.NewDomainError("CONTRACT_CANCELLED", "Cannot modify a cancelled contract")
	}

	startDate = DateOnly(startDate)
	endDate = DateOnly(endDate)

	if err := validatePeriod(startDate, endDate); err != nil {
		return err
	}
	if !monthlyRent.IsPositive() {
		return shared.NewValidationError("Monthly rent must be positive")
	}

	c.StartDate = startDate
	c.EndDate = endDate
	c.MonthlyRent = monthlyRent
	c.recomputeMunicipalityFees()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Cancel marks the contract as cancelled
func (c *Contract) Cancel() error {
	if c.IsCancelled {
		return shared.NewDomainError("CONTRACT_CANCELLED", "Contract is already cancelled")
	}
	c.IsCancelled = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MarkNotificationSent records that an expiry notification went out
func (c *Contract) MarkNotificationSent() {
	if c.NotificationSent {
		return
	}
	c.NotificationSent = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetAgreementNote sets the free-form agreement note. It rides along
// with the surrounding terms change, so it doesn't bump the version.
func (c *Contract) SetAgreementNote(note string) {
	c.AgreementNote = note
	c.UpdatedAt = time.Now()
}

// SetUtilityReadings records the meter readings for the contract
func (c *Contract) SetUtilityReadings(elecPrevious, elecCurrent, waterPrevious, waterCurrent decimal.Decimal) error {
	for _, r := range []decimal.Decimal{elecPrevious, elecCurrent, waterPrevious, waterCurrent} {
		if r.IsNegative() {
			return shared.NewValidationError("Meter readings cannot be negative")
		}
	}

	c.ElectricityPreviousReading = elecPrevious
	c.ElectricityCurrentReading = elecCurrent
	c.WaterPreviousReading = waterPrevious
	c.WaterCurrentReading = waterCurrent
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ElectricityDues returns the electricity settlement amount (unclamped)
func (c *Contract) ElectricityDues() decimal.Decimal {
	return c.ElectricityCurrentReading.Sub(c.ElectricityPreviousReading)
}

// WaterDues returns the water settlement amount (unclamped)
func (c *Contract) WaterDues() decimal.Decimal {
	return c.WaterCurrentReading.Sub(c.WaterPreviousReading)
}

// Overlaps reports whether the contract period intersects the given
// range. Bounds are inclusive on both sides, so back-to-back contracts
// sharing a boundary date overlap.
func (c *Contract) Overlaps(startDate, endDate time.Time) bool {
	startDate = DateOnly(startDate)
	endDate = DateOnly(endDate)
	return !c.StartDate.After(endDate) && !c.EndDate.Before(startDate)
}

// IsActiveOn reports whether the contract covers the given date and has
// not been cancelled
func (c *Contract) IsActiveOn(date time.Time) bool {
	if c.IsCancelled {
		return false
	}
	date = DateOnly(date)
	return !date.Before(c.StartDate) && !date.After(c.EndDate)
}

// DaysLeft returns the number of days until the contract ends, never
// negative. A cancelled contract has zero days left.
func (c *Contract) DaysLeft(today time.Time) int {
	if c.IsCancelled {
		return 0
	}
	days := int(c.EndDate.Sub(DateOnly(today)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// InvoiceDates returns the billing dates of the contract: one per
// billing period starting at the contract start, up to and including
// the end date.
func (c *Contract) InvoiceDates() []time.Time {
	var dates []time.Time
	for d := c.StartDate; !d.After(c.EndDate) && len(dates) < MaxBillingPeriods; d = d.AddDate(0, 0, BillingPeriodDays) {
		dates = append(dates, d)
	}
	return dates
}

// AnnualRent returns the rent over twelve billing months
func (c *Contract) AnnualRent() valueobject.Money {
	return c.MonthlyRent.MultiplyByInt(12)
}

func (c *Contract) recomputeMunicipalityFees() {
	c.MunicipalityFees = c.MonthlyRent.MultiplyByInt(12).Multiply(MunicipalityFeeRate)
}

func validatePeriod(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return shared.NewValidationError("Start and end dates are required")
	}
	if !endDate.After(startDate) {
		return shared.NewValidationError("End date must be after start date")
	}
	periods := int(endDate.Sub(startDate).Hours()/24)/BillingPeriodDays + 1
	if periods > MaxBillingPeriods {
		return shared.NewValidationError("Contract period exceeds the maximum supported duration")
	}
	return nil
}

// DateOnly truncates a timestamp to midnight UTC so date comparisons
// ignore the time of day
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
