package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/shared"
)

// DateLayout is the wire format for contract dates
const DateLayout = "2006-01-02"

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	UnitID    uuid.UUID `json:"unit_id" binding:"required"`
	TenantID  uuid.UUID `json:"tenant_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
	// MonthlyRent defaults to the unit's rent price when omitted
	MonthlyRent   *decimal.Decimal `json:"monthly_rent"`
	AgreementNote string           `json:"agreement_note"`
}

// UpdateContractRequest represents a request to update a contract
type UpdateContractRequest struct {
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	MonthlyRent   *decimal.Decimal `json:"monthly_rent"`
	AgreementNote *string          `json:"agreement_note"`
}

// UtilityReadingsRequest records the meter readings of a contract
type UtilityReadingsRequest struct {
	ElectricityPrevious decimal.Decimal `json:"electricity_previous"`
	ElectricityCurrent  decimal.Decimal `json:"electricity_current"`
	WaterPrevious       decimal.Decimal `json:"water_previous"`
	WaterCurrent        decimal.Decimal `json:"water_current"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                  uuid.UUID       `json:"id"`
	UnitID              uuid.UUID       `json:"unit_id"`
	TenantID            uuid.UUID       `json:"tenant_id"`
	StartDate           string          `json:"start_date"`
	EndDate             string          `json:"end_date"`
	MonthlyRent         decimal.Decimal `json:"monthly_rent"`
	MunicipalityFees    decimal.Decimal `json:"municipality_fees"`
	IsCancelled         bool            `json:"is_cancelled"`
	NotificationSent    bool            `json:"notification_sent"`
	AgreementNote       string          `json:"agreement_note,omitempty"`
	DaysLeft            int             `json:"days_left"`
	ElectricityPrevious decimal.Decimal `json:"electricity_previous"`
	ElectricityCurrent  decimal.Decimal `json:"electricity_current"`
	ElectricityDues     decimal.Decimal `json:"electricity_dues"`
	WaterPrevious       decimal.Decimal `json:"water_previous"`
	WaterCurrent        decimal.Decimal `json:"water_current"`
	WaterDues           decimal.Decimal `json:"water_dues"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// NotificationResult reports the outcome of an expiry notification run
type NotificationResult struct {
	NotifiedContracts int `json:"notified_contracts"`
}

// ToContractResponse converts a domain contract to a response DTO
func ToContractResponse(c *leasing.Contract, today time.Time) ContractResponse {
	return ContractResponse{
		ID:                  c.ID,
		UnitID:              c.UnitID,
		TenantID:            c.TenantID,
		StartDate:           c.StartDate.Format(DateLayout),
		EndDate:             c.EndDate.Format(DateLayout),
		MonthlyRent:         c.MonthlyRent.Amount(),
		MunicipalityFees:    c.MunicipalityFees.Amount(),
		IsCancelled:         c.IsCancelled,
		NotificationSent:    c.NotificationSent,
		AgreementNote:       c.AgreementNote,
		DaysLeft:            c.DaysLeft(today),
		ElectricityPrevious: c.ElectricityPreviousReading,
		ElectricityCurrent:  c.ElectricityCurrentReading,
		ElectricityDues:     c.ElectricityDues(),
		WaterPrevious:       c.WaterPreviousReading,
		WaterCurrent:        c.WaterCurrentReading,
		WaterDues:           c.WaterDues(),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Version:             c.Version,
	}
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError("Dates must use the YYYY-MM-DD format")
	}
	return d, nil
}
