package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/leasing"
)

// ContractModel is the persistence model for the Contract domain entity.
//
// Dates are stored at midnight UTC; the domain truncates them on the
// way in, so round trips are lossless.
type ContractModel struct {
	AggregateModel
	UnitID                     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartDate                  time.Time       `gorm:"type:date;not null;index"`
	EndDate                    time.Time       `gorm:"type:date;not null;index"`
	MonthlyRent                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RentCurrency               string          `gorm:"type:varchar(3);not null;default:'SAR'"`
	MunicipalityFees           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsCancelled                bool            `gorm:"not null;default:false;index"`
	NotificationSent           bool            `gorm:"not null;default:false"`
	AgreementNote              string          `gorm:"type:text"`
	ElectricityPreviousReading decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ElectricityCurrentReading  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WaterPreviousReading       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WaterCurrentReading        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract entity.
func (m *ContractModel) ToDomain() *leasing.Contract {
	return &leasing.Contract{
		BaseAggregateRoot:          m.ToDomainAggregateRoot(),
		UnitID:                     m.UnitID,
		TenantID:                   m.TenantID,
		StartDate:                  leasing.DateOnly(m.StartDate),
		EndDate:                    leasing.DateOnly(m.EndDate),
		MonthlyRent:                moneyFrom(m.MonthlyRent, m.RentCurrency),
		MunicipalityFees:           moneyFrom(m.MunicipalityFees, m.RentCurrency),
		IsCancelled:                m.IsCancelled,
		NotificationSent:           m.NotificationSent,
		AgreementNote:              m.AgreementNote,
		ElectricityPreviousReading: m.ElectricityPreviousReading,
		ElectricityCurrentReading:  m.ElectricityCurrentReading,
		WaterPreviousReading:       m.WaterPreviousReading,
		WaterCurrentReading:        m.WaterCurrentReading,
	}
}

// FromDomain populates the persistence model from a domain Contract entity.
func (m *ContractModel) FromDomain(c *leasing.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.UnitID = c.UnitID
	m.TenantID = c.TenantID
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.MonthlyRent = c.MonthlyRent.Amount()
	m.RentCurrency = string(c.MonthlyRent.Currency())
	m.MunicipalityFees = c.MunicipalityFees.Amount()
	m.IsCancelled = c.IsCancelled
	m.NotificationSent = c.NotificationSent
	m.AgreementNote = c.AgreementNote
	m.ElectricityPreviousReading = c.ElectricityPreviousReading
	m.ElectricityCurrentReading = c.ElectricityCurrentReading
	m.WaterPreviousReading = c.WaterPreviousReading
	m.WaterCurrentReading = c.WaterCurrentReading
}

// ContractModelFromDomain creates a new persistence model from a domain Contract entity.
func ContractModelFromDomain(c *leasing.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}
