package models

import (
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/property"
)

// UnitModel is the persistence model for the Unit domain entity.
type UnitModel struct {
	AggregateModel
	Number             string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_unit_number"`
	Type               property.UnitType   `gorm:"type:varchar(20);not null"`
	Status             property.UnitStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	RentPrice          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	RentCurrency       string              `gorm:"type:varchar(3);not null;default:'SAR'"`
	ElectricityAccount string              `gorm:"type:varchar(50)"`
	WaterAccount       string              `gorm:"type:varchar(50)"`
	Description        string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit entity.
func (m *UnitModel) ToDomain() *property.Unit {
	return &property.Unit{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Number:             m.Number,
		Type:               m.Type,
		Status:             m.Status,
		RentPrice:          moneyFrom(m.RentPrice, m.RentCurrency),
		ElectricityAccount: m.ElectricityAccount,
		WaterAccount:       m.WaterAccount,
		Description:        m.Description,
	}
}

// FromDomain populates the persistence model from a domain Unit entity.
func (m *UnitModel) FromDomain(u *property.Unit) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Number = u.Number
	m.Type = u.Type
	m.Status = u.Status
	m.RentPrice = u.RentPrice.Amount()
	m.RentCurrency = string(u.RentPrice.Currency())
	m.ElectricityAccount = u.ElectricityAccount
	m.WaterAccount = u.WaterAccount
	m.Description = u.Description
}

// UnitModelFromDomain creates a new persistence model from a domain Unit entity.
func UnitModelFromDomain(u *property.Unit) *UnitModel {
	m := &UnitModel{}
	m.FromDomain(u)
	return m
}
