package models

import (
	"github.com/rentals/backend/internal/domain/tenancy"
)

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	AggregateModel
	Username                     string             `gorm:"type:varchar(150);not null;uniqueIndex:idx_tenant_username"`
	Email                        string             `gorm:"type:varchar(200);not null;index"`
	Phone                        string             `gorm:"type:varchar(20)"`
	Type                         tenancy.TenantType `gorm:"type:varchar(20);not null;default:'individual'"`
	CompanyName                  string             `gorm:"type:varchar(200)"`
	CommercialRegistrationNumber string             `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *tenancy.Tenant {
	return &tenancy.Tenant{
		BaseAggregateRoot:            m.ToDomainAggregateRoot(),
		Username:                     m.Username,
		Email:                        m.Email,
		Phone:                        m.Phone,
		Type:                         m.Type,
		CompanyName:                  m.CompanyName,
		CommercialRegistrationNumber: m.CommercialRegistrationNumber,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *tenancy.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Username = t.Username
	m.Email = t.Email
	m.Phone = t.Phone
	m.Type = t.Type
	m.CompanyName = t.CompanyName
	m.CommercialRegistrationNumber = t.CommercialRegistrationNumber
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *tenancy.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
