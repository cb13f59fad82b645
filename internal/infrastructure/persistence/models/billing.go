package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
// Payments live in their own table and are loaded with the invoice.
type InvoiceModel struct {
	AggregateModel
	ContractID  uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_contract_date,priority:1"`
	InvoiceDate time.Time             `gorm:"type:date;not null;uniqueIndex:idx_invoice_contract_date,priority:2"`
	DueDate     time.Time             `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency    string                `gorm:"type:varchar(3);not null;default:'SAR'"`
	Status      billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Payments    []PaymentModel        `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	invoice := &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractID:        m.ContractID,
		InvoiceDate:       leasing.DateOnly(m.InvoiceDate),
		DueDate:           leasing.DateOnly(m.DueDate),
		Amount:            moneyFrom(m.Amount, m.Currency),
		Status:            m.Status,
		Payments:          make([]billing.Payment, len(m.Payments)),
	}
	for i := range m.Payments {
		invoice.Payments[i] = *m.Payments[i].ToDomain()
	}
	return invoice
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.ContractID = i.ContractID
	m.InvoiceDate = i.InvoiceDate
	m.DueDate = i.DueDate
	m.Amount = i.Amount.Amount()
	m.Currency = string(i.Amount.Currency())
	m.Status = i.Status
	m.Payments = make([]PaymentModel, len(i.Payments))
	for idx := range i.Payments {
		m.Payments[idx] = *PaymentModelFromDomain(&i.Payments[idx])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// PaymentModel is the persistence model for the Payment child entity.
type PaymentModel struct {
	BaseModel
	InvoiceID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	PaymentDate time.Time             `gorm:"type:date;not null"`
	AmountPaid  decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency    string                `gorm:"type:varchar(3);not null;default:'SAR'"`
	Method      billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference   string                `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		InvoiceID:   m.InvoiceID,
		PaymentDate: leasing.DateOnly(m.PaymentDate),
		AmountPaid:  moneyFrom(m.AmountPaid, m.Currency),
		Method:      m.Method,
		Reference:   m.Reference,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.InvoiceID = p.InvoiceID
	m.PaymentDate = p.PaymentDate
	m.AmountPaid = p.AmountPaid.Amount()
	m.Currency = string(p.AmountPaid.Currency())
	m.Method = p.Method
	m.Reference = p.Reference
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
