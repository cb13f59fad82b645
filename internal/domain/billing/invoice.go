package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

// DueTermDays is how long after the invoice date an invoice falls due
const DueTermDays = 30

// InvoiceStatus represents the settlement status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks whether the status is one of the known values
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// IsTerminal reports whether no further status changes are possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

// IsValid checks whether the method is one of the known values
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodCheque:
		return true
	}
	return false
}

// ErrNothingDue is returned when a full settlement is requested on an
// invoice with no remaining balance
var ErrNothingDue = shared.NewDomainError("NOTHING_DUE", "Invoice has nothing due")

// Payment is a settlement applied to an invoice. Payments are immutable
// once recorded.
type Payment struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID
	PaymentDate time.Time
	AmountPaid  valueobject.Money
	Method      PaymentMethod
	Reference   string
}

// Invoice represents one billing period of a contract. It is the
// aggregate root of the billing context and owns its payments.
//
// Status is stored but always derived: paid when nothing remains,
// overdue when past due with a balance, pending otherwise. A paid
// invoice never leaves that state.
type Invoice struct {
	shared.BaseAggregateRoot
	ContractID  uuid.UUID
	InvoiceDate time.Time
	DueDate     time.Time
	Amount      valueobject.Money
	Status      InvoiceStatus
	Payments    []Payment
}

// NewInvoice creates an invoice for a contract billing period.
// The due date defaults to DueTermDays after the invoice date.
func NewInvoice(contractID uuid.UUID, invoiceDate time.Time, amount valueobject.Money) (*Invoice, error) {
	invoiceDate = dateOnly(invoiceDate)
	if invoiceDate.IsZero() {
		return nil, shared.NewValidationError("Invoice date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Invoice amount must be positive")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		InvoiceDate:       invoiceDate,
		DueDate:           invoiceDate.AddDate(0, 0, DueTermDays),
		Amount:            amount,
		Status:            InvoiceStatusPending,
		Payments:          []Payment{},
	}, nil
}

// TotalPaid returns the sum of all recorded payments
func (i *Invoice) TotalPaid() valueobject.Money {
	total := valueobject.Zero(i.Amount.Currency())
	for _, p := range i.Payments {
		total = total.MustAdd(p.AmountPaid)
	}
	return total
}

// RemainingBalance returns the unpaid portion of the invoice, never
// negative
func (i *Invoice) RemainingBalance() valueobject.Money {
	remaining := i.Amount.MustSubtract(i.TotalPaid())
	if remaining.IsNegative() {
		return valueobject.Zero(i.Amount.Currency())
	}
	return remaining
}

// RecordPayment applies a payment to the invoice and rederives the
// status as of today.
//
// The payment must be positive, must not exceed the remaining balance
// and cannot be dated before the invoice date.
func (i *Invoice) RecordPayment(paymentDate time.Time, amount valueobject.Money, method PaymentMethod, reference string, today time.Time) (*Payment, error) {
	paymentDate = dateOnly(paymentDate)

	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	remaining := i.RemainingBalance()
	exceeds, err := amount.GreaterThan(remaining)
	if err != nil {
		return nil, shared.NewValidationError("Payment currency does not match the invoice")
	}
	if exceeds {
		return nil, shared.NewValidationError("Payment exceeds the remaining balance")
	}
	if paymentDate.Before(i.InvoiceDate) {
		return nil, shared.NewValidationError("Payment date cannot precede the invoice date")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Unknown payment method")
	}

	payment := Payment{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   i.ID,
		PaymentDate: paymentDate,
		AmountPaid:  amount,
		Method:      method,
		Reference:   reference,
	}
	i.Payments = append(i.Payments, payment)
	i.RecomputeStatus(today)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return &i.Payments[len(i.Payments)-1], nil
}

// PayFull settles the entire remaining balance in one payment.
// Returns ErrNothingDue when the invoice is already settled.
func (i *Invoice) PayFull(paymentDate time.Time, method PaymentMethod, reference string, today time.Time) (*Payment, error) {
	remaining := i.RemainingBalance()
	if remaining.IsZero() {
		return nil, ErrNothingDue
	}
	return i.RecordPayment(paymentDate, remaining, method, reference, today)
}

// RecomputeStatus rederives the invoice status as of the given day.
// Paid is terminal: an invoice with nothing remaining stays paid.
func (i *Invoice) RecomputeStatus(today time.Time) {
	today = dateOnly(today)
	switch {
	case i.RemainingBalance().IsZero():
		i.Status = InvoiceStatusPaid
	case i.DueDate.Before(today):
		i.Status = InvoiceStatusOverdue
	default:
		i.Status = InvoiceStatusPending
	}
}

// IsOverdue reports whether the invoice is past due with a balance
func (i *Invoice) IsOverdue(today time.Time) bool {
	return i.DueDate.Before(dateOnly(today)) && !i.RemainingBalance().IsZero()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
