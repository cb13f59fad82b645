package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/billing"
)

// DateLayout is the wire format for billing dates
const DateLayout = "2006-01-02"

// RecordPaymentRequest represents a request to apply a payment to an
// invoice
type RecordPaymentRequest struct {
	PaymentDate string          `json:"payment_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=cash credit_card bank_transfer cheque"`
	Reference   string          `json:"reference" binding:"max=100"`
}

// PayFullRequest represents a request to settle an invoice in full
type PayFullRequest struct {
	PaymentDate string `json:"payment_date" binding:"required"`
	Method      string `json:"method" binding:"required,oneof=cash credit_card bank_transfer cheque"`
	Reference   string `json:"reference" binding:"max=100"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	PaymentDate string          `json:"payment_date"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               uuid.UUID         `json:"id"`
	ContractID       uuid.UUID         `json:"contract_id"`
	InvoiceDate      string            `json:"invoice_date"`
	DueDate          string            `json:"due_date"`
	Amount           decimal.Decimal   `json:"amount"`
	TotalPaid        decimal.Decimal   `json:"total_paid"`
	RemainingBalance decimal.Decimal   `json:"remaining_balance"`
	Status           string            `json:"status"`
	Payments         []PaymentResponse `json:"payments"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Version          int               `json:"version"`
}

// GenerationResult reports the outcome of an invoice generation run
type GenerationResult struct {
	GeneratedInvoices int `json:"generated_invoices"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		PaymentDate: p.PaymentDate.Format(DateLayout),
		AmountPaid:  p.AmountPaid.Amount(),
		Method:      string(p.Method),
		Reference:   p.Reference,
		CreatedAt:   p.CreatedAt,
	}
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	payments := make([]PaymentResponse, len(i.Payments))
	for idx := range i.Payments {
		payments[idx] = ToPaymentResponse(&i.Payments[idx])
	}
	return InvoiceResponse{
		ID:               i.ID,
		ContractID:       i.ContractID,
		InvoiceDate:      i.InvoiceDate.Format(DateLayout),
		DueDate:          i.DueDate.Format(DateLayout),
		Amount:           i.Amount.Amount(),
		TotalPaid:        i.TotalPaid().Amount(),
		RemainingBalance: i.RemainingBalance().Amount(),
		Status:           string(i.Status),
		Payments:         payments,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
		Version:          i.Version,
	}
}
