package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

// InvoiceService handles the invoice ledger and payment recording.
//
// Payment mutations run inside a transaction scope with a row lock on
// the invoice, so two concurrent payments against the same invoice
// cannot both pass the remaining balance check.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	contractRepo leasing.ContractRepository
	txScope      TransactionScope
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, contractRepo leasing.ContractRepository, txScope TransactionScope) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		contractRepo: contractRepo,
		txScope:      txScope,
		now:          time.Now,
	}
}

// GenerateForContract creates an invoice for every billing period of
// the contract that doesn't have one yet. The run is idempotent:
// periods already billed are skipped and existing invoices are never
// touched.
func (s *InvoiceService) GenerateForContract(ctx context.Context, contractID uuid.UUID) (*GenerationResult, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.IsCancelled {
		return nil, shared.NewDomainError("CONTRACT_CANCELLED", "Cannot generate invoices for a cancelled contract")
	}

	existing, err := s.invoiceRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	billed := make(map[time.Time]bool, len(existing))
	for _, inv := range existing {
		billed[inv.InvoiceDate] = true
	}

	var invoices []*billing.Invoice
	for _, invoiceDate := range contract.InvoiceDates() {
		if billed[invoiceDate] {
			continue
		}
		invoice, err := billing.NewInvoice(contractID, invoiceDate, contract.MonthlyRent)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	if len(invoices) > 0 {
		if err := s.invoiceRepo.SaveBatch(ctx, invoices); err != nil {
			return nil, err
		}
	}
	return &GenerationResult{GeneratedInvoices: len(invoices)}, nil
}

// RecordPayment applies a payment to an invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	var invoice *billing.Invoice
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		amount := valueobject.NewMoneySAR(req.Amount)
		if _, err := invoice.RecordPayment(paymentDate, amount, billing.PaymentMethod(req.Method), req.Reference, s.now()); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// PayFull settles an invoice's entire remaining balance in one payment
func (s *InvoiceService) PayFull(ctx context.Context, invoiceID uuid.UUID, req PayFullRequest) (*InvoiceResponse, error) {
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	var invoice *billing.Invoice
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if _, err := invoice.PayFull(paymentDate, billing.PaymentMethod(req.Method), req.Reference, s.now()); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice with its payments
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with pagination
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByContract retrieves the invoices of a contract
func (s *InvoiceService) ListByContract(ctx context.Context, contractID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// ListPayments retrieves payments across all invoices with pagination
func (s *InvoiceService) ListPayments(ctx context.Context, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	payments, err := s.invoiceRepo.FindPayments(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountPayments(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// RefreshOverdue rederives the stored status of pending invoices that
// have passed their due date. Returns how many invoices flipped.
func (s *InvoiceService) RefreshOverdue(ctx context.Context) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0 // unpaginated

	pending, err := s.invoiceRepo.FindByStatus(ctx, billing.InvoiceStatusPending, filter)
	if err != nil {
		return 0, err
	}

	today := s.now()
	flipped := 0
	for i := range pending {
		invoice := &pending[i]
		before := invoice.Status
		invoice.RecomputeStatus(today)
		if invoice.Status == before {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return flipped, err
		}
		flipped++
	}
	return flipped, nil
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError("Dates must use the YYYY-MM-DD format")
	}
	return d, nil
}
