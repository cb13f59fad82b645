package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentals/backend/internal/domain/billing"
	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

// ContractService handles contract lifecycle operations.
//
// Mutations run inside a transaction scope: the contract save, the
// generated invoices and the unit status recompute commit atomically,
// and a row lock on the unit serializes concurrent creations against
// the same unit.
type ContractService struct {
	contractRepo leasing.ContractRepository
	txScope      TransactionScope
	now          func() time.Time
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo leasing.ContractRepository, txScope TransactionScope) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		txScope:      txScope,
		now:          time.Now,
	}
}

// Create creates a new contract, generates its invoices and marks the
// unit occupied when the contract covers today
func (s *ContractService) Create(ctx context.Context, req CreateContractRequest) (*ContractResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	var contract *leasing.Contract
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Lock the unit row first so concurrent creations against the
		// same unit serialize and the overlap check stays sound.
		unit, err := repos.UnitRepo().FindByIDForUpdate(ctx, req.UnitID)
		if err != nil {
			return err
		}
		if _, err := repos.TenantRepo().FindByID(ctx, req.TenantID); err != nil {
			return err
		}

		overlapping, err := repos.ContractRepo().FindOverlapping(ctx, req.UnitID, startDate, endDate, nil)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return shared.NewDomainError("CONTRACT_OVERLAP", "Unit already has a contract overlapping this period")
		}

		rent := unit.RentPrice
		if req.MonthlyRent != nil {
			rent = valueobject.NewMoneySAR(*req.MonthlyRent)
		}

		contract, err = leasing.NewContract(req.UnitID, req.TenantID, startDate, endDate, rent)
		if err != nil {
			return err
		}
		if req.AgreementNote != "" {
			contract.SetAgreementNote(req.AgreementNote)
		}

		if err := repos.ContractRepo().Save(ctx, contract); err != nil {
			return err
		}
		if err := s.ensureInvoices(ctx, repos, contract); err != nil {
			return err
		}
		return s.recomputeUnitStatus(ctx, repos, unit.ID)
	})
	if err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// Update changes the contract terms, keeping the overlap invariant and
// backfilling invoices for any new billing periods
func (s *ContractService) Update(ctx context.Context, contractID uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	var contract *leasing.Contract
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByID(ctx, contractID)
		if err != nil {
			return err
		}

		unit, err := repos.UnitRepo().FindByIDForUpdate(ctx, contract.UnitID)
		if err != nil {
			return err
		}

		startDate := contract.StartDate
		endDate := contract.EndDate
		rent := contract.MonthlyRent
		if req.StartDate != nil {
			if startDate, err = parseDate(*req.StartDate); err != nil {
				return err
			}
		}
		if req.EndDate != nil {
			if endDate, err = parseDate(*req.EndDate); err != nil {
				return err
			}
		}
		if req.MonthlyRent != nil {
			rent = valueobject.NewMoneySAR(*req.MonthlyRent)
		}

		// The overlap check excludes the contract being updated.
		excludeID := contract.ID
		overlapping, err := repos.ContractRepo().FindOverlapping(ctx, contract.UnitID, startDate, endDate, &excludeID)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return shared.NewDomainError("CONTRACT_OVERLAP", "Unit already has a contract overlapping this period")
		}

		if err := contract.UpdateTerms(startDate, endDate, rent); err != nil {
			return err
		}
		if req.AgreementNote != nil {
			contract.SetAgreementNote(*req.AgreementNote)
		}

		if err := repos.ContractRepo().SaveWithLock(ctx, contract); err != nil {
			return err
		}
		if err := s.ensureInvoices(ctx, repos, contract); err != nil {
			return err
		}
		return s.recomputeUnitStatus(ctx, repos, unit.ID)
	})
	if err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// Cancel cancels a contract and rederives the unit status from the
// remaining contracts
func (s *ContractService) Cancel(ctx context.Context, contractID uuid.UUID) (*ContractResponse, error) {
	var contract *leasing.Contract
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByID(ctx, contractID)
		if err != nil {
			return err
		}
		if _, err := repos.UnitRepo().FindByIDForUpdate(ctx, contract.UnitID); err != nil {
			return err
		}
		if err := contract.Cancel(); err != nil {
			return err
		}
		if err := repos.ContractRepo().SaveWithLock(ctx, contract); err != nil {
			return err
		}
		return s.recomputeUnitStatus(ctx, repos, contract.UnitID)
	})
	if err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// SetUtilityReadings records meter readings on a contract
func (s *ContractService) SetUtilityReadings(ctx context.Context, contractID uuid.UUID, req UtilityReadingsRequest) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := contract.SetUtilityReadings(req.ElectricityPrevious, req.ElectricityCurrent, req.WaterPrevious, req.WaterCurrent); err != nil {
		return nil, err
	}
	if err := s.contractRepo.SaveWithLock(ctx, contract); err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// GetByID retrieves a contract by ID
func (s *ContractService) GetByID(ctx context.Context, contractID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// List retrieves contracts with pagination
func (s *ContractService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ContractResponse], error) {
	contracts, err := s.contractRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.contractRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := s.now()
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = ToContractResponse(&contracts[i], today)
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByTenant retrieves the contracts of a tenant
func (s *ContractService) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ContractResponse, error) {
	contracts, err := s.contractRepo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	today := s.now()
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = ToContractResponse(&contracts[i], today)
	}
	return responses, nil
}

// SendExpiryNotifications flags active contracts ending within the
// window as notified and returns how many were flagged
func (s *ContractService) SendExpiryNotifications(ctx context.Context, windowDays int) (*NotificationResult, error) {
	if windowDays <= 0 {
		return nil, shared.NewValidationError("Notification window must be positive")
	}

	today := leasing.DateOnly(s.now())
	deadline := today.AddDate(0, 0, windowDays)
	contracts, err := s.contractRepo.FindExpiringBy(ctx, today, deadline)
	if err != nil {
		return nil, err
	}

	notified := 0
	for i := range contracts {
		contract := &contracts[i]
		contract.MarkNotificationSent()
		if err := s.contractRepo.SaveWithLock(ctx, contract); err != nil {
			return nil, err
		}
		notified++
	}
	return &NotificationResult{NotifiedContracts: notified}, nil
}

// ensureInvoices creates an invoice for every billing period of the
// contract that doesn't have one yet. Amounts follow the rent in force
// at generation time; existing invoices are never touched.
func (s *ContractService) ensureInvoices(ctx context.Context, repos TransactionalRepositories, contract *leasing.Contract) error {
	existing, err := repos.InvoiceRepo().FindByContract(ctx, contract.ID)
	if err != nil {
		return err
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
		invoice, err := billing.NewInvoice(contract.ID, invoiceDate, contract.MonthlyRent)
		if err != nil {
			return err
		}
		invoices = append(invoices, invoice)
	}
	if len(invoices) == 0 {
		return nil
	}
	return repos.InvoiceRepo().SaveBatch(ctx, invoices)
}

// recomputeUnitStatus rederives the unit status from the contracts
// active today and persists it
func (s *ContractService) recomputeUnitStatus(ctx context.Context, repos TransactionalRepositories, unitID uuid.UUID) error {
	unit, err := repos.UnitRepo().FindByID(ctx, unitID)
	if err != nil {
		return err
	}
	active, err := repos.ContractRepo().FindActiveByUnit(ctx, unitID, s.now())
	if err != nil {
		return err
	}
	before := unit.Status
	unit.RecomputeStatus(len(active) > 0)
	if unit.Status == before {
		return nil
	}
	return repos.UnitRepo().SaveWithLock(ctx, unit)
}
