package property

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentals/backend/internal/domain/leasing"
	"github.com/rentals/backend/internal/domain/property"
	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

// UnitService handles unit registry operations
type UnitService struct {
	unitRepo     property.UnitRepository
	contractRepo leasing.ContractRepository
	now          func() time.Time
}

// NewUnitService creates a new UnitService
func NewUnitService(unitRepo property.UnitRepository, contractRepo leasing.ContractRepository) *UnitService {
	return &UnitService{
		unitRepo:     unitRepo,
		contractRepo: contractRepo,
		now:          time.Now,
	}
}

// Create creates a new unit
func (s *UnitService) Create(ctx context.Context, req CreateUnitRequest) (*UnitResponse, error) {
	exists, err := s.unitRepo.ExistsByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Unit with this number already exists")
	}

	unit, err := property.NewUnit(req.Number, property.UnitType(req.Type), valueobject.NewMoneySAR(req.RentPrice))
	if err != nil {
		return nil, err
	}
	if req.ElectricityAccount != "" || req.WaterAccount != "" {
		if err := unit.SetUtilityAccounts(req.ElectricityAccount, req.WaterAccount); err != nil {
			return nil, err
		}
	}
	if req.Description != "" {
		unit.SetDescription(req.Description)
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// Update updates a unit's information
func (s *UnitService) Update(ctx context.Context, unitID uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	number := unit.Number
	unitType := unit.Type
	rentPrice := unit.RentPrice
	if req.Number != nil {
		number = *req.Number
	}
	if req.Type != nil {
		unitType = property.UnitType(*req.Type)
	}
	if req.RentPrice != nil {
		rentPrice = valueobject.NewMoneySAR(*req.RentPrice)
	}

	if number != unit.Number {
		exists, err := s.unitRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Unit with this number already exists")
		}
	}

	if err := unit.Update(number, unitType, rentPrice); err != nil {
		return nil, err
	}
	if req.ElectricityAccount != nil || req.WaterAccount != nil {
		electricity := unit.ElectricityAccount
		water := unit.WaterAccount
		if req.ElectricityAccount != nil {
			electricity = *req.ElectricityAccount
		}
		if req.WaterAccount != nil {
			water = *req.WaterAccount
		}
		if err := unit.SetUtilityAccounts(electricity, water); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		unit.SetDescription(*req.Description)
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// SetMaintenance places a unit under maintenance. The unit must not be
// occupied.
func (s *UnitService) SetMaintenance(ctx context.Context, unitID uuid.UUID) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	active, err := s.contractRepo.FindActiveByUnit(ctx, unitID, s.now())
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, shared.NewDomainError("UNIT_OCCUPIED", "Cannot place an occupied unit under maintenance")
	}

	before := unit.Status
	if err := unit.SetMaintenance(); err != nil {
		return nil, err
	}
	if unit.Status != before {
		if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
			return nil, err
		}
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// ClearMaintenance takes a unit out of maintenance
func (s *UnitService) ClearMaintenance(ctx context.Context, unitID uuid.UUID) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	before := unit.Status
	unit.ClearMaintenance()
	if unit.Status != before {
		if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
			return nil, err
		}
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// GetByID retrieves a unit by ID
func (s *UnitService) GetByID(ctx context.Context, unitID uuid.UUID) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// GetByNumber retrieves a unit by its unique number
func (s *UnitService) GetByNumber(ctx context.Context, number string) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// List retrieves units with pagination
func (s *UnitService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UnitResponse], error) {
	units, err := s.unitRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.unitRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = ToUnitResponse(&units[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete deletes a unit. Units referenced by contracts cannot be
// deleted.
func (s *UnitService) Delete(ctx context.Context, unitID uuid.UUID) error {
	count, err := s.contractRepo.CountByUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("UNIT_IN_USE", "Unit has contracts and cannot be deleted")
	}
	return s.unitRepo.Delete(ctx, unitID)
}
