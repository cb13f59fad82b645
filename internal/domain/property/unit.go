package property

import (
	"strings"
	"time"

	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

// UnitType represents the kind of rentable unit
type UnitType string

const (
	UnitTypeApartment UnitType = "apartment"
	UnitTypeOffice    UnitType = "office"
	UnitTypeShop      UnitType = "shop"
)

// IsValid checks whether the unit type is one of the known kinds
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeApartment, UnitTypeOffice, UnitTypeShop:
		return true
	}
	return false
}

// UnitStatus represents the occupancy status of a unit
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "available"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

// IsValid checks whether the status is one of the known values
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusAvailable, UnitStatusOccupied, UnitStatusMaintenance:
		return true
	}
	return false
}

// Unit represents a rentable unit (apartment, office or shop).
// It is the aggregate root of the property context.
//
// Status is derived: a unit with a contract covering today is occupied,
// otherwise it is available unless it has been explicitly placed under
// maintenance. Callers never set Status directly; they report occupancy
// through RecomputeStatus.
type Unit struct {
	shared.BaseAggregateRoot
	Number             string
	Type               UnitType
	Status             UnitStatus
	RentPrice          valueobject.Money
	ElectricityAccount string
	WaterAccount       string
	Description        string
}

// NewUnit creates a new unit with required fields
func NewUnit(number string, unitType UnitType, rentPrice valueobject.Money) (*Unit, error) {
	if err := validateUnitNumber(number); err != nil {
		return nil, err
	}
	if !unitType.IsValid() {
		return nil, shared.NewValidationError("Unit type must be apartment, office or shop")
	}
	if !rentPrice.IsPositive() {
		return nil, shared.NewValidationError("Rent price must be positive")
	}

	return &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            strings.TrimSpace(number),
		Type:              unitType,
		Status:            UnitStatusAvailable,
		RentPrice:         rentPrice,
	}, nil
}

// Update updates the unit's basic information
func (u *Unit) Update(number string, unitType UnitType, rentPrice valueobject.Money) error {
	if err := validateUnitNumber(number); err != nil {
		return err
	}
	if !unitType.IsValid() {
		return shared.NewValidationError("Unit type must be apartment, office or shop")
	}
	if !rentPrice.IsPositive() {
		return shared.NewValidationError("Rent price must be positive")
	}

	u.Number = strings.TrimSpace(number)
	u.Type = unitType
	u.RentPrice = rentPrice
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetUtilityAccounts sets the electricity and water account numbers
func (u *Unit) SetUtilityAccounts(electricity, water string) error {
	if len(electricity) > 50 {
		return shared.NewValidationError("Electricity account cannot exceed 50 characters")
	}
	if len(water) > 50 {
		return shared.NewValidationError("Water account cannot exceed 50 characters")
	}

	u.ElectricityAccount = electricity
	u.WaterAccount = water
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetDescription sets the free-form description
func (u *Unit) SetDescription(description string) {
	u.Description = description
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// RecomputeStatus derives the unit status from current occupancy.
// An active contract always wins; an explicit maintenance flag survives
// only while the unit is not occupied.
func (u *Unit) RecomputeStatus(hasActiveContract bool) {
	newStatus := ComputeUnitStatus(u.Status == UnitStatusMaintenance, hasActiveContract)
	if newStatus == u.Status {
		return
	}
	u.Status = newStatus
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// SetMaintenance places the unit under maintenance.
// Fails while the unit is occupied.
func (u *Unit) SetMaintenance() error {
	if u.Status == UnitStatusOccupied {
		return shared.NewDomainError("UNIT_OCCUPIED", "Cannot place an occupied unit under maintenance")
	}
	if u.Status == UnitStatusMaintenance {
		return nil
	}
	u.Status = UnitStatusMaintenance
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ClearMaintenance takes the unit out of maintenance
func (u *Unit) ClearMaintenance() {
	if u.Status != UnitStatusMaintenance {
		return
	}
	u.Status = UnitStatusAvailable
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// IsAvailable returns true if the unit can be offered for rent
func (u *Unit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// ComputeUnitStatus derives a unit status from the maintenance flag and
// current occupancy. Occupancy always wins over maintenance.
func ComputeUnitStatus(underMaintenance, hasActiveContract bool) UnitStatus {
	if hasActiveContract {
		return UnitStatusOccupied
	}
	if underMaintenance {
		return UnitStatusMaintenance
	}
	return UnitStatusAvailable
}

func validateUnitNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewValidationError("Unit number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewValidationError("Unit number cannot exceed 50 characters")
	}
	return nil
}
