package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentals/backend/internal/domain/property"
)

// CreateUnitRequest represents a request to create a new unit
type CreateUnitRequest struct {
	Number             string          `json:"number" binding:"required,min=1,max=50"`
	Type               string          `json:"type" binding:"required,oneof=apartment office shop"`
	RentPrice          decimal.Decimal `json:"rent_price" binding:"required"`
	ElectricityAccount string          `json:"electricity_account" binding:"max=50"`
	WaterAccount       string          `json:"water_account" binding:"max=50"`
	Description        string          `json:"description"`
}

// UpdateUnitRequest represents a request to update a unit
type UpdateUnitRequest struct {
	Number             *string          `json:"number" binding:"omitempty,min=1,max=50"`
	Type               *string          `json:"type" binding:"omitempty,oneof=apartment office shop"`
	RentPrice          *decimal.Decimal `json:"rent_price"`
	ElectricityAccount *string          `json:"electricity_account" binding:"omitempty,max=50"`
	WaterAccount       *string          `json:"water_account" binding:"omitempty,max=50"`
	Description        *string          `json:"description"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Number             string          `json:"number"`
	Type               string          `json:"type"`
	Status             string          `json:"status"`
	RentPrice          decimal.Decimal `json:"rent_price"`
	ElectricityAccount string          `json:"electricity_account"`
	WaterAccount       string          `json:"water_account"`
	Description        string          `json:"description"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToUnitResponse converts a domain unit to a response DTO
func ToUnitResponse(u *property.Unit) UnitResponse {
	return UnitResponse{
		ID:                 u.ID,
		Number:             u.Number,
		Type:               string(u.Type),
		Status:             string(u.Status),
		RentPrice:          u.RentPrice.Amount(),
		ElectricityAccount: u.ElectricityAccount,
		WaterAccount:       u.WaterAccount,
		Description:        u.Description,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		Version:            u.Version,
	}
}
