package tenancy

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentals/backend/internal/domain/tenancy"
)

// CreateTenantRequest represents a request to register a tenant
type CreateTenantRequest struct {
	Username                     string `json:"username" binding:"required,min=1,max=150"`
	Email                        string `json:"email" binding:"required,email,max=200"`
	Phone                        string `json:"phone" binding:"max=20"`
	Type                         string `json:"type" binding:"required,oneof=individual company"`
	CompanyName                  string `json:"company_name" binding:"max=200"`
	CommercialRegistrationNumber string `json:"commercial_registration_number" binding:"max=50"`
}

// UpdateTenantRequest represents a request to update a tenant
type UpdateTenantRequest struct {
	Username                     *string `json:"username" binding:"omitempty,min=1,max=150"`
	Email                        *string `json:"email" binding:"omitempty,email,max=200"`
	Phone                        *string `json:"phone" binding:"omitempty,max=20"`
	Type                         *string `json:"type" binding:"omitempty,oneof=individual company"`
	CompanyName                  *string `json:"company_name" binding:"omitempty,max=200"`
	CommercialRegistrationNumber *string `json:"commercial_registration_number" binding:"omitempty,max=50"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID                           uuid.UUID `json:"id"`
	Username                     string    `json:"username"`
	Email                        string    `json:"email"`
	Phone                        string    `json:"phone"`
	Type                         string    `json:"type"`
	CompanyName                  string    `json:"company_name,omitempty"`
	CommercialRegistrationNumber string    `json:"commercial_registration_number,omitempty"`
	DisplayName                  string    `json:"display_name"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
	Version                      int       `json:"version"`
}

// ToTenantResponse converts a domain tenant to a response DTO
func ToTenantResponse(t *tenancy.Tenant) TenantResponse {
	return TenantResponse{
		ID:                           t.ID,
		Username:                     t.Username,
		Email:                        t.Email,
		Phone:                        t.Phone,
		Type:                         string(t.Type),
		CompanyName:                  t.CompanyName,
		CommercialRegistrationNumber: t.CommercialRegistrationNumber,
		DisplayName:                  t.DisplayName(),
		CreatedAt:                    t.CreatedAt,
		UpdatedAt:                    t.UpdatedAt,
		Version:                      t.Version,
	}
}
