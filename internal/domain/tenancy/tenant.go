package tenancy

import (
	"regexp"
	"strings"
	"time"

	"github.com/rentals/backend/internal/domain/shared"
)

// TenantType represents the kind of renting party
type TenantType string

const (
	TenantTypeIndividual TenantType = "individual"
	TenantTypeCompany    TenantType = "company"
)

// IsValid checks whether the tenant type is one of the known kinds
func (t TenantType) IsValid() bool {
	switch t {
	case TenantTypeIndividual, TenantTypeCompany:
		return true
	}
	return false
}

// Tenant represents a renting party (a person or a company).
// It is the aggregate root of the tenancy context.
type Tenant struct {
	shared.BaseAggregateRoot
	Username                     string
	Email                        string
	Phone                        string
	Type                         TenantType
	CompanyName                  string
	CommercialRegistrationNumber string
}

// NewTenant creates a new tenant with required fields.
// Company name and commercial registration number are mandatory for
// company tenants and must be absent for individuals.
func NewTenant(username, email, phone string, tenantType TenantType, companyName, commercialRegistrationNumber string) (*Tenant, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}
	if !tenantType.IsValid() {
		return nil, shared.NewValidationError("Tenant type must be individual or company")
	}
	if err := validateCompanyFields(tenantType, companyName, commercialRegistrationNumber); err != nil {
		return nil, err
	}

	return &Tenant{
		BaseAggregateRoot:            shared.NewBaseAggregateRoot(),
		Username:                     strings.TrimSpace(username),
		Email:                        strings.ToLower(strings.TrimSpace(email)),
		Phone:                        strings.TrimSpace(phone),
		Type:                         tenantType,
		CompanyName:                  strings.TrimSpace(companyName),
		CommercialRegistrationNumber: strings.TrimSpace(commercialRegistrationNumber),
	}, nil
}

// NewIndividualTenant creates a new individual tenant
func NewIndividualTenant(username, email, phone string) (*Tenant, error) {
	return NewTenant(username, email, phone, TenantTypeIndividual, "", "")
}

// NewCompanyTenant creates a new company tenant
func NewCompanyTenant(username, email, phone, companyName, commercialRegistrationNumber string) (*Tenant, error) {
	return NewTenant(username, email, phone, TenantTypeCompany, companyName, commercialRegistrationNumber)
}

// Update updates the tenant's information.
// Switching type re-applies the company field rules.
func (t *Tenant) Update(username, email, phone string, tenantType TenantType, companyName, commercialRegistrationNumber string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if !tenantType.IsValid() {
		return shared.NewValidationError("Tenant type must be individual or company")
	}
	if err := validateCompanyFields(tenantType, companyName, commercialRegistrationNumber); err != nil {
		return err
	}

	t.Username = strings.TrimSpace(username)
	t.Email = strings.ToLower(strings.TrimSpace(email))
	t.Phone = strings.TrimSpace(phone)
	t.Type = tenantType
	t.CompanyName = strings.TrimSpace(companyName)
	t.CommercialRegistrationNumber = strings.TrimSpace(commercialRegistrationNumber)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsCompany returns true for company tenants
func (t *Tenant) IsCompany() bool {
	return t.Type == TenantTypeCompany
}

// DisplayName returns the company name for companies, otherwise the username
func (t *Tenant) DisplayName() string {
	if t.IsCompany() && t.CompanyName != "" {
		return t.CompanyName
	}
	return t.Username
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,14}$`)
)

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewValidationError("Username cannot be empty")
	}
	if len(username) > 150 {
		return shared.NewValidationError("Username cannot exceed 150 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewValidationError("Email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Email format is invalid")
	}
	return nil
}

func validatePhone(phone string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(phone)) {
		return shared.NewValidationError("Phone format is invalid")
	}
	return nil
}

func validateCompanyFields(tenantType TenantType, companyName, commercialRegistrationNumber string) error {
	if tenantType == TenantTypeCompany {
		if strings.TrimSpace(companyName) == "" {
			return shared.NewValidationError("Company name is required for company tenants")
		}
		if strings.TrimSpace(commercialRegistrationNumber) == "" {
			return shared.NewValidationError("Commercial registration number is required for company tenants")
		}
		if len(commercialRegistrationNumber) > 50 {
			return shared.NewValidationError("Commercial registration number cannot exceed 50 characters")
		}
		return nil
	}
	if strings.TrimSpace(companyName) != "" || strings.TrimSpace(commercialRegistrationNumber) != "" {
		return shared.NewValidationError("Company fields are only allowed for company tenants")
	}
	return nil
}
