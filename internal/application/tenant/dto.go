package tenant

import (
	"time"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// RegisterCompanyRequest creates a company. Slug defaults to the name.
type RegisterCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Slug string `json:"slug" binding:"omitempty,max=100,slug"`
}

// AddMemberRequest grants a user a role in the current company.
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required,oneof=OWNER ADMIN MANAGER EMPLOYEE"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	Currency  string    `json:"currency"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberResponse represents a membership in API responses
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AddressDTO is the wire form of shared.Address
type AddressDTO struct {
	Line1      string `json:"line1" binding:"max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// ToDomain converts the DTO to a shared.Address
func (a AddressDTO) ToDomain() shared.Address {
	return shared.Address(a)
}

// AddressFromDomain converts a shared.Address to its DTO
func AddressFromDomain(a shared.Address) AddressDTO {
	return AddressDTO(a)
}

// CreateLocationRequest creates a location
type CreateLocationRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=200"`
	LocationType string     `json:"location_type" binding:"omitempty,oneof=HEADQUARTERS WAREHOUSE FACTORY BRANCH OTHER"`
	Email        string     `json:"email" binding:"omitempty,email,max=200"`
	Phone        string     `json:"phone" binding:"max=50"`
	Address      AddressDTO `json:"address"`
}

// LocationListFilter represents filter options for the location list
type LocationListFilter struct {
	Search       string `form:"search"`
	LocationType string `form:"location_type" binding:"omitempty,oneof=HEADQUARTERS WAREHOUSE FACTORY BRANCH OTHER"`
	IsActive     *bool  `form:"is_active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Name           string     `json:"name"`
	LocationType   string     `json:"location_type"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        AddressDTO `json:"address"`
	IsDefault      bool       `json:"is_default"`
	IsHeadquarters bool       `json:"is_headquarters"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// ToCompanyResponse converts a tenant to its response DTO
func ToCompanyResponse(t *tenant.Tenant) CompanyResponse {
	return CompanyResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Status:    string(t.Status),
		Currency:  t.Currency,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToMemberResponse converts a membership to its response DTO
func ToMemberResponse(m *tenant.Membership) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		TenantID:  m.TenantID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// ToLocationResponse converts a location to its response DTO
func ToLocationResponse(l *tenant.Location) LocationResponse {
	return LocationResponse{
		ID:             l.ID,
		TenantID:       l.TenantID,
		Name:           l.Name,
		LocationType:   string(l.Type),
		Email:          l.Email,
		Phone:          l.Phone,
		Address:        AddressFromDomain(l.Address),
		IsDefault:      l.IsDefault,
		IsHeadquarters: l.IsHeadquarters,
		IsActive:       l.IsActive,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		Version:        l.Version,
	}
}
