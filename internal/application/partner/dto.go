// Package partner implements the customer and supplier use cases.
package partner

import (
	"time"

	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressDTO is the wire form of shared.Address
type AddressDTO struct {
	Line1      string `json:"line1" binding:"max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// =============================================================================
// Customer DTOs
// =============================================================================

// CustomerRequest is the body of customer create and full update. The
// company name is required only for business customers.
type CustomerRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	CustomerType    string          `json:"customer_type" binding:"required,oneof=BUSINESS INDIVIDUAL"`
	CompanyName     string          `json:"company_name" binding:"required_if=CustomerType BUSINESS,max=200"`
	Category        string          `json:"category" binding:"omitempty,oneof=RETAIL WHOLESALE DISTRIBUTOR OTHER"`
	Email           string          `json:"email" binding:"omitempty,email,max=200"`
	Phone           string          `json:"phone" binding:"max=50"`
	TaxID           string          `json:"tax_id" binding:"max=50"`
	BillingAddress  AddressDTO      `json:"billing_address"`
	ShippingAddress AddressDTO      `json:"shipping_address"`
	CreditLimit     decimal.Decimal `json:"credit_limit" swaggertype:"string" binding:"decimal_gte0"`
	PaymentTerms    string          `json:"payment_terms" binding:"omitempty,oneof=NET15 NET30 NET45 NET60 DUE_ON_RECEIPT"`
	Notes           string          `json:"notes" binding:"max=2000"`
}

func (r CustomerRequest) profile() partner.CustomerProfile {
	return partner.CustomerProfile{
		Name:            r.Name,
		CustomerType:    partner.CustomerType(r.CustomerType),
		CompanyName:     r.CompanyName,
		Category:        partner.CustomerCategory(r.Category),
		Email:           r.Email,
		Phone:           r.Phone,
		TaxID:           r.TaxID,
		BillingAddress:  shared.Address(r.BillingAddress),
		ShippingAddress: shared.Address(r.ShippingAddress),
		CreditLimit:     r.CreditLimit,
		PaymentTerms:    partner.PaymentTerms(r.PaymentTerms),
		Notes:           r.Notes,
	}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	CustomerType    string          `json:"customer_type"`
	CompanyName     string          `json:"company_name,omitempty"`
	Category        string          `json:"category"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	TaxID           string          `json:"tax_id,omitempty"`
	BillingAddress  AddressDTO      `json:"billing_address"`
	ShippingAddress AddressDTO      `json:"shipping_address"`
	CreditLimit     decimal.Decimal `json:"credit_limit" swaggertype:"string"`
	PaymentTerms    string          `json:"payment_terms"`
	Notes           string          `json:"notes,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search       string `form:"search"`
	CustomerType string `form:"customer_type" binding:"omitempty,oneof=BUSINESS INDIVIDUAL"`
	Category     string `form:"category" binding:"omitempty,oneof=RETAIL WHOLESALE DISTRIBUTOR OTHER"`
	IsActive     *bool  `form:"is_active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		TenantID:        c.TenantID,
		Code:            c.Code,
		Name:            c.Name,
		CustomerType:    string(c.CustomerType),
		CompanyName:     c.CompanyName,
		Category:        string(c.Category),
		Email:           c.Email,
		Phone:           c.Phone,
		TaxID:           c.TaxID,
		BillingAddress:  AddressDTO(c.BillingAddress),
		ShippingAddress: AddressDTO(c.ShippingAddress),
		CreditLimit:     c.CreditLimit,
		PaymentTerms:    string(c.PaymentTerms),
		Notes:           c.Notes,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// SupplierRequest is the body of supplier create and full update
type SupplierRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=200"`
	SupplierType  string     `json:"supplier_type" binding:"required,oneof=MANUFACTURER DISTRIBUTOR WHOLESALER IMPORTER LOCAL_VENDOR"`
	ContactPerson string     `json:"contact_person" binding:"max=100"`
	Email         string     `json:"email" binding:"omitempty,email,max=200"`
	Phone         string     `json:"phone" binding:"max=50"`
	TaxID         string     `json:"tax_id" binding:"max=50"`
	Address       AddressDTO `json:"address"`
	PaymentTerms  string     `json:"payment_terms" binding:"omitempty,oneof=NET15 NET30 NET45 NET60 DUE_ON_RECEIPT"`
	Notes         string     `json:"notes" binding:"max=2000"`
}

func (r SupplierRequest) profile() partner.SupplierProfile {
	return partner.SupplierProfile{
		Name:          r.Name,
		SupplierType:  partner.SupplierType(r.SupplierType),
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		TaxID:         r.TaxID,
		Address:       shared.Address(r.Address),
		PaymentTerms:  partner.PaymentTerms(r.PaymentTerms),
		Notes:         r.Notes,
	}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	SupplierType  string     `json:"supplier_type"`
	ContactPerson string     `json:"contact_person,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	TaxID         string     `json:"tax_id,omitempty"`
	Address       AddressDTO `json:"address"`
	PaymentTerms  string     `json:"payment_terms"`
	Notes         string     `json:"notes,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Version       int        `json:"version"`
}

// SupplierListFilter represents filter options for supplier list
type SupplierListFilter struct {
	Search       string `form:"search"`
	SupplierType string `form:"supplier_type" binding:"omitempty,oneof=MANUFACTURER DISTRIBUTOR WHOLESALER IMPORTER LOCAL_VENDOR"`
	IsActive     *bool  `form:"is_active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		Code:          s.Code,
		Name:          s.Name,
		SupplierType:  string(s.SupplierType),
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		TaxID:         s.TaxID,
		Address:       AddressDTO(s.Address),
		PaymentTerms:  string(s.PaymentTerms),
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
}

func listFilter(search string, page, limit int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = search
	f.Page, f.PageSize = page, limit
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}
