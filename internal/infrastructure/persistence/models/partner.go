package models

import (
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
// NameKey backs the per-tenant case-insensitive name uniqueness.
type CustomerModel struct {
	TenantAggregateModel
	Code            string                   `gorm:"type:varchar(30);not null"`
	Name            string                   `gorm:"type:varchar(200);not null"`
	NameKey         string                   `gorm:"type:varchar(200);not null"`
	CustomerType    partner.CustomerType     `gorm:"type:varchar(20);not null"`
	CompanyName     string                   `gorm:"type:varchar(200)"`
	Category        partner.CustomerCategory `gorm:"type:varchar(20);not null;default:'OTHER'"`
	Email           string                   `gorm:"type:varchar(200)"`
	Phone           string                   `gorm:"type:varchar(50)"`
	TaxID           string                   `gorm:"type:varchar(50)"`
	BillingAddress  shared.Address           `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress shared.Address           `gorm:"embedded;embeddedPrefix:shipping_"`
	CreditLimit     decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentTerms    partner.PaymentTerms     `gorm:"type:varchar(20);not null;default:'NET30'"`
	Notes           string                   `gorm:"type:text"`
	IsActive        bool                     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		CustomerProfile: partner.CustomerProfile{
			Name:            m.Name,
			CustomerType:    m.CustomerType,
			CompanyName:     m.CompanyName,
			Category:        m.Category,
			Email:           m.Email,
			Phone:           m.Phone,
			TaxID:           m.TaxID,
			BillingAddress:  m.BillingAddress,
			ShippingAddress: m.ShippingAddress,
			CreditLimit:     m.CreditLimit,
			PaymentTerms:    m.PaymentTerms,
			Notes:           m.Notes,
		},
		IsActive: m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.NameKey = c.NameKey()
	m.CustomerType = c.CustomerType
	m.CompanyName = c.CompanyName
	m.Category = c.Category
	m.Email = c.Email
	m.Phone = c.Phone
	m.TaxID = c.TaxID
	m.BillingAddress = c.BillingAddress
	m.ShippingAddress = c.ShippingAddress
	m.CreditLimit = c.CreditLimit
	m.PaymentTerms = c.PaymentTerms
	m.Notes = c.Notes
	m.IsActive = c.IsActive
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	TenantAggregateModel
	Code          string               `gorm:"type:varchar(30);not null"`
	Name          string               `gorm:"type:varchar(200);not null"`
	NameKey       string               `gorm:"type:varchar(200);not null"`
	SupplierType  partner.SupplierType `gorm:"type:varchar(20);not null"`
	ContactPerson string               `gorm:"type:varchar(200)"`
	Email         string               `gorm:"type:varchar(200)"`
	Phone         string               `gorm:"type:varchar(50)"`
	TaxID         string               `gorm:"type:varchar(50)"`
	Address       shared.Address       `gorm:"embedded;embeddedPrefix:address_"`
	PaymentTerms  partner.PaymentTerms `gorm:"type:varchar(20);not null;default:'NET30'"`
	Notes         string               `gorm:"type:text"`
	IsActive      bool                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		SupplierProfile: partner.SupplierProfile{
			Name:          m.Name,
			SupplierType:  m.SupplierType,
			ContactPerson: m.ContactPerson,
			Email:         m.Email,
			Phone:         m.Phone,
			TaxID:         m.TaxID,
			Address:       m.Address,
			PaymentTerms:  m.PaymentTerms,
			Notes:         m.Notes,
		},
		IsActive: m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.NameKey = s.NameKey()
	m.SupplierType = s.SupplierType
	m.ContactPerson = s.ContactPerson
	m.Email = s.Email
	m.Phone = s.Phone
	m.TaxID = s.TaxID
	m.Address = s.Address
	m.PaymentTerms = s.PaymentTerms
	m.Notes = s.Notes
	m.IsActive = s.IsActive
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
