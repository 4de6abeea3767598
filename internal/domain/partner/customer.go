package partner

import (
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeBusiness   CustomerType = "BUSINESS"
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
)

// IsValid checks if the customer type is a valid value
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeBusiness || t == CustomerTypeIndividual
}

// CustomerCategory is the commercial channel of a customer.
type CustomerCategory string

const (
	CustomerCategoryRetail      CustomerCategory = "RETAIL"
	CustomerCategoryWholesale   CustomerCategory = "WHOLESALE"
	CustomerCategoryDistributor CustomerCategory = "DISTRIBUTOR"
	CustomerCategoryOther       CustomerCategory = "OTHER"
)

// IsValid checks if the category is a valid value
func (c CustomerCategory) IsValid() bool {
	switch c {
	case CustomerCategoryRetail, CustomerCategoryWholesale, CustomerCategoryDistributor, CustomerCategoryOther:
		return true
	}
	return false
}

// CustomerProfile is the caller-editable part of a customer.
type CustomerProfile struct {
	Name            string
	CustomerType    CustomerType
	CompanyName     string
	Category        CustomerCategory
	Email           string
	Phone           string
	TaxID           string
	BillingAddress  shared.Address
	ShippingAddress shared.Address
	CreditLimit     decimal.Decimal
	PaymentTerms    PaymentTerms
	Notes           string
}

func (p CustomerProfile) normalized() CustomerProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.TaxID = strings.TrimSpace(p.TaxID)
	p.BillingAddress = p.BillingAddress.Trimmed()
	p.ShippingAddress = p.ShippingAddress.Trimmed()
	if p.Category == "" {
		p.Category = CustomerCategoryOther
	}
	if p.PaymentTerms == "" {
		p.PaymentTerms = PaymentTermsNet30
	}
	if p.CustomerType != CustomerTypeBusiness {
		p.CompanyName = ""
	}
	return p
}

func (p CustomerProfile) validate() error {
	var errs fieldErrors
	errs.checkName("name", p.Name)
	if !p.CustomerType.IsValid() {
		errs.add("customer_type", "Must be one of: BUSINESS INDIVIDUAL", string(p.CustomerType))
	}
	if p.CustomerType == CustomerTypeBusiness && p.CompanyName == "" {
		errs.add("company_name", "Company name is required for business customers", p.CompanyName)
	}
	if !p.Category.IsValid() {
		errs.add("category", "Must be one of: RETAIL WHOLESALE DISTRIBUTOR OTHER", string(p.Category))
	}
	errs.checkContact(p.Email, p.Phone)
	errs.checkNonNegative("credit_limit", p.CreditLimit)
	errs.checkTerms(p.PaymentTerms)
	return errs.err()
}

// Customer is the sales-side party. Customers are soft-deleted only, so
// historical documents keep a valid reference.
type Customer struct {
	shared.TenantAggregateRoot
	Code string
	CustomerProfile
	IsActive bool
}

// NewCustomer creates an active customer without a code. The repository
// assigns the code inside the creating transaction.
func NewCustomer(scope tenant.Scope, profile CustomerProfile) (*Customer, error) {
	profile = profile.normalized()
	if err := profile.validate(); err != nil {
		return nil, err
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(scope.TenantID(), scope.ActorID()),
		CustomerProfile:     profile,
		IsActive:            true,
	}, nil
}

// AssignCode sets the sequential code. A code is issued once and never changes.
func (c *Customer) AssignCode(code string) error {
	if c.Code != "" {
		return shared.NewConflictError("Customer code is immutable once issued")
	}
	c.Code = code
	c.AddDomainEvent(NewPartyCreatedEvent(AggregateTypeCustomer, c.ID, c.TenantID, c.Code, c.Name))
	return nil
}

// NameKey returns the case-insensitive uniqueness key of the name.
func (c *Customer) NameKey() string {
	return NameKey(c.Name)
}

// Update replaces the profile of an active customer.
func (c *Customer) Update(profile CustomerProfile) error {
	if !c.IsActive {
		return shared.NewConflictError("Inactive customers cannot be modified; activate the customer first")
	}
	profile = profile.normalized()
	if err := profile.validate(); err != nil {
		return err
	}
	c.CustomerProfile = profile
	c.Touch()
	return nil
}

// Deactivate soft-deletes the customer.
func (c *Customer) Deactivate() error {
	if !c.IsActive {
		return shared.NewConflictError("Customer is already inactive")
	}
	c.IsActive = false
	c.Touch()
	return nil
}

// Activate restores a soft-deleted customer.
func (c *Customer) Activate() error {
	if c.IsActive {
		return shared.NewConflictError("Customer is already active")
	}
	c.IsActive = true
	c.Touch()
	return nil
}
