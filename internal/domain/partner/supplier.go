package partner

import (
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
)

// SupplierType represents the type of supplier
type SupplierType string

const (
	SupplierTypeManufacturer SupplierType = "MANUFACTURER"
	SupplierTypeDistributor  SupplierType = "DISTRIBUTOR"
	SupplierTypeWholesaler   SupplierType = "WHOLESALER"
	SupplierTypeImporter     SupplierType = "IMPORTER"
	SupplierTypeLocalVendor  SupplierType = "LOCAL_VENDOR"
)

// IsValid checks if the supplier type is a valid value
func (t SupplierType) IsValid() bool {
	switch t {
	case SupplierTypeManufacturer, SupplierTypeDistributor, SupplierTypeWholesaler,
		SupplierTypeImporter, SupplierTypeLocalVendor:
		return true
	}
	return false
}

// SupplierProfile is the caller-editable part of a supplier.
type SupplierProfile struct {
	Name          string
	SupplierType  SupplierType
	ContactPerson string
	Email         string
	Phone         string
	TaxID         string
	Address       shared.Address
	PaymentTerms  PaymentTerms
	Notes         string
}

func (p SupplierProfile) normalized() SupplierProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.TaxID = strings.TrimSpace(p.TaxID)
	p.Address = p.Address.Trimmed()
	if p.PaymentTerms == "" {
		p.PaymentTerms = PaymentTermsNet30
	}
	return p
}

func (p SupplierProfile) validate() error {
	var errs fieldErrors
	errs.checkName("name", p.Name)
	if !p.SupplierType.IsValid() {
		errs.add("supplier_type", "Must be one of: MANUFACTURER DISTRIBUTOR WHOLESALER IMPORTER LOCAL_VENDOR", string(p.SupplierType))
	}
	errs.checkContact(p.Email, p.Phone)
	errs.checkTerms(p.PaymentTerms)
	return errs.err()
}

// Supplier is the purchasing-side party.
type Supplier struct {
	shared.TenantAggregateRoot
	Code string
	SupplierProfile
	IsActive bool
}

// NewSupplier creates an active supplier without a code.
func NewSupplier(scope tenant.Scope, profile SupplierProfile) (*Supplier, error) {
	profile = profile.normalized()
	if err := profile.validate(); err != nil {
		return nil, err
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(scope.TenantID(), scope.ActorID()),
		SupplierProfile:     profile,
		IsActive:            true,
	}, nil
}

// AssignCode sets the sequential code once.
func (s *Supplier) AssignCode(code string) error {
	if s.Code != "" {
		return shared.NewConflictError("Supplier code is immutable once issued")
	}
	s.Code = code
	s.AddDomainEvent(NewPartyCreatedEvent(AggregateTypeSupplier, s.ID, s.TenantID, s.Code, s.Name))
	return nil
}

// NameKey returns the case-insensitive uniqueness key of the name.
func (s *Supplier) NameKey() string {
	return NameKey(s.Name)
}

// Update replaces the profile of an active supplier.
func (s *Supplier) Update(profile SupplierProfile) error {
	if !s.IsActive {
		return shared.NewConflictError("Inactive suppliers cannot be modified; activate the supplier first")
	}
	profile = profile.normalized()
	if err := profile.validate(); err != nil {
		return err
	}
	s.SupplierProfile = profile
	s.Touch()
	return nil
}

// Deactivate soft-deletes the supplier.
func (s *Supplier) Deactivate() error {
	if !s.IsActive {
		return shared.NewConflictError("Supplier is already inactive")
	}
	s.IsActive = false
	s.Touch()
	return nil
}

// Activate restores a soft-deleted supplier.
func (s *Supplier) Activate() error {
	if s.IsActive {
		return shared.NewConflictError("Supplier is already active")
	}
	s.IsActive = true
	s.Touch()
	return nil
}
