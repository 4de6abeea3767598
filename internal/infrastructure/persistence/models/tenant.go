package models

import (
	"time"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// TenantModel is the persistence model for the Tenant aggregate. Tenants are
// global rows and carry no tenant_id.
type TenantModel struct {
	AggregateModel
	Name     string        `gorm:"type:varchar(200);not null"`
	Slug     string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status   tenant.Status `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Currency string        `gorm:"type:varchar(3);not null;default:'INR'"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() *tenant.Tenant {
	return &tenant.Tenant{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Status:            m.Status,
		Currency:          m.Currency,
	}
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant.
func TenantModelFromDomain(t *tenant.Tenant) *TenantModel {
	m := &TenantModel{
		Name:     t.Name,
		Slug:     t.Slug,
		Status:   t.Status,
		Currency: t.Currency,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// MembershipModel links a user to a tenant with a role.
type MembershipModel struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID   `gorm:"type:uuid;not null"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Role      tenant.Role `gorm:"type:varchar(20);not null"`
	IsActive  bool        `gorm:"not null"`
	CreatedAt time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "tenant_memberships"
}

// ToDomain converts the persistence model to a domain Membership.
func (m *MembershipModel) ToDomain() *tenant.Membership {
	return &tenant.Membership{
		ID:        m.ID,
		TenantID:  m.TenantID,
		UserID:    m.UserID,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// MembershipModelFromDomain creates a new persistence model from a domain Membership.
func MembershipModelFromDomain(ms *tenant.Membership) *MembershipModel {
	return &MembershipModel{
		ID:        ms.ID,
		TenantID:  ms.TenantID,
		UserID:    ms.UserID,
		Role:      ms.Role,
		IsActive:  ms.IsActive,
		CreatedAt: ms.CreatedAt,
	}
}

// LocationModel is the persistence model for a tenant Location.
type LocationModel struct {
	TenantAggregateModel
	Name           string              `gorm:"type:varchar(200);not null"`
	Type           tenant.LocationType `gorm:"column:location_type;type:varchar(20);not null"`
	Email          string              `gorm:"type:varchar(200)"`
	Phone          string              `gorm:"type:varchar(50)"`
	Address        shared.Address      `gorm:"embedded;embeddedPrefix:address_"`
	IsDefault      bool                `gorm:"not null"`
	IsHeadquarters bool                `gorm:"not null"`
	IsActive       bool                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location.
func (m *LocationModel) ToDomain() *tenant.Location {
	return &tenant.Location{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
		IsDefault:           m.IsDefault,
		IsHeadquarters:      m.IsHeadquarters,
		IsActive:            m.IsActive,
	}
}

// LocationModelFromDomain creates a new persistence model from a domain Location.
func LocationModelFromDomain(l *tenant.Location) *LocationModel {
	m := &LocationModel{
		Name:           l.Name,
		Type:           l.Type,
		Email:          l.Email,
		Phone:          l.Phone,
		Address:        l.Address,
		IsDefault:      l.IsDefault,
		IsHeadquarters: l.IsHeadquarters,
		IsActive:       l.IsActive,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}
