// Package tenant binds GORM sessions to a tenant Scope and guards every
// statement against tenant-scoped tables.
//
// Usage:
//
//	db := tenant.DB(ctx, gormDB, scope) // WHERE "customers"."tenant_id" = ? is added to every query
//	db.Find(&customers)
//
// Register installs callbacks that reject any query, update or delete on a
// table with a tenant_id column that lacks a tenant condition, and any insert
// whose tenant_id differs from the bound scope.
package tenant

import (
	"context"
	"errors"

	domain "github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the tenant discriminator column of every tenant-scoped table.
const Column = "tenant_id"

const (
	settingTenantID = "tenant:id"
	settingBypass   = "tenant:bypass"
)

var (
	// ErrTenantIDRequired is returned when a session is used without a valid scope.
	ErrTenantIDRequired = errors.New("tenant scope is required")
	// ErrUnscopedQuery is returned when a statement on a tenant-scoped table
	// carries no tenant condition.
	ErrUnscopedQuery = errors.New("statement on a tenant-scoped table has no tenant_id condition")
	// ErrTenantMismatch is returned when an inserted row belongs to another tenant.
	ErrTenantMismatch = errors.New("row tenant_id does not match the bound tenant")
)

// TenantScope applies tenant filtering to GORM queries
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Set(settingTenantID, tenantID).Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  tenantID,
		})
	}
}

// DB returns a reusable session of db bound to scope. An invalid scope
// yields a session on which every operation fails with ErrTenantIDRequired.
func DB(ctx context.Context, db *gorm.DB, scope domain.Scope) *gorm.DB {
	tx := db.WithContext(ctx)
	if !scope.Valid() {
		_ = tx.AddError(ErrTenantIDRequired)
		return tx
	}
	return bind(tx, scope.TenantID())
}

// Transaction runs fn in a database transaction. The tx passed to fn is
// already bound to scope.
func Transaction(ctx context.Context, db *gorm.DB, scope domain.Scope, fn func(tx *gorm.DB) error) error {
	if !scope.Valid() {
		return ErrTenantIDRequired
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx, scope.TenantID()))
	})
}

// CrossTenant marks a session as deliberately unscoped. It exists for the
// few global reads, such as a user's own memberships across companies.
func CrossTenant(db *gorm.DB) *gorm.DB {
	return db.Set(settingBypass, true)
}

// BoundTenant returns the tenant a session was bound to.
func BoundTenant(db *gorm.DB) (uuid.UUID, bool) {
	v, ok := db.Get(settingTenantID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func bind(db *gorm.DB, tenantID uuid.UUID) *gorm.DB {
	return TenantScope(tenantID)(db).Session(&gorm.Session{})
}

func bypassed(db *gorm.DB) bool {
	v, ok := db.Get(settingBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
