// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: base persistence models (BaseModel, AggregateModel, TenantAggregateModel)
//   - tenant.go: tenants, memberships, locations
//   - partner.go: customers and suppliers
//   - catalog.go: products
//   - document.go: documents, lines, payments, transition records
//   - sequence.go: per-tenant code counters
//
// The schema itself is owned by the SQL files under migrations/; the gorm tags
// here describe the same columns.
package models
