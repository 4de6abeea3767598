package models

import (
	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantAggregateModel
	Code          string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	NameKey       string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	UnitOfMeasure string          `gorm:"type:varchar(20);not null"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive      bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		ProductDetails: catalog.ProductDetails{
			Name:          m.Name,
			Description:   m.Description,
			UnitOfMeasure: m.UnitOfMeasure,
			CostPrice:     m.CostPrice,
			SellingPrice:  m.SellingPrice,
			ReorderLevel:  m.ReorderLevel,
		},
		StockQuantity: m.StockQuantity,
		IsActive:      m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.NameKey = p.NameKey()
	m.Description = p.Description
	m.UnitOfMeasure = p.UnitOfMeasure
	m.CostPrice = p.CostPrice
	m.SellingPrice = p.SellingPrice
	m.StockQuantity = p.StockQuantity
	m.ReorderLevel = p.ReorderLevel
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
