// Package catalog implements the product use cases.
package catalog

import (
	"time"

	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required,min=1,max=50"`
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"required,min=1,max=20"`
	CostPrice     decimal.Decimal `json:"cost_price" swaggertype:"string" binding:"decimal_gte0"`
	SellingPrice  decimal.Decimal `json:"selling_price" swaggertype:"string" binding:"decimal_gte0"`
	ReorderLevel  decimal.Decimal `json:"reorder_level" swaggertype:"string" binding:"decimal_gte0"`
	StockQuantity decimal.Decimal `json:"stock_quantity" swaggertype:"string" binding:"decimal_gte0"`
}

// UpdateProductRequest replaces the editable details. The code and stock
// quantity are not part of it.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"required,min=1,max=20"`
	CostPrice     decimal.Decimal `json:"cost_price" swaggertype:"string" binding:"decimal_gte0"`
	SellingPrice  decimal.Decimal `json:"selling_price" swaggertype:"string" binding:"decimal_gte0"`
	ReorderLevel  decimal.Decimal `json:"reorder_level" swaggertype:"string" binding:"decimal_gte0"`
}

func (r UpdateProductRequest) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:          r.Name,
		Description:   r.Description,
		UnitOfMeasure: r.UnitOfMeasure,
		CostPrice:     r.CostPrice,
		SellingPrice:  r.SellingPrice,
		ReorderLevel:  r.ReorderLevel,
	}
}

// AdjustStockRequest carries a signed stock delta
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" swaggertype:"string" binding:"required"`
	Reason string          `json:"reason" binding:"max=500"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	CostPrice         decimal.Decimal `json:"cost_price" swaggertype:"string"`
	SellingPrice      decimal.Decimal `json:"selling_price" swaggertype:"string"`
	StockQuantity     decimal.Decimal `json:"stock_quantity" swaggertype:"string"`
	ReorderLevel      decimal.Decimal `json:"reorder_level" swaggertype:"string"`
	BelowReorderLevel bool            `json:"below_reorder_level"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		UnitOfMeasure:     p.UnitOfMeasure,
		CostPrice:         p.CostPrice,
		SellingPrice:      p.SellingPrice,
		StockQuantity:     p.StockQuantity,
		ReorderLevel:      p.ReorderLevel,
		BelowReorderLevel: p.BelowReorderLevel(),
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}
