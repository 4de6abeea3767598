package catalog

import (
	"context"
	"strings"

	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product. Code and name uniqueness is enforced by the
// repository inside its transaction.
func (s *ProductService) Create(ctx context.Context, scope tenant.Scope, req CreateProductRequest) (_ *ProductResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	details := UpdateProductRequest{
		Name:          req.Name,
		Description:   req.Description,
		UnitOfMeasure: req.UnitOfMeasure,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		ReorderLevel:  req.ReorderLevel,
	}.details()
	product, err := catalog.NewProduct(scope, req.Code, details, req.StockQuantity)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, scope, product); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*ProductResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves one page of products
func (s *ProductService) List(ctx context.Context, scope tenant.Scope, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	f := shared.DefaultFilter()
	f.Search = strings.TrimSpace(filter.Search)
	f.Page, f.PageSize = filter.Page, filter.Limit
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.IsActive != nil {
		f.Filters[catalog.FilterIsActive] = *filter.IsActive
	}
	f = f.Normalize()

	products, total, err := s.productRepo.List(ctx, scope, f)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces the details of an active product
func (s *ProductService) Update(ctx context.Context, scope tenant.Scope, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	details := req.details()
	if catalog.NameKey(details.Name) != product.NameKey() {
		taken, err := s.productRepo.ExistsByName(ctx, scope, details.Name, product.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewAlreadyExistsError("Product", "name", strings.TrimSpace(details.Name))
		}
	}
	if err := product.Update(details); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, scope, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// AdjustStock applies a signed delta. The result may not be negative.
func (s *ProductService) AdjustStock(ctx context.Context, scope tenant.Scope, id uuid.UUID, req AdjustStockRequest) (_ *ProductResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "adjust_stock",
		attribute.String("product_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewConflictError("Stock of an inactive product cannot be adjusted")
	}
	before := product.StockQuantity
	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, scope, product); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.String("before", before.String()),
		zap.String("delta", req.Delta.String()),
		zap.String("after", product.StockQuantity.String()),
		zap.String("reason", req.Reason),
	)
	if product.BelowReorderLevel() {
		log.Warn("product at or below reorder level",
			zap.String("code", product.Code),
			zap.String("stock_quantity", product.StockQuantity.String()),
			zap.String("reorder_level", product.ReorderLevel.String()),
		)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Deactivate soft-deletes a product
func (s *ProductService) Deactivate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, scope, id, false)
}

// Activate restores a soft-deleted product
func (s *ProductService) Activate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, scope, id, true)
}

func (s *ProductService) setActive(ctx context.Context, scope tenant.Scope, id uuid.UUID, active bool) (*ProductResponse, error) {
	if err := scope.Require(tenant.ActionDelete); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = product.Activate()
	} else {
		err = product.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, scope, product); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("product status changed",
		zap.String("product_id", product.ID.String()),
		zap.Bool("is_active", active),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}
