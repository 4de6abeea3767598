package handler

import (
	catalogapp "github.com/forgeledger/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Description  The code is supplied by the caller, upper-cased and unique per company
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        Idempotency-Key header string false "Client key making the create safe to retry"
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        search query string false "Search by code or name"
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} ListResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.productService.List(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByID godoc
// @ID           getProductById
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Replace a product's details
// @Description  Stock is changed through the stock endpoint only. Inactive products cannot be updated.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), scope, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AdjustStock godoc
// @ID           adjustProductStock
// @Summary      Adjust stock by a signed delta
// @Description  Rejected with 409 when the resulting quantity would be negative
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.AdjustStockRequest true "Stock adjustment"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), scope, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Tags         products
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Reactivate a product
// @Tags         products
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RegisterScopedRoutes registers the product routes.
func (h *ProductHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Deactivate)
	g.POST("/:id/stock", h.AdjustStock)
	g.POST("/:id/activate", h.Activate)
}
