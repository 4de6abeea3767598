package handler

import (
	partnerapp "github.com/forgeledger/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier-related API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a new supplier
// @Description  Creates a supplier and allocates its SUP-NNN code
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        Idempotency-Key header string false "Client key making the create safe to retry"
// @Param        request body partnerapp.SupplierRequest true "Supplier creation request"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        search query string false "Search by code, name, contact person or email"
// @Param        supplier_type query string false "Supplier type" Enums(MANUFACTURER, DISTRIBUTOR, WHOLESALER, IMPORTER, LOCAL_VENDOR)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} ListResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var filter partnerapp.SupplierListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.supplierService.List(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByID godoc
// @ID           getSupplierById
// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Replace a supplier's details
// @Description  The code is immutable. Inactive suppliers cannot be updated.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.SupplierRequest true "Supplier update request"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), scope, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Deactivate godoc
// @ID           deactivateSupplier
// @Summary      Deactivate a supplier
// @Description  Suppliers are soft-deleted so bills and purchase orders keep their reference
// @Tags         suppliers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/suppliers/{id} [delete]
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.Deactivate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Activate godoc
// @ID           activateSupplier
// @Summary      Reactivate a supplier
// @Tags         suppliers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.Activate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// RegisterScopedRoutes registers the supplier routes.
func (h *SupplierHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/suppliers")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Deactivate)
	g.POST("/:id/activate", h.Activate)
}
