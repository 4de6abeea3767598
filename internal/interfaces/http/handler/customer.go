package handler

import (
	partnerapp "github.com/forgeledger/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  Creates a customer and allocates its CUST-NNN code
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        Idempotency-Key header string false "Client key making the create safe to retry"
// @Param        request body partnerapp.CustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        search query string false "Search by code, name, company name or email"
// @Param        customer_type query string false "Customer type" Enums(BUSINESS, INDIVIDUAL)
// @Param        category query string false "Category" Enums(RETAIL, WHOLESALE, DISTRIBUTOR, OTHER)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} ListResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.customerService.List(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Replace a customer's details
// @Description  The code is immutable. Inactive customers cannot be updated.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.CustomerRequest true "Customer update request"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), scope, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate a customer
// @Description  Customers are never removed; historical documents keep referencing them
// @Tags         customers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/customers/{id} [delete]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Reactivate a customer
// @Tags         customers
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Activate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// RegisterScopedRoutes registers the customer routes.
func (h *CustomerHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/customers")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Deactivate)
	g.POST("/:id/activate", h.Activate)
}
