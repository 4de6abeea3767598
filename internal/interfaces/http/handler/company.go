package handler

import (
	tenantapp "github.com/forgeledger/backend/internal/application/tenant"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company registration and membership endpoints
type CompanyHandler struct {
	BaseHandler
	companies *tenantapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companies *tenantapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Register godoc
// @ID           registerCompany
// @Summary      Register a company
// @Description  Creates a company, makes the caller its OWNER and adds a Head Office location
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body tenantapp.RegisterCompanyRequest true "Company registration request"
// @Success      201 {object} APIResponse[tenantapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /companies [post]
func (h *CompanyHandler) Register(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var req tenantapp.RegisterCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	company, err := h.companies.Register(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// ListMine godoc
// @ID           listMyCompanies
// @Summary      List the caller's companies
// @Tags         companies
// @Produce      json
// @Success      200 {object} APIResponse[[]tenantapp.CompanyResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /companies [get]
func (h *CompanyHandler) ListMine(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}
	companies, err := h.companies.ListMine(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, companies)
}

// Get godoc
// @ID           getCompany
// @Summary      Get the current company
// @Tags         companies
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Success      200 {object} APIResponse[tenantapp.CompanyResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	company, err := h.companies.Get(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Deactivate godoc
// @ID           deactivateCompany
// @Summary      Deactivate the current company
// @Description  OWNER only. Every scoped route answers 404 for the company afterwards.
// @Tags         companies
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Success      200 {object} APIResponse[tenantapp.CompanyResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/deactivate [post]
func (h *CompanyHandler) Deactivate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	company, err := h.companies.Deactivate(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// AddMember godoc
// @ID           addCompanyMember
// @Summary      Add a member to the current company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        request body tenantapp.AddMemberRequest true "Membership request"
// @Success      201 {object} APIResponse[tenantapp.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/members [post]
func (h *CompanyHandler) AddMember(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req tenantapp.AddMemberRequest
	if !h.BindJSON(c, &req) {
		return
	}
	member, err := h.companies.AddMember(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// RegisterRoutes registers the routes that need a caller but no company.
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/companies", h.Register)
	rg.GET("/companies", h.ListMine)
}

// RegisterScopedRoutes registers the routes of the current company.
func (h *CompanyHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.POST("/deactivate", h.Deactivate)
	rg.POST("/members", h.AddMember)
}
