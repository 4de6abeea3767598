package handler

import (
	tenantapp "github.com/forgeledger/backend/internal/application/tenant"
	"github.com/gin-gonic/gin"
)

// LocationHandler handles location endpoints
type LocationHandler struct {
	BaseHandler
	locations *tenantapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locations *tenantapp.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// Create godoc
// @ID           createLocation
// @Summary      Create a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        request body tenantapp.CreateLocationRequest true "Location creation request"
// @Success      201 {object} APIResponse[tenantapp.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req tenantapp.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	loc, err := h.locations.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, loc)
}

// List godoc
// @ID           listLocations
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        search query string false "Name search"
// @Param        location_type query string false "Location type" Enums(HEADQUARTERS, WAREHOUSE, FACTORY, BRANCH, OTHER)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} ListResponse[tenantapp.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var filter tenantapp.LocationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.locations.List(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByID godoc
// @ID           getLocation
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[tenantapp.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/locations/{id} [get]
func (h *LocationHandler) GetByID(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	loc, err := h.locations.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loc)
}

// Deactivate godoc
// @ID           deactivateLocation
// @Summary      Deactivate a location
// @Tags         locations
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[tenantapp.LocationResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/locations/{id} [delete]
func (h *LocationHandler) Deactivate(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	loc, err := h.locations.Deactivate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loc)
}

// RegisterScopedRoutes registers the location routes.
func (h *LocationHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/locations")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.DELETE("/:id", h.Deactivate)
}
