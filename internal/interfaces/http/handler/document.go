package handler

import (
	docapp "github.com/forgeledger/backend/internal/application/document"
	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/gin-gonic/gin"
)

// DocumentPaths is the URL segment of each document kind.
var DocumentPaths = map[document.Kind]string{
	document.KindOrder:         "orders",
	document.KindInvoice:       "invoices",
	document.KindBill:          "bills",
	document.KindPurchaseOrder: "purchase-orders",
}

// DocumentHandler serves one document kind. The four kinds share the same
// routes and differ in lifecycle, counterparty and payability.
type DocumentHandler struct {
	BaseHandler
	documents *docapp.DocumentService
	kind      document.Kind
}

// NewDocumentHandler creates a handler for kind
func NewDocumentHandler(documents *docapp.DocumentService, kind document.Kind) *DocumentHandler {
	return &DocumentHandler{documents: documents, kind: kind}
}

// NewDocumentHandlers returns one handler per document kind.
func NewDocumentHandlers(documents *docapp.DocumentService) []*DocumentHandler {
	handlers := make([]*DocumentHandler, 0, len(document.Kinds))
	for _, k := range document.Kinds {
		handlers = append(handlers, NewDocumentHandler(documents, k))
	}
	return handlers
}

// Create godoc
// @ID           createDocument
// @Summary      Create a draft document
// @Description  Orders and invoices reference a customer, bills and purchase orders a supplier. The document number is allocated from the company's sequence for the issue year.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        Idempotency-Key header string false "Client key making the create safe to retry"
// @Param        request body docapp.DocumentRequest true "Document with its line items"
// @Success      201 {object} APIResponse[docapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind} [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req docapp.DocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), scope, h.kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// CreateFromOrder godoc
// @ID           createInvoiceFromOrder
// @Summary      Invoice an order
// @Description  Creates a draft invoice copying the order's customer, currency, location and lines. The order must be confirmed or later and not cancelled.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        request body docapp.InvoiceFromOrderRequest true "Source order"
// @Success      201 {object} APIResponse[docapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/invoices/from-order [post]
func (h *DocumentHandler) CreateFromOrder(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var req docapp.InvoiceFromOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.documents.CreateInvoiceFromOrder(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// List godoc
// @ID           listDocuments
// @Summary      List documents of a kind
// @Tags         documents
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        search query string false "Document number or counterparty name"
// @Param        status query string false "Status of the kind's lifecycle"
// @Param        counterparty_id query string false "Customer or supplier ID" format(uuid)
// @Param        from_date query string false "Issued on or after (YYYY-MM-DD)"
// @Param        to_date query string false "Issued on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} ListResponse[docapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind} [get]
func (h *DocumentHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	var filter docapp.DocumentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.documents.List(c.Request.Context(), scope, h.kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByID godoc
// @ID           getDocument
// @Summary      Get a document with its lines
// @Tags         documents
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[docapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documents.GetByID(c.Request.Context(), scope, h.kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Update godoc
// @ID           updateDocument
// @Summary      Replace a draft document
// @Description  Allowed only while the document is DRAFT; the number is kept
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body docapp.DocumentRequest true "Document with its line items"
// @Success      200 {object} APIResponse[docapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req docapp.DocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.documents.Update(c.Request.Context(), scope, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a draft document
// @Description  Hard delete, allowed only while the document is DRAFT. The number is not reused.
// @Tags         documents
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), scope, h.kind, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, h.kind.Label()+" deleted")
}

// Transition godoc
// @ID           changeDocumentStatus
// @Summary      Change a document's status
// @Description  The target must be allowed from the current status. An inline payment is applied before a PAID target is checked; shipping fields are accepted only when shipping an order.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body docapp.StatusChangeRequest true "Target status and side-effect fields"
// @Success      200 {object} APIResponse[docapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id}/status [patch]
func (h *DocumentHandler) Transition(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req docapp.StatusChangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.documents.Transition(c.Request.Context(), scope, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Transitions godoc
// @ID           listDocumentTransitions
// @Summary      Status history of a document
// @Tags         documents
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(orders, invoices, bills, purchase-orders)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[[]docapp.TransitionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id}/transitions [get]
func (h *DocumentHandler) Transitions(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	history, err := h.documents.Transitions(c.Request.Context(), scope, h.kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// RecordPayment godoc
// @ID           recordDocumentPayment
// @Summary      Record a payment
// @Description  Invoices and bills only. The amount may not exceed the balance due; the document moves to PARTIALLY_PAID or PAID.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(invoices, bills)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body docapp.PaymentRequest true "Payment"
// @Success      201 {object} APIResponse[docapp.PaymentResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id}/payments [post]
func (h *DocumentHandler) RecordPayment(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req docapp.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.documents.RecordPayment(c.Request.Context(), scope, h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Payments godoc
// @ID           listDocumentPayments
// @Summary      Payments recorded against a document
// @Tags         documents
// @Produce      json
// @Param        tenant path string true "Company ID or slug"
// @Param        kind path string true "Document kind" Enums(invoices, bills)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[[]docapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{tenant}/{kind}/{id}/payments [get]
func (h *DocumentHandler) Payments(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.documents.Payments(c.Request.Context(), scope, h.kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// RegisterScopedRoutes registers the routes of the handler's kind.
func (h *DocumentHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + DocumentPaths[h.kind])
	g.POST("", h.Create)
	g.GET("", h.List)
	if h.kind == document.KindInvoice {
		g.POST("/from-order", h.CreateFromOrder)
	}
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/status", h.Transition)
	g.GET("/:id/transitions", h.Transitions)
	if h.kind.Payable() {
		g.POST("/:id/payments", h.RecordPayment)
		g.GET("/:id/payments", h.Payments)
	}
}
