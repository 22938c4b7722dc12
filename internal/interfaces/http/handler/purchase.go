package handler

import (
	"github.com/gin-gonic/gin"

	purchaseapp "github.com/retailops/backend/internal/application/purchase"
)

// PurchaseHandler handles purchase record API endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *purchaseapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *purchaseapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// RegisterRoutes registers purchase routes on the API group
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.Create)
		purchases.GET("", h.List)
		purchases.GET("/invoice/:number", h.GetByInvoiceNumber)
		purchases.GET("/:id", h.GetByID)
		purchases.POST("/:id/mark-paid", h.MarkPaid)
		purchases.POST("/:id/mark-partially-paid", h.MarkPartiallyPaid)
	}
}

// Create records a purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var req purchaseapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.purchaseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// GetByID retrieves a purchase by ID
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	purchaseID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.purchaseService.GetByID(c.Request.Context(), tenantID, purchaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByInvoiceNumber retrieves a purchase by its invoice number
func (h *PurchaseHandler) GetByInvoiceNumber(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Invoice number is required")
		return
	}

	record, err := h.purchaseService.GetByInvoiceNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// List retrieves a paginated purchase list
func (h *PurchaseHandler) List(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var filter purchaseapp.PurchaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	records, total, err := h.purchaseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// MarkPaid marks a purchase fully paid
func (h *PurchaseHandler) MarkPaid(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	purchaseID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.purchaseService.MarkPaid(c.Request.Context(), tenantID, purchaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// MarkPartiallyPaid marks a purchase partially paid
func (h *PurchaseHandler) MarkPartiallyPaid(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	purchaseID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.purchaseService.MarkPartiallyPaid(c.Request.Context(), tenantID, purchaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}
