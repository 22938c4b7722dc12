package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/retailops/backend/internal/application/partner"
)

// SupplierHandler handles supplier API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// RegisterRoutes registers supplier routes on the API group
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.Create)
		suppliers.GET("", h.List)
		suppliers.GET("/:id", h.GetByID)
		suppliers.PUT("/:id", h.Update)
		suppliers.POST("/:id/activate", h.Activate)
		suppliers.POST("/:id/deactivate", h.Deactivate)
		suppliers.DELETE("/:id", h.Delete)
	}
}

// Create creates a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID retrieves a supplier by ID
func (h *SupplierHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	supplierID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List retrieves a paginated supplier list
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var filter partnerapp.SupplierListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, suppliers, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// Update updates a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	supplierID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), tenantID, supplierID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Activate marks a supplier active
func (h *SupplierHandler) Activate(c *gin.Context) {
	h.setStatus(c, true)
}

// Deactivate marks a supplier inactive
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *SupplierHandler) setStatus(c *gin.Context, active bool) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	supplierID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	var supplier *partnerapp.SupplierResponse
	var err error
	if active {
		supplier, err = h.supplierService.Activate(c.Request.Context(), tenantID, supplierID)
	} else {
		supplier, err = h.supplierService.Deactivate(c.Request.Context(), tenantID, supplierID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Delete deletes a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	supplierID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), tenantID, supplierID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
