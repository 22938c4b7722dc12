package handler

import (
	"github.com/gin-gonic/gin"

	reorderapp "github.com/retailops/backend/internal/application/reorder"
)

// ReorderHandler handles reorder lifecycle and replenishment endpoints
type ReorderHandler struct {
	BaseHandler
	reorderService    *reorderapp.ReorderService
	receivingService  *reorderapp.ReceivingService
	suggestionService *reorderapp.SuggestionService
	velocityService   *reorderapp.VelocityService
}

// NewReorderHandler creates a new ReorderHandler
func NewReorderHandler(
	reorderService *reorderapp.ReorderService,
	receivingService *reorderapp.ReceivingService,
	suggestionService *reorderapp.SuggestionService,
	velocityService *reorderapp.VelocityService,
) *ReorderHandler {
	return &ReorderHandler{
		reorderService:    reorderService,
		receivingService:  receivingService,
		suggestionService: suggestionService,
		velocityService:   velocityService,
	}
}

// RegisterRoutes registers reorder routes on the API group
func (h *ReorderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reorders := rg.Group("/reorders")
	{
		reorders.POST("", h.Place)
		reorders.GET("", h.List)
		reorders.GET("/suggestions", h.Suggestions)
		reorders.GET("/status-summary", h.StatusSummary)
		reorders.GET("/velocity", h.Velocity)
		reorders.GET("/number/:number", h.GetByNumber)
		reorders.GET("/:id", h.GetByID)
		reorders.PUT("/:id", h.Update)
		reorders.POST("/:id/receive", h.MarkReceived)
		reorders.POST("/:id/cancel", h.Cancel)
		reorders.DELETE("/:id", h.Delete)
	}
}

// Place places a new reorder with a supplier
func (h *ReorderHandler) Place(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var req reorderapp.CreateReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.reorderService.Place(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves a reorder by ID
func (h *ReorderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	reorderID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.reorderService.GetByID(c.Request.Context(), tenantID, reorderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByNumber retrieves a reorder by its reorder number
func (h *ReorderHandler) GetByNumber(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Reorder number is required")
		return
	}

	order, err := h.reorderService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves a paginated reorder list
func (h *ReorderHandler) List(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var filter reorderapp.ReorderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.reorderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// StatusSummary returns the tenant's reorder counts per status
func (h *ReorderHandler) StatusSummary(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	summary, err := h.reorderService.StatusSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update updates an open reorder
func (h *ReorderHandler) Update(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	reorderID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reorderapp.UpdateReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.reorderService.Update(c.Request.Context(), tenantID, reorderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkReceived records a receiving round against a reorder and returns the
// generated purchase alongside the updated reorder
func (h *ReorderHandler) MarkReceived(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	reorderID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reorderapp.MarkReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.receivingService.MarkReceived(c.Request.Context(), tenantID, reorderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels an open reorder
func (h *ReorderHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	reorderID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.reorderService.Cancel(c.Request.Context(), tenantID, reorderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete deletes a reorder
func (h *ReorderHandler) Delete(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}
	reorderID, ok := h.bindUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reorderService.Delete(c.Request.Context(), tenantID, reorderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Suggestions computes replenishment candidates
func (h *ReorderHandler) Suggestions(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var opts reorderapp.SuggestionOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, err := h.suggestionService.Suggest(c.Request.Context(), tenantID, opts)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rows)
}

// velocityQuery binds the velocity endpoint parameters
type velocityQuery struct {
	LookbackWeeks int `form:"lookback_weeks"`
}

// Velocity returns per-product weekly sales velocities over the lookback
// window
func (h *ReorderHandler) Velocity(c *gin.Context) {
	tenantID, ok := h.bindTenant(c)
	if !ok {
		return
	}

	var query velocityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.LookbackWeeks <= 0 {
		query.LookbackWeeks = 4
	}

	velocities, err := h.velocityService.ComputeVelocity(c.Request.Context(), tenantID, query.LookbackWeeks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, velocities)
}
