package handler

import (
	"github.com/gin-gonic/gin"

	appreturns "github.com/backoffice/backend/internal/application/returns"
)

// ReturnHandler exposes purchase returns over HTTP
type ReturnHandler struct {
	BaseHandler
	returnService *appreturns.ReturnService
}

// NewReturnHandler creates a purchase return handler
func NewReturnHandler(returnService *appreturns.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// RegisterRoutes registers purchase return routes
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/purchase-returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/:id", h.Get)
		returns.POST("/:id/submit", h.Submit)
		returns.POST("/:id/complete", h.Complete)
		returns.POST("/:id/cancel", h.Cancel)
	}
}

// Create registers a draft purchase return against a purchase
func (h *ReturnHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req appreturns.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	ret, err := h.returnService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// List returns a page of purchase returns
func (h *ReturnHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	rets, err := h.returnService.List(c.Request.Context(), tenantID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rets)
}

// Get returns a purchase return by ID
func (h *ReturnHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	returnID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}
	ret, err := h.returnService.GetByID(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Submit sends a draft return into its approval chain
func (h *ReturnHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	returnID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}
	var req appreturns.SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	ret, err := h.returnService.Submit(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Complete settles an approved return through the chosen refund channel
func (h *ReturnHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	returnID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}
	var req appreturns.CompleteReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	refund, err := h.returnService.Complete(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, refund)
}

// Cancel reverses a return that has not been refunded
func (h *ReturnHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	returnID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}
	if err := h.returnService.Cancel(c.Request.Context(), tenantID, returnID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
