package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
)

// StockHandler exposes the stock ledger over HTTP
type StockHandler struct {
	BaseHandler
	stockService *appinventory.StockService
}

// NewStockHandler creates a stock handler
func NewStockHandler(stockService *appinventory.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes registers stock item routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/stock-items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/low-stock", h.ListLowStock)
		items.GET("/sku/:sku", h.GetBySKU)
		items.GET("/:id", h.Get)
		items.GET("/:id/movements", h.ListMovements)
		items.POST("/:id/adjust", h.Adjust)
		items.POST("/:id/pos-sale", h.RecordPOSSale)
	}
}

// Create registers a new stock item
func (h *StockHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req appinventory.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.stockService.CreateItem(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List returns a page of stock items
func (h *StockHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := parseFilter(c)
	items, total, err := h.stockService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListLowStock returns items at or below their reorder level
func (h *StockHandler) ListLowStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	items, err := h.stockService.ListBelowReorderLevel(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get returns a stock item by ID
func (h *StockHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}
	item, err := h.stockService.GetByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetBySKU returns a stock item by SKU
func (h *StockHandler) GetBySKU(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.stockService.GetBySKU(c.Request.Context(), tenantID, c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListMovements returns the movement ledger for an item, newest first
func (h *StockHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}
	movements, err := h.stockService.ListMovements(c.Request.Context(), tenantID, itemID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// Adjust sets the physical quantity of an item to a counted value
func (h *StockHandler) Adjust(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.stockService.AdjustStock(c.Request.Context(), tenantID, itemID, req, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RecordPOSSale deducts stock for a point-of-sale transaction
func (h *StockHandler) RecordPOSSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}
	var req appinventory.POSSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.stockService.RecordPOSSale(c.Request.Context(), tenantID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
