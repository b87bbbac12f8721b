package handler

import (
	"github.com/gin-gonic/gin"

	appprocurement "github.com/backoffice/backend/internal/application/procurement"
)

// PurchaseOrderHandler exposes the procurement pipeline over HTTP
type PurchaseOrderHandler struct {
	BaseHandler
	orderService   *appprocurement.PurchaseOrderService
	receiptService *appprocurement.GoodsReceiptService
}

// NewPurchaseOrderHandler creates a procurement handler
func NewPurchaseOrderHandler(orderService *appprocurement.PurchaseOrderService, receiptService *appprocurement.GoodsReceiptService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService, receiptService: receiptService}
}

// RegisterRoutes registers purchase order and goods receipt routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/submit", h.Submit)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/convert", h.Convert)
	}
	purchases := rg.Group("/purchases")
	{
		purchases.POST("/:id/cancel", h.CancelPurchase)
	}
	receipts := rg.Group("/goods-receipts")
	{
		receipts.POST("", h.CreateReceipt)
		receipts.GET("/:id", h.GetReceipt)
		receipts.POST("/:id/finalize", h.FinalizeReceipt)
		receipts.POST("/:id/cancel", h.CancelReceipt)
	}
}

// Create registers a draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req appprocurement.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List returns a page of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orders, err := h.orderService.List(c.Request.Context(), tenantID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get returns a purchase order by ID
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Submit sends a draft order into its approval chain
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}
	var req appprocurement.SubmitPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	order, err := h.orderService.Submit(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel withdraws an order that has not been received against
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}
	var req cancelRequest
	if err := bindOptional(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Convert snapshots a received order into a purchase document
func (h *PurchaseOrderHandler) Convert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}
	purchase, err := h.orderService.ConvertToPurchase(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appprocurement.ToPurchaseResponse(purchase))
}

// CancelPurchase voids a purchase document, reversing its stock and
// payable effects
func (h *PurchaseOrderHandler) CancelPurchase(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	purchaseID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid purchase ID")
		return
	}
	var req cancelRequest
	if err := bindOptional(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.orderService.CancelPurchase(c.Request.Context(), tenantID, purchaseID, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateReceipt registers a draft goods receipt against an order
func (h *PurchaseOrderHandler) CreateReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req appprocurement.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receipt, err := h.receiptService.CreateDraft(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// GetReceipt returns a goods receipt by ID
func (h *PurchaseOrderHandler) GetReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid receipt ID")
		return
	}
	receipt, err := h.receiptService.GetByID(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// FinalizeReceipt posts a draft receipt to the stock ledger
func (h *PurchaseOrderHandler) FinalizeReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid receipt ID")
		return
	}
	receipt, err := h.receiptService.Finalize(c.Request.Context(), tenantID, receiptID, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// CancelReceipt discards a draft receipt
func (h *PurchaseOrderHandler) CancelReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid receipt ID")
		return
	}
	if err := h.receiptService.CancelDraft(c.Request.Context(), tenantID, receiptID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
