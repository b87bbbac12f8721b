package handler

import (
	"github.com/gin-gonic/gin"

	appfulfillment "github.com/backoffice/backend/internal/application/fulfillment"
)

// FulfillmentHandler exposes the sales pipeline over HTTP: sales orders,
// delivery challans and invoices.
type FulfillmentHandler struct {
	BaseHandler
	orderService   *appfulfillment.SalesOrderService
	challanService *appfulfillment.ChallanService
	invoiceService *appfulfillment.InvoiceService
}

// NewFulfillmentHandler creates a fulfillment handler
func NewFulfillmentHandler(orderService *appfulfillment.SalesOrderService, challanService *appfulfillment.ChallanService, invoiceService *appfulfillment.InvoiceService) *FulfillmentHandler {
	return &FulfillmentHandler{
		orderService:   orderService,
		challanService: challanService,
		invoiceService: invoiceService,
	}
}

// RegisterRoutes registers sales order, challan and invoice routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/sales-orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/challans", h.ListOrderChallans)
		orders.POST("/:id/confirm", h.ConfirmOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
	}
	challans := rg.Group("/challans")
	{
		challans.POST("", h.CreateChallan)
		challans.GET("/:id", h.GetChallan)
		challans.DELETE("/:id", h.DeleteChallan)
	}
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/from-challan/:id", h.ConvertChallan)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/payments", h.RecordPayment)
	}
}

// CreateOrder registers a draft sales order
func (h *FulfillmentHandler) CreateOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req appfulfillment.CreateSalesOrderRequest
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

// ListOrders returns a page of sales orders
func (h *FulfillmentHandler) ListOrders(c *gin.Context) {
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

// GetOrder returns a sales order by ID
func (h *FulfillmentHandler) GetOrder(c *gin.Context) {
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

// ListOrderChallans returns the challans cut against a sales order
func (h *FulfillmentHandler) ListOrderChallans(c *gin.Context) {
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
	challans, err := h.challanService.ListBySalesOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, challans)
}

// ConfirmOrder reserves stock for every line of a draft order
func (h *FulfillmentHandler) ConfirmOrder(c *gin.Context) {
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
	order, err := h.orderService.Confirm(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CancelOrder withdraws an order and releases its reservations
func (h *FulfillmentHandler) CancelOrder(c *gin.Context) {
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

// CreateChallan cuts a delivery challan against a confirmed order
func (h *FulfillmentHandler) CreateChallan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req appfulfillment.CreateChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	challan, err := h.challanService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, challan)
}

// GetChallan returns a delivery challan by ID
func (h *FulfillmentHandler) GetChallan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	challanID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid challan ID")
		return
	}
	challan, err := h.challanService.GetByID(c.Request.Context(), tenantID, challanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, challan)
}

// DeleteChallan withdraws an uninvoiced challan and reverses its
// in-transit stock
func (h *FulfillmentHandler) DeleteChallan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	challanID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid challan ID")
		return
	}
	if err := h.challanService.Delete(c.Request.Context(), tenantID, challanID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConvertChallan turns a delivery challan into an invoice, committing
// the stock decrement
func (h *FulfillmentHandler) ConvertChallan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	challanID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid challan ID")
		return
	}
	invoice, err := h.invoiceService.ConvertChallan(c.Request.Context(), tenantID, challanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListInvoices returns a page of invoices
func (h *FulfillmentHandler) ListInvoices(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoices, err := h.invoiceService.List(c.Request.Context(), tenantID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// GetInvoice returns an invoice by ID
func (h *FulfillmentHandler) GetInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoiceID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice ID")
		return
	}
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RecordPayment applies a customer payment to an invoice
func (h *FulfillmentHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoiceID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice ID")
		return
	}
	var req appfulfillment.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
