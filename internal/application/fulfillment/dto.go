package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/fulfillment"
)

// SalesOrderLineRequest is one line on a create request
type SalesOrderLineRequest struct {
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Rate            decimal.Decimal `json:"rate"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateSalesOrderRequest creates a draft sales order
type CreateSalesOrderRequest struct {
	CustomerID uuid.UUID               `json:"customer_id" binding:"required"`
	Notes      string                  `json:"notes"`
	Lines      []SalesOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ChallanLineRequest is one shipped line
type ChallanLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateChallanRequest ships goods against a confirmed sales order
type CreateChallanRequest struct {
	SalesOrderID uuid.UUID            `json:"sales_order_id" binding:"required"`
	Notes        string               `json:"notes"`
	Lines        []ChallanLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordPaymentRequest settles part or all of an invoice
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Mode          string          `json:"mode" binding:"required,oneof=cash bank_transfer cheque upi"`
	BankAccountID *uuid.UUID      `json:"bank_account_id"`
}

// SalesOrderLineResponse is the API view of an order line
type SalesOrderLineResponse struct {
	ItemID       uuid.UUID       `json:"item_id"`
	SKU          string          `json:"sku"`
	Quantity     decimal.Decimal `json:"quantity"`
	DeliveredQty decimal.Decimal `json:"delivered_qty"`
	InvoicedQty  decimal.Decimal `json:"invoiced_qty"`
	Rate         decimal.Decimal `json:"rate"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SalesOrderResponse is the API view of a sales order
type SalesOrderResponse struct {
	ID          uuid.UUID                `json:"id"`
	OrderNumber string                   `json:"order_number"`
	CustomerID  uuid.UUID                `json:"customer_id"`
	Status      string                   `json:"status"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	Lines       []SalesOrderLineResponse `json:"lines"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ToSalesOrderResponse maps a domain order to its API view
func ToSalesOrderResponse(so *fulfillment.SalesOrder) SalesOrderResponse {
	lines := make([]SalesOrderLineResponse, 0, len(so.Items))
	for idx := range so.Items {
		item := &so.Items[idx]
		lines = append(lines, SalesOrderLineResponse{
			ItemID:       item.ItemID,
			SKU:          item.SKU,
			Quantity:     item.Quantity,
			DeliveredQty: item.DeliveredQty,
			InvoicedQty:  item.InvoicedQty,
			Rate:         item.Rate,
			LineTotal:    item.LineTotal,
		})
	}
	return SalesOrderResponse{
		ID:          so.ID,
		OrderNumber: so.OrderNumber,
		CustomerID:  so.CustomerID,
		Status:      string(so.Status),
		TotalAmount: so.TotalAmount,
		Lines:       lines,
		CreatedAt:   so.CreatedAt,
	}
}

// ChallanResponse is the API view of a delivery challan
type ChallanResponse struct {
	ID            uuid.UUID  `json:"id"`
	ChallanNumber string     `json:"challan_number"`
	SalesOrderID  uuid.UUID  `json:"sales_order_id"`
	Status        string     `json:"status"`
	Converted     bool       `json:"converted_to_invoice"`
	ConvertedAt   *time.Time `json:"converted_at,omitempty"`
}

// ToChallanResponse maps a domain challan to its API view
func ToChallanResponse(dc *fulfillment.DeliveryChallan) ChallanResponse {
	return ChallanResponse{
		ID:            dc.ID,
		ChallanNumber: dc.ChallanNumber,
		SalesOrderID:  dc.SalesOrderID,
		Status:        string(dc.Status),
		Converted:     dc.ConvertedToInvoice,
		ConvertedAt:   dc.ConvertedAt,
	}
}

// InvoiceResponse is the API view of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	SalesOrderID  uuid.UUID       `json:"sales_order_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse maps a domain invoice to its API view
func ToInvoiceResponse(inv *fulfillment.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		SalesOrderID:  inv.SalesOrderID,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		GrandTotal:    inv.GrandTotal,
		PaidAmount:    inv.PaidAmount,
		Outstanding:   inv.OutstandingAmount(),
		PaymentStatus: string(inv.PaymentStatus),
		CreatedAt:     inv.CreatedAt,
	}
}
