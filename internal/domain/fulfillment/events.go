package fulfillment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Event types for the fulfillment pipeline
const (
	EventTypeSOConfirmed            = "fulfillment.sales_order.confirmed"
	EventTypeChallanConverted       = "fulfillment.delivery_challan.converted"
	EventTypeInvoicePaymentRecorded = "fulfillment.invoice.payment_recorded"
)

// SalesOrderConfirmedEvent is raised when a draft order is confirmed
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSalesOrderConfirmedEvent creates a confirmed event
func NewSalesOrderConfirmedEvent(so *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeSOConfirmed, "SalesOrder", so.ID, so.TenantID),
		OrderNumber: so.OrderNumber,
		CustomerID:  so.CustomerID,
		TotalAmount: so.TotalAmount,
	}
}

// ChallanConvertedEvent is raised when a challan becomes an invoice
type ChallanConvertedEvent struct {
	shared.BaseDomainEvent
	ChallanNumber string    `json:"challan_number"`
	SalesOrderID  uuid.UUID `json:"sales_order_id"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
}

// NewChallanConvertedEvent creates a converted event
func NewChallanConvertedEvent(dc *DeliveryChallan, invoiceID uuid.UUID) *ChallanConvertedEvent {
	return &ChallanConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeChallanConverted, "DeliveryChallan", dc.ID, dc.TenantID),
		ChallanNumber: dc.ChallanNumber,
		SalesOrderID:  dc.SalesOrderID,
		InvoiceID:     invoiceID,
	}
}

// InvoicePaymentRecordedEvent is raised when a payment is applied
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewInvoicePaymentRecordedEvent creates a payment recorded event
func NewInvoicePaymentRecordedEvent(inv *Invoice, amount decimal.Decimal) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInvoicePaymentRecorded, "Invoice", inv.ID, inv.TenantID),
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        amount,
		PaymentStatus: inv.PaymentStatus,
	}
}
