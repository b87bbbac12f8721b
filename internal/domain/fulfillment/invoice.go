package fulfillment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// PaymentStatus represents how much of an invoice has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// InvoiceItem is a billed line with the pricing that was locked on the
// sales order
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	SKU             string          `gorm:"type:varchar(64);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Invoice is the billing document produced by converting a delivery
// challan. Its creation is the only point where physical stock leaves the
// ledger in the fulfillment pipeline.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber  string          `gorm:"type:varchar(40);not null;index"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalesOrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChallanID      *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	Notes          string          `gorm:"type:text"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an empty invoice tied to a sales order and challan
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, customerID, salesOrderID uuid.UUID, challanID *uuid.UUID) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("invoice number is required")
	}
	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		SalesOrderID:        salesOrderID,
		ChallanID:           challanID,
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		GrandTotal:          decimal.Zero,
		PaidAmount:          decimal.Zero,
		PaymentStatus:       PaymentStatusUnpaid,
	}, nil
}

// AddItem bills a line. Rate, tax and discount come from the sales order's
// locked pricing, or from the item's selling price when the order carries
// none.
func (inv *Invoice) AddItem(itemID uuid.UUID, sku string, qty, rate, taxPercent, discountPercent decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("invoiced quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewValidationError("rate cannot be negative")
	}
	gross := qty.Mul(rate)
	discount := gross.Mul(discountPercent).Div(decimal.NewFromInt(100))
	taxable := gross.Sub(discount)
	tax := taxable.Mul(taxPercent).Div(decimal.NewFromInt(100))

	inv.Items = append(inv.Items, InvoiceItem{
		BaseEntity:      shared.NewBaseEntity(),
		InvoiceID:       inv.ID,
		ItemID:          itemID,
		SKU:             sku,
		Quantity:        qty,
		Rate:            rate,
		TaxPercent:      taxPercent,
		DiscountPercent: discountPercent,
		LineTotal:       taxable.Add(tax).Round(2),
	})
	inv.Subtotal = inv.Subtotal.Add(gross).Round(2)
	inv.DiscountAmount = inv.DiscountAmount.Add(discount).Round(2)
	inv.TaxAmount = inv.TaxAmount.Add(tax).Round(2)
	inv.GrandTotal = inv.GrandTotal.Add(taxable.Add(tax)).Round(2)
	return nil
}

// RecordPayment settles part or all of the invoice
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("payment amount must be positive")
	}
	newPaid := inv.PaidAmount.Add(amount)
	if newPaid.GreaterThan(inv.GrandTotal) {
		return shared.NewValidationError(
			"payment of %s would exceed invoice total %s",
			amount.String(), inv.GrandTotal.String())
	}
	inv.PaidAmount = newPaid
	if inv.PaidAmount.Equal(inv.GrandTotal) {
		inv.PaymentStatus = PaymentStatusPaid
	} else {
		inv.PaymentStatus = PaymentStatusPartial
	}
	inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, amount))
	return nil
}

// OutstandingAmount returns the unpaid balance
func (inv *Invoice) OutstandingAmount() decimal.Decimal {
	return inv.GrandTotal.Sub(inv.PaidAmount)
}
