package fulfillment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// SalesOrderStatus represents the state of a sales order
type SalesOrderStatus string

const (
	SOStatusDraft              SalesOrderStatus = "draft"
	SOStatusConfirmed          SalesOrderStatus = "confirmed"
	SOStatusPartiallyDelivered SalesOrderStatus = "partially_delivered"
	SOStatusDelivered          SalesOrderStatus = "delivered"
	SOStatusPartiallyInvoiced  SalesOrderStatus = "partially_invoiced"
	SOStatusInvoiced           SalesOrderStatus = "invoiced"
	SOStatusCancelled          SalesOrderStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SOStatusDraft, SOStatusConfirmed, SOStatusPartiallyDelivered,
		SOStatusDelivered, SOStatusPartiallyInvoiced, SOStatusInvoiced, SOStatusCancelled:
		return true
	}
	return false
}

// CanDeliver reports whether delivery challans may be cut against the order
func (s SalesOrderStatus) CanDeliver() bool {
	switch s {
	case SOStatusConfirmed, SOStatusPartiallyDelivered, SOStatusDelivered, SOStatusPartiallyInvoiced:
		return true
	}
	return false
}

// SalesOrderItem is a line on a sales order. Delivered and invoiced
// quantities only ever grow, and invoiced never outruns delivered.
type SalesOrderItem struct {
	shared.BaseEntity
	SalesOrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	SKU             string          `gorm:"type:varchar(64);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	DeliveredQty    decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	InvoicedQty     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	Rate            decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

func (i *SalesOrderItem) computeLineTotal() {
	gross := i.Quantity.Mul(i.Rate)
	afterDiscount := gross.Sub(gross.Mul(i.DiscountPercent).Div(decimal.NewFromInt(100)))
	i.LineTotal = afterDiscount.Add(afterDiscount.Mul(i.TaxPercent).Div(decimal.NewFromInt(100))).Round(2)
}

// SalesOrder is the root document of the fulfillment pipeline. Goods move
// out through delivery challans and leave stock only when a challan is
// converted to an invoice.
type SalesOrder struct {
	shared.TenantAggregateRoot
	OrderNumber string           `gorm:"type:varchar(40);not null;index"`
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status      SalesOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	Notes       string           `gorm:"type:text"`
	Items       []SalesOrderItem `gorm:"foreignKey:SalesOrderID"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a draft sales order
func NewSalesOrder(tenantID uuid.UUID, orderNumber string, customerID uuid.UUID) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("order number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer is required")
	}
	return &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		Status:              SOStatusDraft,
		TotalAmount:         decimal.Zero,
	}, nil
}

// AddItem adds a line to a draft order with pricing locked at order time
func (so *SalesOrder) AddItem(itemID uuid.UUID, sku string, qty, rate, taxPercent, discountPercent decimal.Decimal) error {
	if so.Status != SOStatusDraft {
		return shared.NewStateConflict("items can only be added to a draft order")
	}
	if !qty.IsPositive() {
		return shared.NewValidationError("quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewValidationError("rate cannot be negative")
	}
	for _, existing := range so.Items {
		if existing.ItemID == itemID {
			return shared.NewValidationError("item %s is already on the order", sku)
		}
	}
	item := SalesOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		SalesOrderID:    so.ID,
		ItemID:          itemID,
		SKU:             sku,
		Quantity:        qty,
		DeliveredQty:    decimal.Zero,
		InvoicedQty:     decimal.Zero,
		Rate:            rate,
		TaxPercent:      taxPercent,
		DiscountPercent: discountPercent,
	}
	item.computeLineTotal()
	so.Items = append(so.Items, item)
	so.recalculateTotals()
	return nil
}

// Confirm locks the order for fulfillment
func (so *SalesOrder) Confirm() error {
	if so.Status != SOStatusDraft {
		return shared.NewStateConflict("only draft orders can be confirmed, current status: %s", so.Status)
	}
	if len(so.Items) == 0 {
		return shared.NewValidationError("cannot confirm an order without items")
	}
	so.Status = SOStatusConfirmed
	so.AddDomainEvent(NewSalesOrderConfirmedEvent(so))
	return nil
}

// Line returns the order line for an item
func (so *SalesOrder) Line(itemID uuid.UUID) *SalesOrderItem {
	for idx := range so.Items {
		if so.Items[idx].ItemID == itemID {
			return &so.Items[idx]
		}
	}
	return nil
}

// RecordDelivery books challan quantity against a line. Delivered quantity
// can never exceed the ordered quantity.
func (so *SalesOrder) RecordDelivery(itemID uuid.UUID, qty decimal.Decimal) error {
	if !so.Status.CanDeliver() {
		return shared.NewStateConflict("cannot deliver against order in status %s", so.Status)
	}
	if !qty.IsPositive() {
		return shared.NewValidationError("delivered quantity must be positive")
	}
	line := so.Line(itemID)
	if line == nil {
		return shared.NewValidationError("item %s is not on order %s", itemID, so.OrderNumber)
	}
	newDelivered := line.DeliveredQty.Add(qty)
	if newDelivered.GreaterThan(line.Quantity) {
		return shared.NewValidationError(
			"delivered quantity %s would exceed ordered quantity %s for item %s",
			newDelivered.String(), line.Quantity.String(), line.SKU)
	}
	line.DeliveredQty = newDelivered
	so.Status = DeriveDeliveryStatus(so.Items)
	return nil
}

// ReverseDelivery unwinds challan quantity when an unconverted challan is
// deleted. Cannot reverse below what has already been invoiced.
func (so *SalesOrder) ReverseDelivery(itemID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("reversed quantity must be positive")
	}
	line := so.Line(itemID)
	if line == nil {
		return shared.NewValidationError("item %s is not on order %s", itemID, so.OrderNumber)
	}
	newDelivered := line.DeliveredQty.Sub(qty)
	if newDelivered.LessThan(line.InvoicedQty) {
		return shared.NewInvariantViolation(
			"reversing %s of %s would leave delivered %s below invoiced %s",
			qty.String(), line.SKU, newDelivered.String(), line.InvoicedQty.String())
	}
	line.DeliveredQty = newDelivered
	so.Status = DeriveDeliveryStatus(so.Items)
	return nil
}

// RecordInvoiced books invoiced quantity against a line. Invoiced quantity
// is strictly bounded by delivered quantity.
func (so *SalesOrder) RecordInvoiced(itemID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("invoiced quantity must be positive")
	}
	line := so.Line(itemID)
	if line == nil {
		return shared.NewValidationError("item %s is not on order %s", itemID, so.OrderNumber)
	}
	newInvoiced := line.InvoicedQty.Add(qty)
	if newInvoiced.GreaterThan(line.DeliveredQty) {
		return shared.NewValidationError(
			"invoiced quantity %s would exceed delivered quantity %s for item %s",
			newInvoiced.String(), line.DeliveredQty.String(), line.SKU)
	}
	line.InvoicedQty = newInvoiced
	so.Status = DeriveInvoiceStatus(so.Items)
	return nil
}

// Cancel terminates an order no challan has been cut against
func (so *SalesOrder) Cancel() error {
	if so.Status != SOStatusDraft && so.Status != SOStatusConfirmed {
		return shared.NewStateConflict("cannot cancel order in status %s", so.Status)
	}
	for _, item := range so.Items {
		if item.DeliveredQty.IsPositive() {
			return shared.NewStateConflict("cannot cancel order %s with deliveries recorded", so.OrderNumber)
		}
	}
	so.Status = SOStatusCancelled
	return nil
}

func (so *SalesOrder) recalculateTotals() {
	total := decimal.Zero
	for _, item := range so.Items {
		total = total.Add(item.LineTotal)
	}
	so.TotalAmount = total
}

// DeriveDeliveryStatus computes the order status from delivered quantities
func DeriveDeliveryStatus(items []SalesOrderItem) SalesOrderStatus {
	allDelivered := true
	anyDelivered := false
	for _, item := range items {
		if item.DeliveredQty.LessThan(item.Quantity) {
			allDelivered = false
		}
		if item.DeliveredQty.IsPositive() {
			anyDelivered = true
		}
	}
	switch {
	case allDelivered && len(items) > 0:
		return SOStatusDelivered
	case anyDelivered:
		return SOStatusPartiallyDelivered
	default:
		return SOStatusConfirmed
	}
}

// DeriveInvoiceStatus computes the order status from invoiced quantities
func DeriveInvoiceStatus(items []SalesOrderItem) SalesOrderStatus {
	allInvoiced := true
	anyInvoiced := false
	for _, item := range items {
		if item.InvoicedQty.LessThan(item.Quantity) {
			allInvoiced = false
		}
		if item.InvoicedQty.IsPositive() {
			anyInvoiced = true
		}
	}
	switch {
	case allInvoiced && len(items) > 0:
		return SOStatusInvoiced
	case anyInvoiced:
		return SOStatusPartiallyInvoiced
	default:
		return DeriveDeliveryStatus(items)
	}
}
