package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the state of a purchase order
type PurchaseOrderStatus string

const (
	POStatusDraft             PurchaseOrderStatus = "draft"
	POStatusPendingApproval   PurchaseOrderStatus = "pending_approval"
	POStatusApproved          PurchaseOrderStatus = "approved"
	POStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	POStatusFullyReceived     PurchaseOrderStatus = "fully_received"
	POStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusPendingApproval, POStatusApproved,
		POStatusPartiallyReceived, POStatusFullyReceived, POStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	transitions := map[PurchaseOrderStatus][]PurchaseOrderStatus{
		POStatusDraft:             {POStatusPendingApproval, POStatusCancelled},
		POStatusPendingApproval:   {POStatusApproved, POStatusDraft, POStatusCancelled},
		POStatusApproved:          {POStatusPartiallyReceived, POStatusFullyReceived, POStatusCancelled},
		POStatusPartiallyReceived: {POStatusPartiallyReceived, POStatusFullyReceived, POStatusCancelled},
		POStatusFullyReceived:     {},
		POStatusCancelled:         {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CanReceiveGoods reports whether goods may be booked against the order
func (s PurchaseOrderStatus) CanReceiveGoods() bool {
	return s == POStatusApproved || s == POStatusPartiallyReceived
}

// PurchaseOrderItem is a line on a purchase order. Rate, tax and discount
// are locked at ordering time and reused by downstream documents.
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	SKU             string          `gorm:"type:varchar(64);not null"`
	OrderedQty      decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	Rate            decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PendingQty returns the quantity ordered but not yet received, floored at
// zero
func (i *PurchaseOrderItem) PendingQty() decimal.Decimal {
	pending := i.OrderedQty.Sub(i.ReceivedQty)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// IsFullyReceived reports whether the line is complete
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQty.GreaterThanOrEqual(i.OrderedQty)
}

// AddReceivedQuantity books received goods against the line
func (i *PurchaseOrderItem) AddReceivedQuantity(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("received quantity must be positive")
	}
	newReceived := i.ReceivedQty.Add(qty)
	if newReceived.GreaterThan(i.OrderedQty) {
		return shared.NewValidationError(
			"received quantity %s would exceed ordered quantity %s for item %s",
			newReceived.String(), i.OrderedQty.String(), i.SKU)
	}
	i.ReceivedQty = newReceived
	return nil
}

func (i *PurchaseOrderItem) computeLineTotal() {
	gross := i.OrderedQty.Mul(i.Rate)
	afterDiscount := gross.Sub(gross.Mul(i.DiscountPercent).Div(decimal.NewFromInt(100)))
	i.LineTotal = afterDiscount.Add(afterDiscount.Mul(i.TaxPercent).Div(decimal.NewFromInt(100))).Round(2)
}

// PurchaseOrder is the root document of the procurement pipeline. Stock is
// reserved when the order clears approval and consumed as goods receipts
// are finalized against it.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber         string              `gorm:"type:varchar(40);not null;index"`
	SupplierID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status              PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount         decimal.Decimal     `gorm:"type:decimal(15,2);not null;default:0"`
	Notes               string              `gorm:"type:text"`
	ConvertedToPurchase bool                `gorm:"not null;default:false"`
	Items               []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("order number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier is required")
	}
	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		Status:              POStatusDraft,
		TotalAmount:         decimal.Zero,
	}, nil
}

// AddItem adds a line to a draft order. Duplicate items are rejected;
// amend the existing line instead.
func (po *PurchaseOrder) AddItem(itemID uuid.UUID, sku string, qty, rate, taxPercent, discountPercent decimal.Decimal) error {
	if po.Status != POStatusDraft {
		return shared.NewStateConflict("items can only be added to a draft order")
	}
	if !qty.IsPositive() {
		return shared.NewValidationError("ordered quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewValidationError("rate cannot be negative")
	}
	for _, existing := range po.Items {
		if existing.ItemID == itemID {
			return shared.NewValidationError("item %s is already on the order", sku)
		}
	}
	item := PurchaseOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: po.ID,
		ItemID:          itemID,
		SKU:             sku,
		OrderedQty:      qty,
		ReceivedQty:     decimal.Zero,
		Rate:            rate,
		TaxPercent:      taxPercent,
		DiscountPercent: discountPercent,
	}
	item.computeLineTotal()
	po.Items = append(po.Items, item)
	po.recalculateTotals()
	return nil
}

// Submit moves a draft into the approval pipeline
func (po *PurchaseOrder) Submit() error {
	if po.Status != POStatusDraft {
		return shared.NewStateConflict("only draft orders can be submitted, current status: %s", po.Status)
	}
	if len(po.Items) == 0 {
		return shared.NewValidationError("cannot submit an order without items")
	}
	po.Status = POStatusPendingApproval
	po.AddDomainEvent(NewPurchaseOrderSubmittedEvent(po))
	return nil
}

// MarkApproved records that the approval chain completed
func (po *PurchaseOrder) MarkApproved() error {
	if !po.Status.CanTransitionTo(POStatusApproved) {
		return shared.NewStateConflict("cannot approve order in status %s", po.Status)
	}
	po.Status = POStatusApproved
	po.AddDomainEvent(NewPurchaseOrderApprovedEvent(po))
	return nil
}

// MarkRejected sends a rejected order back to draft for rework. No stock
// was reserved, so there is nothing to unwind.
func (po *PurchaseOrder) MarkRejected(reason string) error {
	if po.Status != POStatusPendingApproval {
		return shared.NewStateConflict("cannot reject order in status %s", po.Status)
	}
	po.Status = POStatusDraft
	po.AddDomainEvent(NewPurchaseOrderRejectedEvent(po, reason))
	return nil
}

// ReceiveLine books received quantity against a line and re-derives the
// order status
func (po *PurchaseOrder) ReceiveLine(itemID uuid.UUID, qty decimal.Decimal) error {
	if !po.Status.CanReceiveGoods() {
		return shared.NewStateConflict("cannot receive goods against order in status %s", po.Status)
	}
	for idx := range po.Items {
		if po.Items[idx].ItemID == itemID {
			if err := po.Items[idx].AddReceivedQuantity(qty); err != nil {
				return err
			}
			po.Status = DeriveReceiptStatus(po.Items)
			return nil
		}
	}
	return shared.NewValidationError("item %s is not on order %s", itemID, po.OrderNumber)
}

// Cancel terminates the order. The caller releases any reservations for
// the pending quantities reported here.
func (po *PurchaseOrder) Cancel(reason string) (map[uuid.UUID]decimal.Decimal, error) {
	if !po.Status.CanTransitionTo(POStatusCancelled) {
		return nil, shared.NewStateConflict("cannot cancel order in status %s", po.Status)
	}
	// reservations exist only once the order cleared approval
	releasable := map[uuid.UUID]decimal.Decimal{}
	if po.Status == POStatusApproved || po.Status == POStatusPartiallyReceived {
		for _, item := range po.Items {
			if pending := item.PendingQty(); pending.IsPositive() {
				releasable[item.ItemID] = pending
			}
		}
	}
	po.Status = POStatusCancelled
	po.AddDomainEvent(NewPurchaseOrderCancelledEvent(po, reason))
	return releasable, nil
}

// ConvertToPurchase marks the one-shot conversion into a purchase record.
// Only approved orders convert; once receipts start flowing the financial
// document has to come from the order as approved, not from a moving
// target.
func (po *PurchaseOrder) ConvertToPurchase() error {
	if po.ConvertedToPurchase {
		return shared.NewStateConflict("order %s has already been converted", po.OrderNumber)
	}
	if po.Status != POStatusApproved {
		return shared.NewStateConflict("only approved orders can be converted, current status: %s", po.Status)
	}
	po.ConvertedToPurchase = true
	po.AddDomainEvent(NewPurchaseOrderConvertedEvent(po))
	return nil
}

func (po *PurchaseOrder) recalculateTotals() {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.LineTotal)
	}
	po.TotalAmount = total
}

// DeriveReceiptStatus computes the order status from its lines. Fully
// received only when every line is complete; any receipt at all makes the
// order partially received.
func DeriveReceiptStatus(items []PurchaseOrderItem) PurchaseOrderStatus {
	if len(items) == 0 {
		return POStatusApproved
	}
	allReceived := true
	anyReceived := false
	for _, item := range items {
		if !item.IsFullyReceived() {
			allReceived = false
		}
		if item.ReceivedQty.IsPositive() {
			anyReceived = true
		}
	}
	switch {
	case allReceived:
		return POStatusFullyReceived
	case anyReceived:
		return POStatusPartiallyReceived
	default:
		return POStatusApproved
	}
}
