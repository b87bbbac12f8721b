package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Event types for the procurement pipeline
const (
	EventTypePOSubmitted  = "procurement.purchase_order.submitted"
	EventTypePOApproved   = "procurement.purchase_order.approved"
	EventTypePORejected   = "procurement.purchase_order.rejected"
	EventTypePOCancelled  = "procurement.purchase_order.cancelled"
	EventTypePOConverted  = "procurement.purchase_order.converted"
	EventTypeGRNFinalized = "procurement.goods_receipt.finalized"
)

// POLineInfo carries per-line quantities on purchase order events
type POLineInfo struct {
	ItemID   uuid.UUID       `json:"item_id"`
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
}

func poLines(po *PurchaseOrder) []POLineInfo {
	lines := make([]POLineInfo, 0, len(po.Items))
	for _, item := range po.Items {
		lines = append(lines, POLineInfo{ItemID: item.ItemID, SKU: item.SKU, Quantity: item.OrderedQty})
	}
	return lines
}

// PurchaseOrderSubmittedEvent is raised when a draft enters approval
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderSubmittedEvent creates a submitted event
func NewPurchaseOrderSubmittedEvent(po *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePOSubmitted, "PurchaseOrder", po.ID, po.TenantID),
		OrderNumber: po.OrderNumber,
		TotalAmount: po.TotalAmount,
	}
}

// PurchaseOrderApprovedEvent is raised when the approval chain completes.
// The stock reservation handler reacts by reserving every ordered line.
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string       `json:"order_number"`
	Lines       []POLineInfo `json:"lines"`
}

// NewPurchaseOrderApprovedEvent creates an approved event
func NewPurchaseOrderApprovedEvent(po *PurchaseOrder) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePOApproved, "PurchaseOrder", po.ID, po.TenantID),
		OrderNumber: po.OrderNumber,
		Lines:       poLines(po),
	}
}

// PurchaseOrderRejectedEvent is raised when approval rejects the order
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderRejectedEvent creates a rejected event
func NewPurchaseOrderRejectedEvent(po *PurchaseOrder, reason string) *PurchaseOrderRejectedEvent {
	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePORejected, "PurchaseOrder", po.ID, po.TenantID),
		OrderNumber: po.OrderNumber,
		Reason:      reason,
	}
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a cancelled event
func NewPurchaseOrderCancelledEvent(po *PurchaseOrder, reason string) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePOCancelled, "PurchaseOrder", po.ID, po.TenantID),
		OrderNumber: po.OrderNumber,
		Reason:      reason,
	}
}

// PurchaseOrderConvertedEvent is raised on one-shot conversion to a purchase
type PurchaseOrderConvertedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderConvertedEvent creates a converted event
func NewPurchaseOrderConvertedEvent(po *PurchaseOrder) *PurchaseOrderConvertedEvent {
	return &PurchaseOrderConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePOConverted, "PurchaseOrder", po.ID, po.TenantID),
		OrderNumber: po.OrderNumber,
	}
}

// GoodsReceiptFinalizedEvent is raised when a receipt is finalized
type GoodsReceiptFinalizedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber   string          `json:"receipt_number"`
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// NewGoodsReceiptFinalizedEvent creates a finalized event
func NewGoodsReceiptFinalizedEvent(grn *GoodsReceiptNote) *GoodsReceiptFinalizedEvent {
	return &GoodsReceiptFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeGRNFinalized, "GoodsReceiptNote", grn.ID, grn.TenantID),
		ReceiptNumber:   grn.ReceiptNumber,
		PurchaseOrderID: grn.PurchaseOrderID,
		TotalValue:      grn.TotalValue,
	}
}
