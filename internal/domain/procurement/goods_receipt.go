package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// GoodsReceiptStatus represents the state of a goods receipt note
type GoodsReceiptStatus string

const (
	GRNStatusDraft     GoodsReceiptStatus = "draft"
	GRNStatusFinalized GoodsReceiptStatus = "finalized"
	GRNStatusCancelled GoodsReceiptStatus = "cancelled"
)

// GoodsReceiptItem is a received line. Accepted quantity enters stock;
// rejected quantity is recorded for the supplier dispute but never touches
// the buckets.
type GoodsReceiptItem struct {
	shared.BaseEntity
	GoodsReceiptID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null"`
	SKU            string          `gorm:"type:varchar(64);not null"`
	ReceivedQty    decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	AcceptedQty    decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	RejectedQty    decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	Rate           decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	BatchNo        string          `gorm:"type:varchar(64)"`
	ExpiryDate     *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceiptItem) TableName() string {
	return "goods_receipt_items"
}

// LineValue returns the payable value of the accepted quantity
func (i *GoodsReceiptItem) LineValue() decimal.Decimal {
	return i.AcceptedQty.Mul(i.Rate).Round(2)
}

// GoodsReceiptNote records a physical delivery against a purchase order.
// Finalizing it is the moment accepted goods enter stock.
type GoodsReceiptNote struct {
	shared.TenantAggregateRoot
	ReceiptNumber   string             `gorm:"type:varchar(40);not null;index"`
	PurchaseOrderID uuid.UUID          `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Status          GoodsReceiptStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalValue      decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0"`
	Notes           string             `gorm:"type:text"`
	FinalizedAt     *time.Time
	FinalizedBy     *uuid.UUID         `gorm:"type:uuid"`
	Items           []GoodsReceiptItem `gorm:"foreignKey:GoodsReceiptID"`
}

// TableName returns the table name for GORM
func (GoodsReceiptNote) TableName() string {
	return "goods_receipt_notes"
}

// NewGoodsReceiptNote creates a draft receipt against a purchase order
func NewGoodsReceiptNote(tenantID uuid.UUID, receiptNumber string, purchaseOrderID, supplierID uuid.UUID) (*GoodsReceiptNote, error) {
	if receiptNumber == "" {
		return nil, shared.NewValidationError("receipt number is required")
	}
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewValidationError("purchase order is required")
	}
	return &GoodsReceiptNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceiptNumber:       receiptNumber,
		PurchaseOrderID:     purchaseOrderID,
		SupplierID:          supplierID,
		Status:              GRNStatusDraft,
		TotalValue:          decimal.Zero,
	}, nil
}

// AddItem adds a received line to a draft receipt. Accepted defaults to
// received minus rejected.
func (grn *GoodsReceiptNote) AddItem(itemID uuid.UUID, sku string, receivedQty, rejectedQty, rate decimal.Decimal) error {
	if grn.Status != GRNStatusDraft {
		return shared.NewStateConflict("items can only be added to a draft receipt")
	}
	if !receivedQty.IsPositive() {
		return shared.NewValidationError("received quantity must be positive")
	}
	if rejectedQty.IsNegative() {
		return shared.NewValidationError("rejected quantity cannot be negative")
	}
	if rejectedQty.GreaterThan(receivedQty) {
		return shared.NewValidationError("rejected quantity cannot exceed received quantity")
	}
	item := GoodsReceiptItem{
		BaseEntity:     shared.NewBaseEntity(),
		GoodsReceiptID: grn.ID,
		ItemID:         itemID,
		SKU:            sku,
		ReceivedQty:    receivedQty,
		RejectedQty:    rejectedQty,
		AcceptedQty:    receivedQty.Sub(rejectedQty),
		Rate:           rate,
	}
	grn.Items = append(grn.Items, item)
	grn.recalculateTotal()
	return nil
}

// SetBatch attaches batch details to a line, for batch-tracked items
func (grn *GoodsReceiptNote) SetBatch(itemID uuid.UUID, batchNo string, expiry *time.Time) error {
	if grn.Status != GRNStatusDraft {
		return shared.NewStateConflict("batch details can only be set on a draft receipt")
	}
	for idx := range grn.Items {
		if grn.Items[idx].ItemID == itemID {
			grn.Items[idx].BatchNo = batchNo
			grn.Items[idx].ExpiryDate = expiry
			return nil
		}
	}
	return shared.NewValidationError("item %s is not on receipt %s", itemID, grn.ReceiptNumber)
}

// MarkFinalized flips the receipt to its terminal finalized state. The
// stock, purchase order and payable effects are applied by the caller in
// the same transaction.
func (grn *GoodsReceiptNote) MarkFinalized(finalizedBy *uuid.UUID) error {
	if grn.Status == GRNStatusFinalized {
		return shared.NewStateConflict("receipt %s is already finalized", grn.ReceiptNumber)
	}
	if grn.Status != GRNStatusDraft {
		return shared.NewStateConflict("cannot finalize receipt in status %s", grn.Status)
	}
	if len(grn.Items) == 0 {
		return shared.NewValidationError("cannot finalize a receipt without items")
	}
	now := time.Now()
	grn.Status = GRNStatusFinalized
	grn.FinalizedAt = &now
	grn.FinalizedBy = finalizedBy
	grn.AddDomainEvent(NewGoodsReceiptFinalizedEvent(grn))
	return nil
}

// Cancel discards a draft receipt
func (grn *GoodsReceiptNote) Cancel() error {
	if grn.Status != GRNStatusDraft {
		return shared.NewStateConflict("only draft receipts can be cancelled, current status: %s", grn.Status)
	}
	grn.Status = GRNStatusCancelled
	return nil
}

func (grn *GoodsReceiptNote) recalculateTotal() {
	total := decimal.Zero
	for _, item := range grn.Items {
		total = total.Add(item.LineValue())
	}
	grn.TotalValue = total
}
