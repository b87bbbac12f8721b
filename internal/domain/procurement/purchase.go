package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// PurchaseItem is a financial snapshot of a received purchase order line
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	SKU        string          `gorm:"type:varchar(64);not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Rate       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// PurchaseStatus represents the state of a purchase document
type PurchaseStatus string

const (
	PurchaseStatusActive    PurchaseStatus = "active"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// Purchase is the financial document produced by converting an approved
// purchase order. It snapshots the ordered quantities and locked values
// so the payable side stays stable while receipts flow in. A purchase is
// also the anchor that purchase returns validate against.
type Purchase struct {
	shared.TenantAggregateRoot
	PurchaseNumber  string          `gorm:"type:varchar(40);not null;index"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          PurchaseStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Notes           string          `gorm:"type:text"`
	CancelReason    string          `gorm:"type:text"`
	Items           []PurchaseItem  `gorm:"foreignKey:PurchaseID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchaseFromOrder snapshots the ordered quantities and locked line
// totals of an approved purchase order
func NewPurchaseFromOrder(purchaseNumber string, po *PurchaseOrder) (*Purchase, error) {
	if purchaseNumber == "" {
		return nil, shared.NewValidationError("purchase number is required")
	}
	if len(po.Items) == 0 {
		return nil, shared.NewValidationError("order %s has no items to convert", po.OrderNumber)
	}
	purchase := &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(po.TenantID),
		PurchaseNumber:      purchaseNumber,
		PurchaseOrderID:     &po.ID,
		SupplierID:          po.SupplierID,
		Status:              PurchaseStatusActive,
		TotalAmount:         decimal.Zero,
	}
	total := decimal.Zero
	for _, line := range po.Items {
		purchase.Items = append(purchase.Items, PurchaseItem{
			BaseEntity: shared.NewBaseEntity(),
			PurchaseID: purchase.ID,
			ItemID:     line.ItemID,
			SKU:        line.SKU,
			Quantity:   line.OrderedQty,
			Rate:       line.Rate,
			LineTotal:  line.LineTotal,
		})
		total = total.Add(line.LineTotal)
	}
	purchase.TotalAmount = total
	return purchase, nil
}

// Cancel voids the purchase document. The caller is responsible for
// reversing stock and the supplier payable in the same transaction.
func (p *Purchase) Cancel(reason string) error {
	if p.Status == PurchaseStatusCancelled {
		return shared.NewStateConflict("purchase %s is already cancelled", p.PurchaseNumber)
	}
	p.Status = PurchaseStatusCancelled
	p.CancelReason = reason
	return nil
}

// IsCancelled reports whether the purchase has been voided
func (p *Purchase) IsCancelled() bool {
	return p.Status == PurchaseStatusCancelled
}

// PurchasedQty returns the purchased quantity for an item, zero when the
// item is not on the document
func (p *Purchase) PurchasedQty(itemID uuid.UUID) decimal.Decimal {
	for _, item := range p.Items {
		if item.ItemID == itemID {
			return item.Quantity
		}
	}
	return decimal.Zero
}
