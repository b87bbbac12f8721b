package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// ChallanStatus represents the state of a delivery challan
type ChallanStatus string

const (
	ChallanStatusOpen      ChallanStatus = "open"
	ChallanStatusConverted ChallanStatus = "converted"
	ChallanStatusDeleted   ChallanStatus = "deleted"
)

// DeliveryChallanItem is a shipped line. Quantity is fixed at creation;
// a challan is never amended, only deleted while still open.
type DeliveryChallanItem struct {
	shared.BaseEntity
	ChallanID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	SKU       string          `gorm:"type:varchar(64);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(15,4);not null"`
}

// TableName returns the table name for GORM
func (DeliveryChallanItem) TableName() string {
	return "delivery_challan_items"
}

// DeliveryChallan records goods physically shipped against a sales order.
// Shipping builds the in-transit bucket; stock itself only moves when the
// challan is converted to an invoice, and conversion is one-shot.
type DeliveryChallan struct {
	shared.TenantAggregateRoot
	ChallanNumber      string                `gorm:"type:varchar(40);not null;index"`
	SalesOrderID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status             ChallanStatus         `gorm:"type:varchar(20);not null;default:'open'"`
	ConvertedToInvoice bool                  `gorm:"not null;default:false"`
	ConvertedAt        *time.Time
	Notes              string                `gorm:"type:text"`
	Items              []DeliveryChallanItem `gorm:"foreignKey:ChallanID"`
}

// TableName returns the table name for GORM
func (DeliveryChallan) TableName() string {
	return "delivery_challans"
}

// NewDeliveryChallan creates an open challan against a sales order
func NewDeliveryChallan(tenantID uuid.UUID, challanNumber string, salesOrderID, customerID uuid.UUID) (*DeliveryChallan, error) {
	if challanNumber == "" {
		return nil, shared.NewValidationError("challan number is required")
	}
	if salesOrderID == uuid.Nil {
		return nil, shared.NewValidationError("sales order is required")
	}
	return &DeliveryChallan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ChallanNumber:       challanNumber,
		SalesOrderID:        salesOrderID,
		CustomerID:          customerID,
		Status:              ChallanStatusOpen,
	}, nil
}

// AddItem adds a shipped line before the challan is persisted
func (dc *DeliveryChallan) AddItem(itemID uuid.UUID, sku string, qty decimal.Decimal) error {
	if dc.Status != ChallanStatusOpen {
		return shared.NewStateConflict("items can only be added to an open challan")
	}
	if !qty.IsPositive() {
		return shared.NewValidationError("shipped quantity must be positive")
	}
	for _, existing := range dc.Items {
		if existing.ItemID == itemID {
			return shared.NewValidationError("item %s is already on the challan", sku)
		}
	}
	dc.Items = append(dc.Items, DeliveryChallanItem{
		BaseEntity: shared.NewBaseEntity(),
		ChallanID:  dc.ID,
		ItemID:     itemID,
		SKU:        sku,
		Quantity:   qty,
	})
	return nil
}

// MarkConverted flips the one-shot conversion guard. A challan that has
// produced an invoice can never produce another or be deleted.
func (dc *DeliveryChallan) MarkConverted(invoiceID uuid.UUID) error {
	if dc.ConvertedToInvoice {
		return shared.NewStateConflict("challan %s has already been converted", dc.ChallanNumber)
	}
	if dc.Status != ChallanStatusOpen {
		return shared.NewStateConflict("cannot convert challan in status %s", dc.Status)
	}
	now := time.Now()
	dc.ConvertedToInvoice = true
	dc.ConvertedAt = &now
	dc.Status = ChallanStatusConverted
	dc.AddDomainEvent(NewChallanConvertedEvent(dc, invoiceID))
	return nil
}

// MarkDeleted tombstones an open challan. The stock and sales order
// effects are reversed by the caller in the same transaction.
func (dc *DeliveryChallan) MarkDeleted() error {
	if dc.ConvertedToInvoice {
		return shared.NewStateConflict("challan %s has been converted and cannot be deleted", dc.ChallanNumber)
	}
	if dc.Status != ChallanStatusOpen {
		return shared.NewStateConflict("cannot delete challan in status %s", dc.Status)
	}
	dc.Status = ChallanStatusDeleted
	return nil
}
