package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// MovementType classifies a stock ledger entry
type MovementType string

const (
	MovementReserve                  MovementType = "RESERVE"
	MovementRelease                  MovementType = "RELEASE"
	MovementDeliver                  MovementType = "DELIVER"
	MovementInTransit                MovementType = "IN_TRANSIT"
	MovementInvoice                  MovementType = "INVOICE"
	MovementPurchase                 MovementType = "PURCHASE"
	MovementPOSSale                  MovementType = "POS_SALE"
	MovementReturn                   MovementType = "RETURN"
	MovementPurchaseReturn           MovementType = "PURCHASE_RETURN"
	MovementPurchaseReturnQuarantine MovementType = "PURCHASE_RETURN_QUARANTINE"
	MovementPurchaseReturnScrap      MovementType = "PURCHASE_RETURN_SCRAP"
	MovementPurchaseReturnVendor     MovementType = "PURCHASE_RETURN_VENDOR"
	MovementPurchaseCancel           MovementType = "PURCHASE_CANCEL"
	MovementAdjustment               MovementType = "ADJUSTMENT"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReserve, MovementRelease, MovementDeliver, MovementInTransit,
		MovementInvoice, MovementPurchase, MovementPOSSale, MovementReturn,
		MovementPurchaseReturn, MovementPurchaseReturnQuarantine,
		MovementPurchaseReturnScrap, MovementPurchaseReturnVendor,
		MovementPurchaseCancel, MovementAdjustment:
		return true
	}
	return false
}

// SourceType identifies the document that caused a movement
type SourceType string

const (
	SourcePurchaseOrder   SourceType = "PURCHASE_ORDER"
	SourceGoodsReceipt    SourceType = "GOODS_RECEIPT"
	SourceSalesOrder      SourceType = "SALES_ORDER"
	SourceDeliveryChallan SourceType = "DELIVERY_CHALLAN"
	SourceInvoice         SourceType = "INVOICE"
	SourcePurchase        SourceType = "PURCHASE"
	SourcePurchaseReturn  SourceType = "PURCHASE_RETURN"
	SourcePOSSale         SourceType = "POS_SALE"
	SourceManual          SourceType = "MANUAL"
)

// StockMovement is an immutable, append-only ledger entry. Every bucket
// change on a StockItem writes exactly one movement in the same transaction;
// the before and after snapshots of all three buckets make the ledger
// replayable and auditable.
type StockMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_item"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_item"`
	MovementType MovementType    `gorm:"type:varchar(40);not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(15,4);not null"`

	PreviousStock     decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	PreviousReserved  decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	PreviousInTransit decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	NewStock          decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	NewReserved       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	NewInTransit      decimal.Decimal `gorm:"type:decimal(15,4);not null"`

	SourceType  SourceType `gorm:"type:varchar(30);not null;index"`
	SourceID    uuid.UUID  `gorm:"type:uuid;index"`
	Disposition string     `gorm:"type:varchar(20)"`
	Notes       string     `gorm:"type:text"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// movementSnapshot captures the bucket values of an item at a point in time
type movementSnapshot struct {
	stock     decimal.Decimal
	reserved  decimal.Decimal
	inTransit decimal.Decimal
}

func snapshotOf(item *StockItem) movementSnapshot {
	return movementSnapshot{
		stock:     item.StockQty,
		reserved:  item.ReservedStock,
		inTransit: item.InTransitStock,
	}
}

// MovementSource identifies the originating document and actor for a movement
type MovementSource struct {
	Type      SourceType
	ID        uuid.UUID
	CreatedBy *uuid.UUID
	Notes     string
}

func newStockMovement(item *StockItem, movementType MovementType, qty decimal.Decimal, before movementSnapshot, source MovementSource) *StockMovement {
	return &StockMovement{
		ID:                uuid.New(),
		TenantID:          item.TenantID,
		ItemID:            item.ID,
		MovementType:      movementType,
		Quantity:          qty,
		PreviousStock:     before.stock,
		PreviousReserved:  before.reserved,
		PreviousInTransit: before.inTransit,
		NewStock:          item.StockQty,
		NewReserved:       item.ReservedStock,
		NewInTransit:      item.InTransitStock,
		SourceType:        source.Type,
		SourceID:          source.ID,
		Notes:             source.Notes,
		CreatedBy:         source.CreatedBy,
		CreatedAt:         time.Now(),
	}
}

// Validate checks internal consistency of a movement row
func (m *StockMovement) Validate() error {
	if !m.MovementType.IsValid() {
		return shared.NewValidationError("invalid movement type: %s", m.MovementType)
	}
	if m.Quantity.IsNegative() {
		return shared.NewValidationError("movement quantity cannot be negative")
	}
	return nil
}
