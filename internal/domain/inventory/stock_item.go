package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// StockItem is the stock record for a single product. Quantity lives in
// three buckets: StockQty is physical stock on hand, ReservedStock is the
// portion committed to approved orders, InTransitStock is quantity shipped
// on a delivery challan but not yet invoiced. Available stock is always
// StockQty minus ReservedStock.
//
// Buckets never change except through the movement methods below, which
// append a StockMovement row for every change.
type StockItem struct {
	shared.TenantAggregateRoot
	SKU            string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_stock_items_tenant_sku"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Unit           string          `gorm:"type:varchar(20);default:'pcs'"`
	StockQty       decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	ReservedStock  decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	InTransitStock decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	ReorderLevel   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TrackBatch     bool            `gorm:"not null;default:false"`
	Active         bool            `gorm:"not null;default:true"`

	Batches []StockBatch `gorm:"foreignKey:ItemID"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item with empty buckets
func NewStockItem(tenantID uuid.UUID, sku, name string) (*StockItem, error) {
	if sku == "" {
		return nil, shared.NewValidationError("SKU is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("item name is required")
	}
	item := &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		Unit:                "pcs",
		StockQty:            decimal.Zero,
		ReservedStock:       decimal.Zero,
		InTransitStock:      decimal.Zero,
		UnitCost:            decimal.Zero,
		SellingPrice:        decimal.Zero,
		ReorderLevel:        decimal.Zero,
		Active:              true,
	}
	return item, nil
}

// AvailableStock returns physical stock not committed to any order
func (i *StockItem) AvailableStock() decimal.Decimal {
	return i.StockQty.Sub(i.ReservedStock)
}

// Reserve commits quantity as a soft hold against the item. The hold is
// bounded by the ledger invariant: reserved stock can never exceed on-hand
// plus in-transit quantity.
func (i *StockItem) Reserve(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	if i.ReservedStock.Add(qty).GreaterThan(i.StockQty.Add(i.InTransitStock)) {
		return nil, shared.NewInvariantViolation(
			"reserving %s of %s would exceed on-hand plus in-transit stock (on hand %s, in transit %s, reserved %s)",
			qty.String(), i.SKU, i.StockQty.String(), i.InTransitStock.String(), i.ReservedStock.String())
	}
	before := snapshotOf(i)
	i.ReservedStock = i.ReservedStock.Add(qty)
	movement := newStockMovement(i, MovementReserve, qty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// Release returns previously reserved quantity to the available pool
func (i *StockItem) Release(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	if i.ReservedStock.LessThan(qty) {
		return nil, shared.NewDomainErrorf(shared.CodeValidation,
			"cannot release %s for %s: only %s reserved",
			qty.String(), i.SKU, i.ReservedStock.String())
	}
	before := snapshotOf(i)
	i.ReservedStock = i.ReservedStock.Sub(qty)
	movement := newStockMovement(i, MovementRelease, qty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// MarkInTransit records quantity shipped on a delivery challan. Physical
// stock does not change until the challan is invoiced; the paired DELIVER
// movement is written by the caller alongside this one.
func (i *StockItem) MarkInTransit(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	before := snapshotOf(i)
	i.InTransitStock = i.InTransitStock.Add(qty)
	movement := newStockMovement(i, MovementInTransit, qty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// RecordDelivery writes the DELIVER ledger entry paired with MarkInTransit.
// No bucket changes; the row exists so delivery volume can be reported
// independently of the in-transit balance.
func (i *StockItem) RecordDelivery(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	before := snapshotOf(i)
	movement := newStockMovement(i, MovementDeliver, qty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// ReverseInTransit drains in-transit quantity when an open challan is
// deleted before invoicing. Floored at zero; the snapshots on the
// movement carry the actual bucket change.
func (i *StockItem) ReverseInTransit(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	before := snapshotOf(i)
	i.InTransitStock = i.InTransitStock.Sub(qty)
	if i.InTransitStock.IsNegative() {
		i.InTransitStock = decimal.Zero
	}
	movement := newStockMovement(i, MovementInTransit, qty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// ReceivePurchase books goods received against a purchase order. Accepted
// quantity enters physical stock; the reservation made at approval time is
// consumed by the full received quantity, floored at zero because partial
// receipts may outrun the original reservation after amendments.
// Unit cost is recalculated as a weighted average.
func (i *StockItem) ReceivePurchase(acceptedQty, receivedQty, rate decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if acceptedQty.IsNegative() || receivedQty.IsNegative() {
		return nil, shared.NewValidationError("received quantities cannot be negative")
	}
	if acceptedQty.GreaterThan(receivedQty) {
		return nil, shared.NewValidationError("accepted quantity cannot exceed received quantity")
	}
	before := snapshotOf(i)

	i.applyWeightedCost(acceptedQty, rate)
	i.StockQty = i.StockQty.Add(acceptedQty)
	i.ReservedStock = i.ReservedStock.Sub(receivedQty)
	if i.ReservedStock.IsNegative() {
		i.ReservedStock = decimal.Zero
	}

	movement := newStockMovement(i, MovementPurchase, acceptedQty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// InvoiceOut is the only operation that decrements physical stock in the
// fulfillment pipeline. It consumes all three buckets at once: the goods
// leave stock, the reservation is fulfilled, and the in-transit balance
// built up by the delivery challan is drained (floored at zero).
func (i *StockItem) InvoiceOut(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	if i.StockQty.LessThan(qty) {
		return nil, shared.NewInvariantViolation(
			"invoicing %s of %s would drive stock negative (on hand %s)",
			qty.String(), i.SKU, i.StockQty.String())
	}
	if i.ReservedStock.LessThan(qty) {
		return nil, shared.NewInvariantViolation(
			"invoicing %s of %s exceeds reserved stock %s",
			qty.String(), i.SKU, i.ReservedStock.String())
	}
	before := snapshotOf(i)
	i.StockQty = i.StockQty.Sub(qty)
	i.ReservedStock = i.ReservedStock.Sub(qty)
	i.InTransitStock = i.InTransitStock.Sub(qty)
	if i.InTransitStock.IsNegative() {
		i.InTransitStock = decimal.Zero
	}
	movement := newStockMovement(i, MovementInvoice, qty, before, source)
	i.recordMovementEvent(movement)
	i.checkReorderLevel()
	return movement, nil
}

// ReturnOut removes quantity returned to a supplier. Every disposition
// removes physical stock; the movement type distinguishes where the goods
// went so reporting can separate restock reversals from quarantine, scrap
// and vendor shipments.
func (i *StockItem) ReturnOut(qty decimal.Decimal, disposition string, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	movementType, err := MovementTypeForDisposition(disposition)
	if err != nil {
		return nil, err
	}
	if i.StockQty.LessThan(qty) {
		return nil, shared.NewDomainErrorf(shared.CodeValidation,
			"cannot return %s of %s: only %s in stock",
			qty.String(), i.SKU, i.StockQty.String())
	}
	before := snapshotOf(i)
	i.StockQty = i.StockQty.Sub(qty)
	movement := newStockMovement(i, movementType, qty, before, source)
	movement.Disposition = disposition
	i.recordMovementEvent(movement)
	i.checkReorderLevel()
	return movement, nil
}

// RestoreFromReturn puts stock back when a completed purchase return is
// cancelled.
func (i *StockItem) RestoreFromReturn(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	before := snapshotOf(i)
	i.StockQty = i.StockQty.Add(qty)
	movement := newStockMovement(i, MovementReturn, qty, before, source)
	i.recordMovementEvent(movement)
	return movement, nil
}

// CancelPurchase backs received stock out when a purchase document is
// voided. Stock that was already sold on cannot be recovered, so the
// deduction floors at zero; the movement snapshots record what actually
// changed.
func (i *StockItem) CancelPurchase(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	before := snapshotOf(i)
	i.StockQty = decimal.Max(i.StockQty.Sub(qty), decimal.Zero)
	movement := newStockMovement(i, MovementPurchaseCancel, qty, before, source)
	i.recordMovementEvent(movement)
	i.checkReorderLevel()
	return movement, nil
}

// DeductPOSSale removes stock sold over the counter, bypassing the
// reserve/deliver/invoice pipeline.
func (i *StockItem) DeductPOSSale(qty decimal.Decimal, source MovementSource) (*StockMovement, error) {
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	if i.StockQty.LessThan(qty) {
		return nil, shared.NewDomainErrorf(shared.CodeValidation,
			"insufficient stock for %s: on hand %s, requested %s",
			i.SKU, i.StockQty.String(), qty.String())
	}
	before := snapshotOf(i)
	i.StockQty = i.StockQty.Sub(qty)
	movement := newStockMovement(i, MovementPOSSale, qty, before, source)
	i.recordMovementEvent(movement)
	i.checkReorderLevel()
	return movement, nil
}

// Adjust sets physical stock to a counted value with an audit row. The
// movement quantity carries the absolute difference.
func (i *StockItem) Adjust(newQty decimal.Decimal, reason string, source MovementSource) (*StockMovement, error) {
	if newQty.IsNegative() {
		return nil, shared.NewValidationError("adjusted quantity cannot be negative")
	}
	if reason == "" {
		return nil, shared.NewValidationError("adjustment reason is required")
	}
	before := snapshotOf(i)
	diff := newQty.Sub(i.StockQty).Abs()
	i.StockQty = newQty
	source.Notes = reason
	movement := newStockMovement(i, MovementAdjustment, diff, before, source)
	i.recordMovementEvent(movement)
	i.checkReorderLevel()
	return movement, nil
}

// AddBatch appends a batch record for batch-tracked items
func (i *StockItem) AddBatch(batchNo string, qty, rate decimal.Decimal) (*StockBatch, error) {
	if !i.TrackBatch {
		return nil, shared.NewStateConflict("item %s does not track batches", i.SKU)
	}
	if batchNo == "" {
		return nil, shared.NewValidationError("batch number is required")
	}
	if err := requirePositive(qty); err != nil {
		return nil, err
	}
	batch := NewStockBatch(i.ID, i.TenantID, batchNo, qty, rate)
	i.Batches = append(i.Batches, *batch)
	return &i.Batches[len(i.Batches)-1], nil
}

// applyWeightedCost folds a new receipt into the weighted-average unit cost.
// Cost is unchanged when the combined quantity is zero.
func (i *StockItem) applyWeightedCost(qty, rate decimal.Decimal) {
	if qty.IsZero() {
		return
	}
	totalQty := i.StockQty.Add(qty)
	if totalQty.IsZero() {
		return
	}
	totalValue := i.UnitCost.Mul(i.StockQty).Add(rate.Mul(qty))
	i.UnitCost = totalValue.Div(totalQty).Round(4)
}

func (i *StockItem) recordMovementEvent(movement *StockMovement) {
	i.AddDomainEvent(NewStockMovementRecordedEvent(i, movement))
}

func (i *StockItem) checkReorderLevel() {
	if i.ReorderLevel.IsPositive() && i.StockQty.LessThan(i.ReorderLevel) {
		i.AddDomainEvent(NewLowStockDetectedEvent(i))
	}
}

func requirePositive(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("quantity must be positive")
	}
	return nil
}

// Dispositions for returned goods
const (
	DispositionRestock      = "restock"
	DispositionQuarantine   = "quarantine"
	DispositionScrap        = "scrap"
	DispositionVendorReturn = "vendor_return"
	DispositionRepair       = "repair"
)

// MovementTypeForDisposition maps a return disposition to the ledger
// movement type recorded for it
func MovementTypeForDisposition(disposition string) (MovementType, error) {
	switch disposition {
	case DispositionRestock:
		return MovementPurchaseReturn, nil
	case DispositionQuarantine:
		return MovementPurchaseReturnQuarantine, nil
	case DispositionScrap:
		return MovementPurchaseReturnScrap, nil
	case DispositionVendorReturn, DispositionRepair:
		return MovementPurchaseReturnVendor, nil
	default:
		return "", shared.NewValidationError("unknown disposition: %s", disposition)
	}
}
