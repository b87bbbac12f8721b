package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Event types for the stock ledger
const (
	EventTypeStockMovementRecorded = "inventory.stock_movement.recorded"
	EventTypeLowStockDetected      = "inventory.low_stock.detected"
)

// StockMovementRecordedEvent is raised for every ledger entry
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID   string          `json:"movement_id"`
	SKU          string          `json:"sku"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	NewStock     decimal.Decimal `json:"new_stock"`
	NewReserved  decimal.Decimal `json:"new_reserved"`
	NewInTransit decimal.Decimal `json:"new_in_transit"`
	SourceType   SourceType      `json:"source_type"`
}

// NewStockMovementRecordedEvent creates a movement recorded event
func NewStockMovementRecordedEvent(item *StockItem, movement *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeStockMovementRecorded, "StockItem", item.ID, item.TenantID),
		MovementID:   movement.ID.String(),
		SKU:          item.SKU,
		MovementType: movement.MovementType,
		Quantity:     movement.Quantity,
		NewStock:     movement.NewStock,
		NewReserved:  movement.NewReserved,
		NewInTransit: movement.NewInTransit,
		SourceType:   movement.SourceType,
	}
}

// LowStockDetectedEvent is raised when physical stock falls below the
// item's reorder level
type LowStockDetectedEvent struct {
	shared.BaseDomainEvent
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	StockQty     decimal.Decimal `json:"stock_qty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewLowStockDetectedEvent creates a low stock event
func NewLowStockDetectedEvent(item *StockItem) *LowStockDetectedEvent {
	return &LowStockDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeLowStockDetected, "StockItem", item.ID, item.TenantID),
		SKU:          item.SKU,
		Name:         item.Name,
		StockQty:     item.StockQty,
		ReorderLevel: item.ReorderLevel,
	}
}
