package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/inventory"
)

// CreateStockItemRequest carries the fields needed to register an item
type CreateStockItemRequest struct {
	SKU          string          `json:"sku" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	TrackBatch   bool            `json:"track_batch"`
}

// AdjustStockRequest sets physical stock to a counted value
type AdjustStockRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
}

// POSSaleRequest deducts an over-the-counter sale
type POSSaleRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	SaleID   uuid.UUID       `json:"sale_id"`
}

// StockItemResponse is the API view of a stock item
type StockItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	StockQty       decimal.Decimal `json:"stock_qty"`
	ReservedStock  decimal.Decimal `json:"reserved_stock"`
	InTransitStock decimal.Decimal `json:"in_transit_stock"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	TrackBatch     bool            `json:"track_batch"`
	Active         bool            `json:"active"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToStockItemResponse maps a domain item to its API view
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:             item.ID,
		SKU:            item.SKU,
		Name:           item.Name,
		Unit:           item.Unit,
		StockQty:       item.StockQty,
		ReservedStock:  item.ReservedStock,
		InTransitStock: item.InTransitStock,
		AvailableStock: item.AvailableStock(),
		UnitCost:       item.UnitCost,
		SellingPrice:   item.SellingPrice,
		ReorderLevel:   item.ReorderLevel,
		TrackBatch:     item.TrackBatch,
		Active:         item.Active,
		UpdatedAt:      item.UpdatedAt,
	}
}

// StockMovementResponse is the API view of a ledger entry
type StockMovementResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	MovementType      string          `json:"movement_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	PreviousStock     decimal.Decimal `json:"previous_stock"`
	PreviousReserved  decimal.Decimal `json:"previous_reserved"`
	PreviousInTransit decimal.Decimal `json:"previous_in_transit"`
	NewStock          decimal.Decimal `json:"new_stock"`
	NewReserved       decimal.Decimal `json:"new_reserved"`
	NewInTransit      decimal.Decimal `json:"new_in_transit"`
	SourceType        string          `json:"source_type"`
	SourceID          uuid.UUID       `json:"source_id"`
	Disposition       string          `json:"disposition,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToStockMovementResponse maps a ledger entry to its API view
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:                m.ID,
		ItemID:            m.ItemID,
		MovementType:      string(m.MovementType),
		Quantity:          m.Quantity,
		PreviousStock:     m.PreviousStock,
		PreviousReserved:  m.PreviousReserved,
		PreviousInTransit: m.PreviousInTransit,
		NewStock:          m.NewStock,
		NewReserved:       m.NewReserved,
		NewInTransit:      m.NewInTransit,
		SourceType:        string(m.SourceType),
		SourceID:          m.SourceID,
		Disposition:       m.Disposition,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
	}
}
