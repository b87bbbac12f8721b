package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/shared"
)

// LowStockHandler reacts to items dropping below their reorder level.
// Today it logs a warning; a purchasing suggestion feed can hang off the
// same event later.
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStockDetected}
}

// Handle logs the low stock condition
func (h *LowStockHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.LowStockDetectedEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("stock below reorder level",
		zap.String("tenant_id", lowStock.TenantID().String()),
		zap.String("sku", lowStock.SKU),
		zap.String("stock_qty", lowStock.StockQty.String()),
		zap.String("reorder_level", lowStock.ReorderLevel.String()))
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
