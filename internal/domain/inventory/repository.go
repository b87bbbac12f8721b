package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// StockItemRepository persists stock items
type StockItemRepository interface {
	shared.TenantRepository[StockItem]
	// FindBySKU looks up an item by its SKU within a tenant
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*StockItem, error)
	// SaveWithLock saves using optimistic locking on the version column.
	// Returns shared.ErrConcurrencyConflict when the version has moved.
	SaveWithLock(ctx context.Context, item *StockItem) error
	// FindBelowReorderLevel lists items whose stock is under their reorder level
	FindBelowReorderLevel(ctx context.Context, tenantID uuid.UUID) ([]StockItem, error)
}

// StockMovementRepository appends and queries ledger entries. Movements are
// immutable; there is no update or delete.
type StockMovementRepository interface {
	Append(ctx context.Context, movements ...*StockMovement) error
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]StockMovement, error)
	CountByType(ctx context.Context, tenantID uuid.UUID, movementType MovementType) (int64, error)
}
