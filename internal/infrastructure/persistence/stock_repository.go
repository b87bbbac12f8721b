package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GormStockItemRepository implements inventory.StockItemRepository
type GormStockItemRepository struct {
	gormStore[inventory.StockItem]
}

// NewGormStockItemRepository creates a GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{newGormStore[inventory.StockItem](
		db, withSortFields("sku", "name", "stock_qty", "reserved_stock"), "Batches").
		withSearch("sku", "name")}
}

// FindBySKU looks up an item by its SKU within a tenant
func (r *GormStockItemRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.query(ctx).
		Where("tenant_id = ? AND UPPER(sku) = ?", tenantID, strings.ToUpper(sku)).
		First(&item).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindBelowReorderLevel lists items whose stock is under their reorder level
func (r *GormStockItemRepository) FindBelowReorderLevel(ctx context.Context, tenantID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	err := r.query(ctx).
		Where("tenant_id = ? AND reorder_level > 0 AND stock_qty < reorder_level", tenantID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

// GormStockMovementRepository implements the append-only movement ledger.
// Rows are never updated or deleted.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append inserts ledger entries
func (r *GormStockMovementRepository) Append(ctx context.Context, movements ...*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByItem lists entries for an item, newest first
func (r *GormStockMovementRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Order("created_at DESC")

	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	if err := query.Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindBySource lists entries caused by a document
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_id = ?", tenantID, sourceID).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByType counts entries of a movement type
func (r *GormStockMovementRepository) CountByType(ctx context.Context, tenantID uuid.UUID, movementType inventory.MovementType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("tenant_id = ? AND movement_type = ?", tenantID, movementType).
		Count(&count).Error
	return count, err
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
