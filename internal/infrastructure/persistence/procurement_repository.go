package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/procurement"
)

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository
type GormPurchaseOrderRepository struct {
	gormStore[procurement.PurchaseOrder]
}

// NewGormPurchaseOrderRepository creates a GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{newGormStore[procurement.PurchaseOrder](
		db, withSortFields("order_number", "status", "total_amount"), "Items")}
}

// FindByOrderNumber looks up an order by its document number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	err := r.query(ctx).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&po).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &po, nil
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

// GormGoodsReceiptRepository implements procurement.GoodsReceiptRepository
type GormGoodsReceiptRepository struct {
	gormStore[procurement.GoodsReceiptNote]
}

// NewGormGoodsReceiptRepository creates a GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{newGormStore[procurement.GoodsReceiptNote](
		db, withSortFields("receipt_number", "status"), "Items")}
}

// FindByPurchaseOrder lists receipts cut against an order
func (r *GormGoodsReceiptRepository) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) ([]procurement.GoodsReceiptNote, error) {
	var receipts []procurement.GoodsReceiptNote
	err := r.query(ctx).
		Where("tenant_id = ? AND purchase_order_id = ?", tenantID, purchaseOrderID).
		Order("created_at ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

var _ procurement.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)

// GormPurchaseRepository implements procurement.PurchaseRepository
type GormPurchaseRepository struct {
	gormStore[procurement.Purchase]
}

// NewGormPurchaseRepository creates a GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{newGormStore[procurement.Purchase](
		db, withSortFields("purchase_number", "total_amount"), "Items")}
}

// FindByPurchaseOrder returns the purchase converted from an order
func (r *GormPurchaseRepository) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*procurement.Purchase, error) {
	var purchase procurement.Purchase
	err := r.query(ctx).
		Where("tenant_id = ? AND purchase_order_id = ?", tenantID, purchaseOrderID).
		First(&purchase).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &purchase, nil
}

var _ procurement.PurchaseRepository = (*GormPurchaseRepository)(nil)
