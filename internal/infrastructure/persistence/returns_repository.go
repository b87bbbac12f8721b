package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/returns"
)

// GormPurchaseReturnRepository implements returns.PurchaseReturnRepository
type GormPurchaseReturnRepository struct {
	gormStore[returns.PurchaseReturn]
}

// NewGormPurchaseReturnRepository creates a GormPurchaseReturnRepository
func NewGormPurchaseReturnRepository(db *gorm.DB) *GormPurchaseReturnRepository {
	return &GormPurchaseReturnRepository{newGormStore[returns.PurchaseReturn](
		db, withSortFields("return_number", "status", "total_amount"), "Items")}
}

// FindByPurchase lists every return raised against a purchase
func (r *GormPurchaseReturnRepository) FindByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]returns.PurchaseReturn, error) {
	var prs []returns.PurchaseReturn
	err := r.query(ctx).
		Where("tenant_id = ? AND purchase_id = ?", tenantID, purchaseID).
		Order("created_at ASC").
		Find(&prs).Error
	if err != nil {
		return nil, err
	}
	return prs, nil
}

var _ returns.PurchaseReturnRepository = (*GormPurchaseReturnRepository)(nil)

// GormRefundTransactionRepository implements returns.RefundTransactionRepository
type GormRefundTransactionRepository struct {
	gormStore[returns.RefundTransaction]
}

// NewGormRefundTransactionRepository creates a GormRefundTransactionRepository
func NewGormRefundTransactionRepository(db *gorm.DB) *GormRefundTransactionRepository {
	return &GormRefundTransactionRepository{newGormStore[returns.RefundTransaction](
		db, withSortFields("status", "amount"))}
}

// FindByReturn lists refunds for a purchase return, reversal entries
// included
func (r *GormRefundTransactionRepository) FindByReturn(ctx context.Context, tenantID, purchaseReturnID uuid.UUID) ([]returns.RefundTransaction, error) {
	var refunds []returns.RefundTransaction
	err := r.query(ctx).
		Where("tenant_id = ? AND purchase_return_id = ?", tenantID, purchaseReturnID).
		Order("created_at ASC").
		Find(&refunds).Error
	if err != nil {
		return nil, err
	}
	return refunds, nil
}

var _ returns.RefundTransactionRepository = (*GormRefundTransactionRepository)(nil)
