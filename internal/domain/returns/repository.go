package returns

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// PurchaseReturnRepository persists purchase returns
type PurchaseReturnRepository interface {
	shared.TenantRepository[PurchaseReturn]
	// FindByPurchase lists every return raised against a purchase,
	// regardless of status
	FindByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]PurchaseReturn, error)
	SaveWithLock(ctx context.Context, pr *PurchaseReturn) error
}

// RefundTransactionRepository persists refund transactions
type RefundTransactionRepository interface {
	shared.TenantRepository[RefundTransaction]
	FindByReturn(ctx context.Context, tenantID, purchaseReturnID uuid.UUID) ([]RefundTransaction, error)
}
