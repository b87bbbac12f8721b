package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	shared.TenantRepository[PurchaseOrder]
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)
	// SaveWithLock saves using optimistic locking on the version column
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
}

// GoodsReceiptRepository persists goods receipt notes
type GoodsReceiptRepository interface {
	shared.TenantRepository[GoodsReceiptNote]
	FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) ([]GoodsReceiptNote, error)
	SaveWithLock(ctx context.Context, grn *GoodsReceiptNote) error
}

// PurchaseRepository persists purchase documents
type PurchaseRepository interface {
	shared.TenantRepository[Purchase]
	FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*Purchase, error)
	SaveWithLock(ctx context.Context, purchase *Purchase) error
}
