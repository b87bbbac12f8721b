package fulfillment

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// SalesOrderRepository persists sales orders
type SalesOrderRepository interface {
	shared.TenantRepository[SalesOrder]
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*SalesOrder, error)
	SaveWithLock(ctx context.Context, order *SalesOrder) error
}

// DeliveryChallanRepository persists delivery challans
type DeliveryChallanRepository interface {
	shared.TenantRepository[DeliveryChallan]
	FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]DeliveryChallan, error)
	SaveWithLock(ctx context.Context, challan *DeliveryChallan) error
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	shared.TenantRepository[Invoice]
	FindByChallan(ctx context.Context, tenantID, challanID uuid.UUID) (*Invoice, error)
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
