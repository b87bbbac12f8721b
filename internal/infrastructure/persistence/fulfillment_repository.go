package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/fulfillment"
)

// GormSalesOrderRepository implements fulfillment.SalesOrderRepository
type GormSalesOrderRepository struct {
	gormStore[fulfillment.SalesOrder]
}

// NewGormSalesOrderRepository creates a GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{newGormStore[fulfillment.SalesOrder](
		db, withSortFields("order_number", "status", "total_amount"), "Items")}
}

// FindByOrderNumber looks up an order by its document number
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*fulfillment.SalesOrder, error) {
	var so fulfillment.SalesOrder
	err := r.query(ctx).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&so).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &so, nil
}

var _ fulfillment.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

// GormDeliveryChallanRepository implements fulfillment.DeliveryChallanRepository
type GormDeliveryChallanRepository struct {
	gormStore[fulfillment.DeliveryChallan]
}

// NewGormDeliveryChallanRepository creates a GormDeliveryChallanRepository
func NewGormDeliveryChallanRepository(db *gorm.DB) *GormDeliveryChallanRepository {
	return &GormDeliveryChallanRepository{newGormStore[fulfillment.DeliveryChallan](
		db, withSortFields("challan_number", "status"), "Items")}
}

// FindBySalesOrder lists challans cut against a sales order
func (r *GormDeliveryChallanRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]fulfillment.DeliveryChallan, error) {
	var challans []fulfillment.DeliveryChallan
	err := r.query(ctx).
		Where("tenant_id = ? AND sales_order_id = ?", tenantID, salesOrderID).
		Order("created_at ASC").
		Find(&challans).Error
	if err != nil {
		return nil, err
	}
	return challans, nil
}

var _ fulfillment.DeliveryChallanRepository = (*GormDeliveryChallanRepository)(nil)

// GormInvoiceRepository implements fulfillment.InvoiceRepository
type GormInvoiceRepository struct {
	gormStore[fulfillment.Invoice]
}

// NewGormInvoiceRepository creates a GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{newGormStore[fulfillment.Invoice](
		db, withSortFields("invoice_number", "status", "grand_total"), "Items")}
}

// FindByChallan returns the invoice produced from a challan
func (r *GormInvoiceRepository) FindByChallan(ctx context.Context, tenantID, challanID uuid.UUID) (*fulfillment.Invoice, error) {
	var invoice fulfillment.Invoice
	err := r.query(ctx).
		Where("tenant_id = ? AND challan_id = ?", tenantID, challanID).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

var _ fulfillment.InvoiceRepository = (*GormInvoiceRepository)(nil)
