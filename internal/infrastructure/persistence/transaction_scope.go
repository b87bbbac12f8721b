package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
)

// GormTransactionScope implements the application layer's
// TransactionScope on GORM transactions. Every repository handed to the
// callback is bound to the same transaction; an error from the callback
// rolls everything back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)

// gormTransactionalRepositories builds repositories over the transaction
// in progress
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockItems() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) Workflows() approval.WorkflowRepository {
	return NewGormWorkflowRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseOrders() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) GoodsReceipts() procurement.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) Purchases() procurement.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) SalesOrders() fulfillment.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Challans() fulfillment.DeliveryChallanRepository {
	return NewGormDeliveryChallanRepository(r.tx)
}

func (r *gormTransactionalRepositories) Invoices() fulfillment.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Returns() returns.PurchaseReturnRepository {
	return NewGormPurchaseReturnRepository(r.tx)
}

func (r *gormTransactionalRepositories) Refunds() returns.RefundTransactionRepository {
	return NewGormRefundTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) BankAccounts() partner.BankAccountRepository {
	return NewGormBankAccountRepository(r.tx)
}

func (r *gormTransactionalRepositories) CreditNotes() partner.CreditNoteRepository {
	return NewGormCreditNoteRepository(r.tx)
}

func (r *gormTransactionalRepositories) CashBank() partner.CashBankTransactionRepository {
	return NewGormCashBankTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() partner.PaymentTransactionRepository {
	return NewGormPaymentTransactionRepository(r.tx)
}

var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
