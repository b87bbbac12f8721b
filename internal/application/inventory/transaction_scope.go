package inventory

import (
	"context"

	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
)

// TransactionScope runs a function with repositories bound to a single
// database transaction. Every multi-document operation (goods receipt
// finalization, challan conversion, return reversal) goes through it so
// stock, documents and balances commit or roll back together.
type TransactionScope interface {
	// Execute runs fn inside a transaction. A returned error rolls the
	// transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes every repository bound to the
// transaction in progress. All of them share one underlying connection.
type TransactionalRepositories interface {
	StockItems() inventory.StockItemRepository
	Movements() inventory.StockMovementRepository
	Workflows() approval.WorkflowRepository
	PurchaseOrders() procurement.PurchaseOrderRepository
	GoodsReceipts() procurement.GoodsReceiptRepository
	Purchases() procurement.PurchaseRepository
	SalesOrders() fulfillment.SalesOrderRepository
	Challans() fulfillment.DeliveryChallanRepository
	Invoices() fulfillment.InvoiceRepository
	Returns() returns.PurchaseReturnRepository
	Refunds() returns.RefundTransactionRepository
	Suppliers() partner.SupplierRepository
	Customers() partner.CustomerRepository
	BankAccounts() partner.BankAccountRepository
	CreditNotes() partner.CreditNoteRepository
	CashBank() partner.CashBankTransactionRepository
	Payments() partner.PaymentTransactionRepository
}

// NoOpTransactionScope satisfies TransactionScope without a real
// transaction. Used in tests, where the fake repositories have no
// transactional behavior to share.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs the function against the configured repositories directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
