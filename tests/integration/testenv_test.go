// Package integration wires real repositories, the transaction scope and
// the in-process event bus against a SQLite database and drives complete
// business flows through the application services.
package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appapproval "github.com/backoffice/backend/internal/application/approval"
	appfulfillment "github.com/backoffice/backend/internal/application/fulfillment"
	appinventory "github.com/backoffice/backend/internal/application/inventory"
	apppartner "github.com/backoffice/backend/internal/application/partner"
	appprocurement "github.com/backoffice/backend/internal/application/procurement"
	appreturns "github.com/backoffice/backend/internal/application/returns"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/infrastructure/event"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
)

// testEnv is the full application wired the same way cmd/server does it,
// minus HTTP
type testEnv struct {
	DB       *persistence.Database
	TenantID uuid.UUID

	Stock     *appinventory.StockService
	Workflows *appapproval.WorkflowService
	Orders    *appprocurement.PurchaseOrderService
	Receipts  *appprocurement.GoodsReceiptService
	Sales     *appfulfillment.SalesOrderService
	Challans  *appfulfillment.ChallanService
	Invoices  *appfulfillment.InvoiceService
	Returns   *appreturns.ReturnService
	Suppliers *apppartner.SupplierService
	Customers *apppartner.CustomerService
	Banks     *apppartner.BankAccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := persistence.NewSQLiteDatabase()
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db.DB))
	t.Cleanup(func() {
		_ = db.Close()
	})

	log := zap.NewNop()

	itemRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	workflowRepo := persistence.NewGormWorkflowRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	grnRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	soRepo := persistence.NewGormSalesOrderRepository(db.DB)
	challanRepo := persistence.NewGormDeliveryChallanRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	returnRepo := persistence.NewGormPurchaseReturnRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	cashBankRepo := persistence.NewGormCashBankTransactionRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentTransactionRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)
	numberGen := persistence.NewGormDocumentNumberGenerator(db.DB)
	bus := event.NewInMemoryEventBus(log)

	env := &testEnv{
		DB:       db,
		TenantID: uuid.New(),
	}
	env.Stock = appinventory.NewStockService(scope, itemRepo, movementRepo, bus, log)
	env.Workflows = appapproval.NewWorkflowService(workflowRepo, approval.DefaultThresholdPolicy(), bus, log)
	env.Orders = appprocurement.NewPurchaseOrderService(scope, poRepo, itemRepo, env.Workflows, numberGen, bus, log)
	env.Receipts = appprocurement.NewGoodsReceiptService(scope, grnRepo, poRepo, numberGen, bus, log)
	env.Sales = appfulfillment.NewSalesOrderService(scope, soRepo, itemRepo, numberGen, bus, log)
	env.Challans = appfulfillment.NewChallanService(scope, challanRepo, soRepo, numberGen, bus, log)
	env.Invoices = appfulfillment.NewInvoiceService(scope, invoiceRepo, challanRepo, numberGen, bus, log)
	env.Returns = appreturns.NewReturnService(scope, returnRepo, purchaseRepo, env.Workflows, numberGen, bus, log)
	env.Suppliers = apppartner.NewSupplierService(supplierRepo, creditNoteRepo, log)
	env.Customers = apppartner.NewCustomerService(customerRepo, paymentRepo, log)
	env.Banks = apppartner.NewBankAccountService(bankAccountRepo, cashBankRepo, log)

	poEvents := appprocurement.NewWorkflowEventHandler(env.Orders, log)
	bus.Subscribe(poEvents, poEvents.EventTypes()...)
	returnEvents := appreturns.NewWorkflowEventHandler(env.Returns, log)
	bus.Subscribe(returnEvents, returnEvents.EventTypes()...)
	require.NoError(t, bus.Start(context.Background()))

	return env
}

// seedItem registers a stock item and books opening stock through an
// adjustment so every unit is covered by a ledger entry
func (env *testEnv) seedItem(t *testing.T, sku string, openingQty int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	item, err := env.Stock.CreateItem(ctx, env.TenantID, appinventory.CreateStockItemRequest{
		SKU:          sku,
		Name:         "Item " + sku,
		Unit:         "pcs",
		SellingPrice: decimal.NewFromInt(150),
		ReorderLevel: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	if openingQty > 0 {
		_, err = env.Stock.AdjustStock(ctx, env.TenantID, item.ID, appinventory.AdjustStockRequest{
			NewQuantity: decimal.NewFromInt(openingQty),
			Reason:      "opening stock",
		}, nil)
		require.NoError(t, err)
	}
	return item.ID
}

func (env *testEnv) seedSupplier(t *testing.T, code string) uuid.UUID {
	t.Helper()
	supplier, err := env.Suppliers.Create(context.Background(), env.TenantID, apppartner.CreateSupplierRequest{
		Code: code,
		Name: "Supplier " + code,
	})
	require.NoError(t, err)
	return supplier.ID
}

func (env *testEnv) seedCustomer(t *testing.T, code string) uuid.UUID {
	t.Helper()
	customer, err := env.Customers.Create(context.Background(), env.TenantID, apppartner.CreateCustomerRequest{
		Code: code,
		Name: "Customer " + code,
	})
	require.NoError(t, err)
	return customer.ID
}
