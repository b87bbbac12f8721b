package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfulfillment "github.com/backoffice/backend/internal/application/fulfillment"
	appinventory "github.com/backoffice/backend/internal/application/inventory"
	appprocurement "github.com/backoffice/backend/internal/application/procurement"
	appreturns "github.com/backoffice/backend/internal/application/returns"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/returns"
	"github.com/backoffice/backend/internal/domain/shared"
)

// TestProcurementFlow walks a purchase order through two-level approval,
// conversion into a purchase document and goods receipt, checking the
// stock buckets and the supplier payable at each step.
func TestProcurementFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	supplierID := env.seedSupplier(t, "SUP-001")
	itemID := env.seedItem(t, "WID-001", 50)
	approverOne := uuid.New()
	approverTwo := uuid.New()

	// 30 x 5000 = 150000, above the first threshold: two approvers
	po, err := env.Orders.Create(ctx, env.TenantID, appprocurement.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines: []appprocurement.PurchaseOrderLineRequest{
			{ItemID: itemID, Quantity: decimal.NewFromInt(30), Rate: decimal.NewFromInt(5000)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", po.Status)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(150000)))

	_, err = env.Orders.Submit(ctx, env.TenantID, po.ID, appprocurement.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{approverOne, approverTwo},
	})
	require.NoError(t, err)

	wf, err := env.Workflows.GetByEntity(ctx, env.TenantID, approval.EntityPurchaseOrder, po.ID)
	require.NoError(t, err)
	require.Len(t, wf.Levels, 2)

	// first approval advances the chain, nothing is reserved yet
	_, err = env.Workflows.Approve(ctx, env.TenantID, wf.ID, approverOne, "within budget")
	require.NoError(t, err)
	item, err := env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.IsZero())

	// second approval completes the chain and the event handler reserves
	// the ordered quantity
	_, err = env.Workflows.Approve(ctx, env.TenantID, wf.ID, approverTwo, "")
	require.NoError(t, err)

	item, err = env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.Equal(decimal.NewFromInt(30)), "approval must reserve the ordered quantity")
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(50)))

	approved, err := env.Orders.GetByID(ctx, env.TenantID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	// conversion locks the financial document while the order is approved
	purchase, err := env.Orders.ConvertToPurchase(ctx, env.TenantID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, supplierID, purchase.SupplierID)
	require.Len(t, purchase.Items, 1)
	assert.True(t, purchase.Items[0].Quantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, purchase.TotalAmount.Equal(decimal.NewFromInt(150000)))

	// conversion is one-shot
	_, err = env.Orders.ConvertToPurchase(ctx, env.TenantID, po.ID)
	assert.Error(t, err)

	// receive the full order: 30 received, 2 rejected at the gate
	grn, err := env.Receipts.CreateDraft(ctx, env.TenantID, appprocurement.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Lines: []appprocurement.GoodsReceiptLineRequest{
			{ItemID: itemID, ReceivedQty: decimal.NewFromInt(30), RejectedQty: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	inspector := uuid.New()
	_, err = env.Receipts.Finalize(ctx, env.TenantID, grn.ID, &inspector)
	require.NoError(t, err)

	// 28 accepted into stock, the 30-unit hold released in full
	item, err = env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(78)))
	assert.True(t, item.ReservedStock.IsZero())

	received, err := env.Orders.GetByID(ctx, env.TenantID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "fully_received", received.Status)

	supplier, err := env.Suppliers.GetByID(ctx, env.TenantID, supplierID)
	require.NoError(t, err)
	assert.True(t, supplier.PayableBalance.Equal(decimal.NewFromInt(140000)), "payable grows by accepted value")
}

// TestFulfillmentFlow walks a sales order from confirmation through
// delivery challan and invoice, checking that physical stock only drops
// at invoicing.
func TestFulfillmentFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customerID := env.seedCustomer(t, "CUS-001")
	itemID := env.seedItem(t, "WID-002", 40)

	so, err := env.Sales.Create(ctx, env.TenantID, appfulfillment.CreateSalesOrderRequest{
		CustomerID: customerID,
		Lines: []appfulfillment.SalesOrderLineRequest{
			{ItemID: itemID, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)

	_, err = env.Sales.Confirm(ctx, env.TenantID, so.ID)
	require.NoError(t, err)

	item, err := env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(40)), "confirmation must not move physical stock")

	challan, err := env.Challans.Create(ctx, env.TenantID, appfulfillment.CreateChallanRequest{
		SalesOrderID: so.ID,
		Lines: []appfulfillment.ChallanLineRequest{
			{ItemID: itemID, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	item, err = env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.InTransitStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(40)), "dispatch must not decrement stock before invoicing")

	delivered, err := env.Sales.GetByID(ctx, env.TenantID, so.ID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", delivered.Status)

	invoice, err := env.Invoices.ConvertChallan(ctx, env.TenantID, challan.ID)
	require.NoError(t, err)
	assert.Equal(t, "unpaid", invoice.PaymentStatus)
	assert.True(t, invoice.GrandTotal.Equal(decimal.NewFromInt(2000)))

	// the single stock decrement of the chain: all three buckets drain
	item, err = env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(30)))
	assert.True(t, item.ReservedStock.IsZero())
	assert.True(t, item.InTransitStock.IsZero())

	// a second conversion of the same challan must fail
	_, err = env.Invoices.ConvertChallan(ctx, env.TenantID, challan.ID)
	assert.Error(t, err)

	paid, err := env.Invoices.RecordPayment(ctx, env.TenantID, invoice.ID, appfulfillment.RecordPaymentRequest{
		Amount: decimal.NewFromInt(2000),
		Mode:   "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.True(t, paid.Outstanding.IsZero())

	invoiced, err := env.Sales.GetByID(ctx, env.TenantID, so.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoiced", invoiced.Status)
}

// TestPurchaseReturnFlow converts an approved order, receives the goods,
// returns a damaged part of them and settles the refund as a supplier
// credit note.
func TestPurchaseReturnFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	supplierID := env.seedSupplier(t, "SUP-002")
	itemID := env.seedItem(t, "WID-003", 20)
	approver := uuid.New()

	po, err := env.Orders.Create(ctx, env.TenantID, appprocurement.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines: []appprocurement.PurchaseOrderLineRequest{
			{ItemID: itemID, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)
	_, err = env.Orders.Submit(ctx, env.TenantID, po.ID, appprocurement.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{approver},
	})
	require.NoError(t, err)
	wf, err := env.Workflows.GetByEntity(ctx, env.TenantID, approval.EntityPurchaseOrder, po.ID)
	require.NoError(t, err)
	_, err = env.Workflows.Approve(ctx, env.TenantID, wf.ID, approver, "")
	require.NoError(t, err)

	purchase, err := env.Orders.ConvertToPurchase(ctx, env.TenantID, po.ID)
	require.NoError(t, err)

	grn, err := env.Receipts.CreateDraft(ctx, env.TenantID, appprocurement.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Lines: []appprocurement.GoodsReceiptLineRequest{
			{ItemID: itemID, ReceivedQty: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	_, err = env.Receipts.Finalize(ctx, env.TenantID, grn.ID, nil)
	require.NoError(t, err)

	// return 4 damaged units to the vendor: 4000, below the first
	// threshold, so submission auto-approves and the stock leaves
	ret, err := env.Returns.Create(ctx, env.TenantID, appreturns.CreateReturnRequest{
		PurchaseID: purchase.ID,
		Lines: []appreturns.ReturnLineRequest{
			{
				ItemID:      itemID,
				Quantity:    decimal.NewFromInt(4),
				Condition:   string(returns.ConditionDamaged),
				Disposition: "vendor_return",
				Reason:      "crushed cartons",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", ret.Status)

	submitted, err := env.Returns.Submit(ctx, env.TenantID, ret.ID, appreturns.SubmitReturnRequest{})
	require.NoError(t, err)
	assert.Equal(t, "approved", submitted.Status)

	item, err := env.Stock.GetByID(ctx, env.TenantID, itemID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(26)), "20 opening + 10 received - 4 returned")

	supplier, err := env.Suppliers.GetByID(ctx, env.TenantID, supplierID)
	require.NoError(t, err)
	assert.True(t, supplier.PayableBalance.Equal(decimal.NewFromInt(6000)), "payable shrinks by the returned value")

	refund, err := env.Returns.Complete(ctx, env.TenantID, ret.ID, appreturns.CompleteReturnRequest{
		Mode: returns.RefundModeCreditNote,
	})
	require.NoError(t, err)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, "completed", refund.Status)

	notes, err := env.Suppliers.ListCreditNotes(ctx, env.TenantID, supplierID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Balance.Equal(decimal.NewFromInt(4000)))

	// the refund channel is one-shot
	_, err = env.Returns.Complete(ctx, env.TenantID, ret.ID, appreturns.CompleteReturnRequest{
		Mode: returns.RefundModeCash,
	})
	assert.Error(t, err)
}

// TestBankTransferRefundFailsClosed exercises the dependency guard on
// the bank refund channel.
func TestBankTransferRefundFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	supplierID := env.seedSupplier(t, "SUP-003")
	itemID := env.seedItem(t, "WID-004", 20)
	approver := uuid.New()

	po, err := env.Orders.Create(ctx, env.TenantID, appprocurement.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines: []appprocurement.PurchaseOrderLineRequest{
			{ItemID: itemID, Quantity: decimal.NewFromInt(5), Rate: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	_, err = env.Orders.Submit(ctx, env.TenantID, po.ID, appprocurement.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{approver},
	})
	require.NoError(t, err)
	wf, err := env.Workflows.GetByEntity(ctx, env.TenantID, approval.EntityPurchaseOrder, po.ID)
	require.NoError(t, err)
	_, err = env.Workflows.Approve(ctx, env.TenantID, wf.ID, approver, "")
	require.NoError(t, err)

	purchase, err := env.Orders.ConvertToPurchase(ctx, env.TenantID, po.ID)
	require.NoError(t, err)

	grn, err := env.Receipts.CreateDraft(ctx, env.TenantID, appprocurement.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Lines: []appprocurement.GoodsReceiptLineRequest{
			{ItemID: itemID, ReceivedQty: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)
	_, err = env.Receipts.Finalize(ctx, env.TenantID, grn.ID, nil)
	require.NoError(t, err)

	ret, err := env.Returns.Create(ctx, env.TenantID, appreturns.CreateReturnRequest{
		PurchaseID: purchase.ID,
		Lines: []appreturns.ReturnLineRequest{
			{
				ItemID:      itemID,
				Quantity:    decimal.NewFromInt(2),
				Condition:   string(returns.ConditionDefective),
				Disposition: "vendor_return",
			},
		},
	})
	require.NoError(t, err)
	_, err = env.Returns.Submit(ctx, env.TenantID, ret.ID, appreturns.SubmitReturnRequest{})
	require.NoError(t, err)

	// no bank account given: the channel must fail closed
	_, err = env.Returns.Complete(ctx, env.TenantID, ret.ID, appreturns.CompleteReturnRequest{
		Mode: returns.RefundModeBankTransfer,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeDependencyUnavailable, domainErr.Code)

	// the return must still be completable through a working channel
	refund, err := env.Returns.Complete(ctx, env.TenantID, ret.ID, appreturns.CompleteReturnRequest{
		Mode: returns.RefundModeAdjustPayable,
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", refund.Status)
}

// TestTenantIsolation checks that one tenant's documents and stock are
// invisible to another tenant across the service surface.
func TestTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	otherTenant := uuid.New()

	itemID := env.seedItem(t, "WID-005", 10)

	_, err := env.Stock.GetByID(ctx, otherTenant, itemID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = env.Stock.GetBySKU(ctx, otherTenant, "WID-005")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	items, total, err := env.Stock.List(ctx, otherTenant, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)

	// adjusting another tenant's stock must not be possible
	_, err = env.Stock.AdjustStock(ctx, otherTenant, itemID, appinventory.AdjustStockRequest{
		NewQuantity: decimal.NewFromInt(0),
		Reason:      "drain",
	}, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
