package procurement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appapproval "github.com/backoffice/backend/internal/application/approval"
	"github.com/backoffice/backend/internal/application/apptest"
	appsvc "github.com/backoffice/backend/internal/application/procurement"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
)

type poFixture struct {
	repos *apptest.Repos
	pub   *apptest.CapturingPublisher
	wfSvc *appapproval.WorkflowService
	svc   *appsvc.PurchaseOrderService
}

func newPOFixture() *poFixture {
	repos := apptest.NewRepos()
	pub := &apptest.CapturingPublisher{}
	wfSvc := appapproval.NewWorkflowService(
		repos.WorkflowRepo, approval.DefaultThresholdPolicy(), pub, zap.NewNop())
	svc := appsvc.NewPurchaseOrderService(
		repos.Scope(), repos.PORepo, repos.StockItemRepo, wfSvc,
		apptest.NewSequenceGenerator(), pub, zap.NewNop())
	return &poFixture{repos: repos, pub: pub, wfSvc: wfSvc, svc: svc}
}

func (f *poFixture) seedItem(t *testing.T, tenantID uuid.UUID, sku string, stock int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(tenantID, sku, "Item "+sku)
	require.NoError(t, err)
	item.StockQty = decimal.NewFromInt(stock)
	require.NoError(t, f.repos.StockItemRepo.Save(context.Background(), item))
	return item
}

func TestPurchaseOrderServiceCreate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
			Rate:     decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.OrderNumber, "PO-")
	assert.Equal(t, string(procurement.POStatusDraft), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(500)))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "WID-001", resp.Lines[0].SKU)
}

func TestPurchaseOrderServiceCreateRejectsUnknownItem(t *testing.T) {
	ctx := context.Background()
	f := newPOFixture()

	_, err := f.svc.Create(ctx, uuid.New(), appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   uuid.New(),
			Quantity: decimal.NewFromInt(1),
			Rate:     decimal.NewFromInt(1),
		}},
	})
	assert.Error(t, err)
}

func TestPurchaseOrderServiceSubmitStartsWorkflow(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
			Rate:     decimal.NewFromInt(20000),
		}},
	})
	require.NoError(t, err)

	approvers := []uuid.UUID{uuid.New(), uuid.New()}
	submitted, err := f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitPurchaseOrderRequest{
		ApproverIDs: approvers,
	})
	require.NoError(t, err)
	assert.Equal(t, string(procurement.POStatusPendingApproval), submitted.Status)

	// 200000 total sits above the mid threshold, so two levels are required
	wf, err := f.wfSvc.GetByEntity(ctx, tenantID, approval.EntityPurchaseOrder, resp.ID)
	require.NoError(t, err)
	assert.Len(t, wf.Levels, 2)
}

func TestPurchaseOrderServiceHandleApprovedReservesStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(20),
			Rate:     decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleApproved(ctx, tenantID, resp.ID))

	po, err := f.repos.PORepo.FindByIDForTenant(ctx, tenantID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.POStatusApproved, po.Status)

	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.Equal(decimal.NewFromInt(20)))
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementReserve), 1)
}

func TestPurchaseOrderServiceHandleRejectedReturnsToDraft(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(5),
			Rate:     decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleRejected(ctx, tenantID, resp.ID, "budget exceeded"))

	po, err := f.repos.PORepo.FindByIDForTenant(ctx, tenantID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.POStatusDraft, po.Status)
	assert.Empty(t, f.repos.MovementRepo.Entries, "rejection has no stock effect")
}

func TestPurchaseOrderServiceCancelReleasesReservation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(20),
			Rate:     decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleApproved(ctx, tenantID, resp.ID))

	require.NoError(t, f.svc.Cancel(ctx, tenantID, resp.ID, "supplier out of business"))

	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.IsZero())

	releases := f.repos.MovementRepo.OfType(inventory.MovementRelease)
	require.Len(t, releases, 1)
	assert.Contains(t, releases[0].Notes, "supplier out of business")
}

// convertedPurchase drives a PO through approval, conversion and receipt
// so cancellation tests start from a live purchase document.
func (f *poFixture) convertedPurchase(t *testing.T, tenantID uuid.UUID, item *inventory.StockItem, supplierID uuid.UUID) *procurement.Purchase {
	t.Helper()
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(20),
			Rate:     decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleApproved(ctx, tenantID, resp.ID))

	purchase, err := f.svc.ConvertToPurchase(ctx, tenantID, resp.ID)
	require.NoError(t, err)

	po, err := f.repos.PORepo.FindByIDForTenant(ctx, tenantID, resp.ID)
	require.NoError(t, err)
	require.NoError(t, po.ReceiveLine(item.ID, decimal.NewFromInt(20)))
	require.NoError(t, f.repos.PORepo.Save(ctx, po))

	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	_, err = item.ReceivePurchase(decimal.NewFromInt(20), decimal.NewFromInt(20), decimal.NewFromInt(50), testMovementSource())
	require.NoError(t, err)
	require.NoError(t, f.repos.StockItemRepo.Save(ctx, item))
	return purchase
}

func testMovementSource() inventory.MovementSource {
	return inventory.MovementSource{Type: inventory.SourceGoodsReceipt, ID: uuid.New()}
}

func TestPurchaseOrderServiceCancelPurchaseReversesStockAndPayable(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	supplier, err := partner.NewSupplier(tenantID, "SUP-001", "Acme Metals")
	require.NoError(t, err)
	require.NoError(t, supplier.AddPayable(decimal.NewFromInt(1000), "seed"))
	require.NoError(t, f.repos.SupplierRepo.Save(ctx, supplier))

	purchase := f.convertedPurchase(t, tenantID, item, supplier.ID)

	require.NoError(t, f.svc.CancelPurchase(ctx, tenantID, purchase.ID, "duplicate entry"))

	stored, err := f.repos.PurchaseRepo.FindByIDForTenant(ctx, tenantID, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.PurchaseStatusCancelled, stored.Status)
	assert.Equal(t, "duplicate entry", stored.CancelReason)

	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(100)), "received 20 backed out of 120")

	supplier, err = f.repos.SupplierRepo.FindByIDForTenant(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	assert.True(t, supplier.PayableBalance.IsZero())

	cancels := f.repos.MovementRepo.OfType(inventory.MovementPurchaseCancel)
	require.Len(t, cancels, 1)
	assert.Contains(t, cancels[0].Notes, "duplicate entry")

	// second cancel is a state conflict
	assert.Error(t, f.svc.CancelPurchase(ctx, tenantID, purchase.ID, "again"))
}

func TestPurchaseOrderServiceCancelPurchaseBlockedByLiveReturn(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)

	supplier, err := partner.NewSupplier(tenantID, "SUP-001", "Acme Metals")
	require.NoError(t, err)
	require.NoError(t, f.repos.SupplierRepo.Save(ctx, supplier))

	purchase := f.convertedPurchase(t, tenantID, item, supplier.ID)

	pr, err := returns.NewPurchaseReturn(tenantID, "PR-2026-00001", purchase.ID, supplier.ID)
	require.NoError(t, err)
	require.NoError(t, pr.AddItem(item.ID, item.SKU, decimal.NewFromInt(5), decimal.NewFromInt(50),
		returns.ConditionDamaged, inventory.DispositionScrap, "crushed in storage"))
	require.NoError(t, f.repos.ReturnRepo.Save(ctx, pr))

	err = f.svc.CancelPurchase(ctx, tenantID, purchase.ID, "duplicate entry")
	require.Error(t, err)

	stored, err := f.repos.PurchaseRepo.FindByIDForTenant(ctx, tenantID, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.PurchaseStatusActive, stored.Status)
}

func TestWorkflowEventHandlerDispatchesPurchaseOrderOutcomes(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newPOFixture()
	item := f.seedItem(t, tenantID, "WID-001", 100)
	handler := appsvc.NewWorkflowEventHandler(f.svc, zap.NewNop())

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Lines: []appsvc.PurchaseOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
			Rate:     decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)
	approver := uuid.New()
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitPurchaseOrderRequest{
		ApproverIDs: []uuid.UUID{approver},
	})
	require.NoError(t, err)

	wf, err := f.wfSvc.GetByEntity(ctx, tenantID, approval.EntityPurchaseOrder, resp.ID)
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, approval.NewWorkflowApprovedEvent(wf, approver)))

	po, err := f.repos.PORepo.FindByIDForTenant(ctx, tenantID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.POStatusApproved, po.Status)

	// events for other entity types pass through untouched
	other := *wf
	other.EntityType = approval.EntityPurchaseReturn
	require.NoError(t, handler.Handle(ctx, approval.NewWorkflowApprovedEvent(&other, approver)))
}
