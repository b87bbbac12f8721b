package returns_test

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
	appsvc "github.com/backoffice/backend/internal/application/returns"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
	"github.com/backoffice/backend/internal/domain/shared"
)

type returnFixture struct {
	repos    *apptest.Repos
	pub      *apptest.CapturingPublisher
	wfSvc    *appapproval.WorkflowService
	svc      *appsvc.ReturnService
	supplier *partner.Supplier
	item     *inventory.StockItem
	purchase *procurement.Purchase
}

// newReturnFixture seeds a supplier carrying payable, a stocked item and
// a purchase of 20 units at the given rate
func newReturnFixture(t *testing.T, tenantID uuid.UUID, rate int64) *returnFixture {
	t.Helper()
	ctx := context.Background()
	repos := apptest.NewRepos()
	pub := &apptest.CapturingPublisher{}
	wfSvc := appapproval.NewWorkflowService(
		repos.WorkflowRepo, approval.DefaultThresholdPolicy(), pub, zap.NewNop())
	svc := appsvc.NewReturnService(
		repos.Scope(), repos.ReturnRepo, repos.PurchaseRepo, wfSvc,
		apptest.NewSequenceGenerator(), pub, zap.NewNop())

	supplier, err := partner.NewSupplier(tenantID, "SUP-01", "Acme Traders")
	require.NoError(t, err)
	supplier.PayableBalance = decimal.NewFromInt(1000000)
	require.NoError(t, repos.SupplierRepo.Save(ctx, supplier))

	item, err := inventory.NewStockItem(tenantID, "WID-001", "Widget")
	require.NoError(t, err)
	item.StockQty = decimal.NewFromInt(100)
	require.NoError(t, repos.StockItemRepo.Save(ctx, item))

	qty := decimal.NewFromInt(20)
	purchase := &procurement.Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PurchaseNumber:      "PUR-2026-00001",
		SupplierID:          supplier.ID,
		TotalAmount:         qty.Mul(decimal.NewFromInt(rate)),
		Items: []procurement.PurchaseItem{{
			BaseEntity: shared.NewBaseEntity(),
			ItemID:     item.ID,
			SKU:        item.SKU,
			Quantity:   qty,
			Rate:       decimal.NewFromInt(rate),
			LineTotal:  qty.Mul(decimal.NewFromInt(rate)),
		}},
	}
	require.NoError(t, repos.PurchaseRepo.Save(ctx, purchase))

	return &returnFixture{
		repos: repos, pub: pub, wfSvc: wfSvc, svc: svc,
		supplier: supplier, item: item, purchase: purchase,
	}
}

func TestReturnServiceCreateValidations(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)

	_, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(25),
			Condition:   "damaged",
			Disposition: "quarantine",
		}},
	})
	assert.Error(t, err, "returning more than purchased must fail")

	_, err = f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(5),
			Condition:   "damaged",
			Disposition: "restock",
		}},
	})
	assert.Error(t, err, "damaged goods cannot be restocked")

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(5),
			Condition:   "damaged",
			Disposition: "quarantine",
			Reason:      "crushed cartons",
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.ReturnNumber, "PR-")
	// rate locked from the purchase line
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(250)))
}

func TestReturnServiceReturnableBalanceSpansReturns(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)

	first, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(15),
			Condition:   "resalable",
			Disposition: "vendor_return",
		}},
	})
	require.NoError(t, err)

	// 15 of 20 consumed by the first return, 10 more cannot fit
	_, err = f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(10),
			Condition:   "resalable",
			Disposition: "vendor_return",
		}},
	})
	assert.Error(t, err)

	// cancelling the first return frees the balance again
	require.NoError(t, f.svc.Cancel(ctx, tenantID, first.ID))
	_, err = f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(10),
			Condition:   "resalable",
			Disposition: "vendor_return",
		}},
	})
	assert.NoError(t, err)
}

func TestReturnServiceSubmitAutoApprovesBelowThreshold(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(10),
			Condition:   "damaged",
			Disposition: "quarantine",
		}},
	})
	require.NoError(t, err)

	submitted, err := f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitReturnRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(returns.ReturnStatusApproved), submitted.Status)

	// goods left stock through the quarantine-typed movement
	item, err := f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, f.item.ID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(90)))
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementPurchaseReturnQuarantine), 1)

	supplier, err := f.repos.SupplierRepo.FindByIDForTenant(ctx, tenantID, f.supplier.ID)
	require.NoError(t, err)
	assert.True(t, supplier.PayableBalance.Equal(decimal.NewFromInt(999500)))

	// below the threshold no workflow exists
	_, err = f.wfSvc.GetByEntity(ctx, tenantID, approval.EntityPurchaseReturn, resp.ID)
	assert.Error(t, err)
}

func TestReturnServiceSubmitStartsWorkflowAboveThreshold(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 20000)
	handler := appsvc.NewWorkflowEventHandler(f.svc, zap.NewNop())

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(10),
			Condition:   "defective",
			Disposition: "vendor_return",
		}},
	})
	require.NoError(t, err)

	// 200000 needs two approvers
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitReturnRequest{
		ApproverIDs: []uuid.UUID{uuid.New()},
	})
	assert.Error(t, err)

	approvers := []uuid.UUID{uuid.New(), uuid.New()}
	submitted, err := f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitReturnRequest{
		ApproverIDs: approvers,
	})
	require.NoError(t, err)
	assert.Equal(t, string(returns.ReturnStatusPendingApproval), submitted.Status)

	wf, err := f.wfSvc.GetByEntity(ctx, tenantID, approval.EntityPurchaseReturn, resp.ID)
	require.NoError(t, err)
	require.Len(t, wf.Levels, 2)

	require.NoError(t, handler.Handle(ctx, approval.NewWorkflowApprovedEvent(wf, approvers[1])))

	pr, err := f.repos.ReturnRepo.FindByIDForTenant(ctx, tenantID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, returns.ReturnStatusApproved, pr.Status)
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementPurchaseReturnVendor), 1)
}

func approvedReturn(t *testing.T, ctx context.Context, f *returnFixture, tenantID uuid.UUID, qty int64) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(qty),
			Condition:   "resalable",
			Disposition: "vendor_return",
		}},
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, tenantID, resp.ID, appsvc.SubmitReturnRequest{})
	require.NoError(t, err)
	return resp.ID
}

func TestReturnServiceCompleteCash(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)
	returnID := approvedReturn(t, ctx, f, tenantID, 10)

	refund, err := f.svc.Complete(ctx, tenantID, returnID, appsvc.CompleteReturnRequest{
		Mode: returns.RefundModeCash,
	})
	require.NoError(t, err)
	assert.Equal(t, string(returns.RefundStatusCompleted), refund.Status)

	rows, err := f.repos.CashBankRepo.FindBySource(ctx, tenantID, returnID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, partner.CashFlowOut, rows[0].Direction)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestReturnServiceCompleteBankTransferFailsClosed(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)
	returnID := approvedReturn(t, ctx, f, tenantID, 10)

	_, err := f.svc.Complete(ctx, tenantID, returnID, appsvc.CompleteReturnRequest{
		Mode: returns.RefundModeBankTransfer,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeDependencyUnavailable, domainErr.Code)

	// the failed attempt must leave the return approved and retryable
	stored, err := f.repos.ReturnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	require.NoError(t, err)
	assert.Equal(t, returns.ReturnStatusApproved, stored.Status)

	account, err := partner.NewBankAccount(tenantID, "Main", "000111222", "First Bank")
	require.NoError(t, err)
	require.NoError(t, account.Credit(decimal.NewFromInt(10000)))
	require.NoError(t, f.repos.BankAccountRepo.Save(ctx, account))

	refund, err := f.svc.Complete(ctx, tenantID, returnID, appsvc.CompleteReturnRequest{
		Mode:          returns.RefundModeBankTransfer,
		BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(returns.RefundStatusCompleted), refund.Status)

	account, err = f.repos.BankAccountRepo.FindByIDForTenant(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(9500)))
}

func TestReturnServiceCompleteCreditNote(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)
	returnID := approvedReturn(t, ctx, f, tenantID, 10)

	refund, err := f.svc.Complete(ctx, tenantID, returnID, appsvc.CompleteReturnRequest{
		Mode: returns.RefundModeCreditNote,
	})
	require.NoError(t, err)

	note, err := f.repos.CreditNoteRepo.FindBySource(ctx, tenantID, returnID)
	require.NoError(t, err)
	assert.Contains(t, note.NoteNumber, "CN-")
	assert.True(t, note.Balance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, note.NoteNumber, refund.Reference)
}

func TestReturnServiceCompleteAdjustPayableMovesNoMoney(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)
	returnID := approvedReturn(t, ctx, f, tenantID, 10)

	refund, err := f.svc.Complete(ctx, tenantID, returnID, appsvc.CompleteReturnRequest{
		Mode: returns.RefundModeAdjustPayable,
	})
	require.NoError(t, err)
	assert.Equal(t, string(returns.RefundStatusCompleted), refund.Status)
	assert.Empty(t, f.repos.CashBankRepo.Entries)
}

func TestReturnServiceCancelCompletedReversesEverything(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)
	returnID := approvedReturn(t, ctx, f, tenantID, 10)

	_, err := f.svc.Complete(ctx, tenantID, returnID, appsvc.CompleteReturnRequest{
		Mode: returns.RefundModeCreditNote,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, tenantID, returnID))

	// stock came back
	item, err := f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, f.item.ID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(100)))
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementReturn), 1)

	// payable restored
	supplier, err := f.repos.SupplierRepo.FindByIDForTenant(ctx, tenantID, f.supplier.ID)
	require.NoError(t, err)
	assert.True(t, supplier.PayableBalance.Equal(decimal.NewFromInt(1000000)))

	// refund reversed plus the compensating negated entry
	refunds, err := f.repos.RefundRepo.FindByReturn(ctx, tenantID, returnID)
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	net := decimal.Zero
	var reversed, compensating bool
	for _, r := range refunds {
		net = net.Add(r.Amount)
		if r.Status == returns.RefundStatusReversed {
			reversed = true
		}
		if r.ReversalOfID != nil {
			compensating = true
			assert.True(t, r.Amount.IsNegative())
		}
	}
	assert.True(t, reversed)
	assert.True(t, compensating)
	assert.True(t, net.IsZero(), "refund rows must sum to zero after reversal")

	// the credit note issued by the refund is voided
	note, err := f.repos.CreditNoteRepo.FindBySource(ctx, tenantID, returnID)
	require.NoError(t, err)
	assert.Equal(t, partner.CreditNoteStatusVoided, note.Status)
}

func TestReturnServiceCancelDraftHasNoEffects(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newReturnFixture(t, tenantID, 50)

	resp, err := f.svc.Create(ctx, tenantID, appsvc.CreateReturnRequest{
		PurchaseID: f.purchase.ID,
		Lines: []appsvc.ReturnLineRequest{{
			ItemID:      f.item.ID,
			Quantity:    decimal.NewFromInt(5),
			Condition:   "scrap",
			Disposition: "scrap",
		}},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, tenantID, resp.ID))

	assert.Empty(t, f.repos.MovementRepo.Entries)
	supplier, err := f.repos.SupplierRepo.FindByIDForTenant(ctx, tenantID, f.supplier.ID)
	require.NoError(t, err)
	assert.True(t, supplier.PayableBalance.Equal(decimal.NewFromInt(1000000)))
}
