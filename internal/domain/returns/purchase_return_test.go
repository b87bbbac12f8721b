package returns

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/shared"
)

func createTestReturn(t *testing.T) *PurchaseReturn {
	t.Helper()
	pr, err := NewPurchaseReturn(uuid.New(), "PR-2026-00001", uuid.New(), uuid.New())
	require.NoError(t, err)
	return pr
}

func createApprovedReturn(t *testing.T) *PurchaseReturn {
	t.Helper()
	pr := createTestReturn(t)
	require.NoError(t, pr.AddItem(uuid.New(), "SKU-001",
		decimal.NewFromInt(5), decimal.NewFromInt(100),
		ConditionDamaged, inventory.DispositionScrap, "crushed in transit"))
	require.NoError(t, pr.Submit())
	require.NoError(t, pr.MarkApproved())
	pr.ClearDomainEvents()
	return pr
}

func TestConditionDispositionTable(t *testing.T) {
	cases := []struct {
		condition   ItemCondition
		disposition string
		allowed     bool
	}{
		{ConditionDamaged, inventory.DispositionQuarantine, true},
		{ConditionDamaged, inventory.DispositionScrap, true},
		{ConditionDamaged, inventory.DispositionVendorReturn, true},
		{ConditionDamaged, inventory.DispositionRestock, false},
		{ConditionDefective, inventory.DispositionRepair, true},
		{ConditionDefective, inventory.DispositionRestock, false},
		{ConditionResalable, inventory.DispositionRestock, true},
		{ConditionResalable, inventory.DispositionScrap, false},
		{ConditionScrap, inventory.DispositionScrap, true},
		{ConditionScrap, inventory.DispositionVendorReturn, false},
		{ConditionExpired, inventory.DispositionScrap, true},
		{ConditionExpired, inventory.DispositionRestock, false},
		{ConditionWrongItem, inventory.DispositionVendorReturn, true},
		{ConditionWrongItem, inventory.DispositionRestock, true},
		{ConditionWrongItem, inventory.DispositionQuarantine, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.condition)+"/"+tc.disposition, func(t *testing.T) {
			err := ValidateDisposition(tc.condition, tc.disposition)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	t.Run("unknown condition", func(t *testing.T) {
		assert.Error(t, ValidateDisposition("soggy", inventory.DispositionScrap))
	})
}

func TestValidateReturnQty(t *testing.T) {
	t.Run("within returnable balance", func(t *testing.T) {
		err := ValidateReturnQty("SKU-001",
			decimal.NewFromInt(10), decimal.NewFromInt(4), decimal.NewFromInt(6))
		assert.NoError(t, err)
	})

	t.Run("exceeding balance names the figures", func(t *testing.T) {
		err := ValidateReturnQty("SKU-001",
			decimal.NewFromInt(10), decimal.NewFromInt(4), decimal.NewFromInt(7))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Purchased: 10")
		assert.Contains(t, err.Error(), "Previously returned: 4")
		assert.Contains(t, err.Error(), "Available: 6")
	})
}

func TestPurchaseReturnAddItem(t *testing.T) {
	t.Run("valid pairing accepted and total computed", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.AddItem(uuid.New(), "SKU-001",
			decimal.NewFromInt(5), decimal.NewFromInt(100),
			ConditionResalable, inventory.DispositionRestock, ""))
		assert.True(t, pr.TotalAmount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("incompatible pairing rejected", func(t *testing.T) {
		pr := createTestReturn(t)
		err := pr.AddItem(uuid.New(), "SKU-001",
			decimal.NewFromInt(5), decimal.NewFromInt(100),
			ConditionScrap, inventory.DispositionRestock, "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})
}

func TestPurchaseReturnLifecycle(t *testing.T) {
	t.Run("submit then approve", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.AddItem(uuid.New(), "SKU-001",
			decimal.NewFromInt(5), decimal.NewFromInt(100),
			ConditionDamaged, inventory.DispositionQuarantine, "wet carton"))

		require.NoError(t, pr.Submit())
		assert.Equal(t, ReturnStatusPendingApproval, pr.Status)

		require.NoError(t, pr.MarkApproved())
		assert.Equal(t, ReturnStatusApproved, pr.Status)
	})

	t.Run("cannot submit empty return", func(t *testing.T) {
		pr := createTestReturn(t)
		assert.Error(t, pr.Submit())
	})

	t.Run("rejection is terminal", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.AddItem(uuid.New(), "SKU-001",
			decimal.NewFromInt(5), decimal.NewFromInt(100),
			ConditionExpired, inventory.DispositionScrap, ""))
		require.NoError(t, pr.Submit())
		require.NoError(t, pr.MarkRejected("not our stock"))

		assert.Equal(t, ReturnStatusRejected, pr.Status)
		assert.False(t, pr.Status.CountsAgainstReturnable())
		assert.Error(t, pr.MarkApproved())
	})
}

func TestPurchaseReturnComplete(t *testing.T) {
	t.Run("complete records refund mode and raises event", func(t *testing.T) {
		pr := createApprovedReturn(t)

		require.NoError(t, pr.Complete(RefundModeCreditNote))
		assert.Equal(t, ReturnStatusCompleted, pr.Status)
		assert.Equal(t, RefundModeCreditNote, pr.RefundMode)

		events := pr.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReturnCompleted, events[0].EventType())
	})

	t.Run("invalid refund mode rejected", func(t *testing.T) {
		pr := createApprovedReturn(t)
		assert.Error(t, pr.Complete("crypto"))
	})

	t.Run("only approved returns complete", func(t *testing.T) {
		pr := createTestReturn(t)
		assert.Error(t, pr.Complete(RefundModeCash))
	})
}

func TestPurchaseReturnCancel(t *testing.T) {
	t.Run("cancelling a completed return reports reversal needed", func(t *testing.T) {
		pr := createApprovedReturn(t)
		require.NoError(t, pr.Complete(RefundModeCash))

		wasCompleted, err := pr.Cancel()
		require.NoError(t, err)
		assert.True(t, wasCompleted)
		assert.Equal(t, ReturnStatusCancelled, pr.Status)
		assert.False(t, pr.Status.CountsAgainstReturnable())
	})

	t.Run("cancelling a draft needs no reversal", func(t *testing.T) {
		pr := createTestReturn(t)
		wasCompleted, err := pr.Cancel()
		require.NoError(t, err)
		assert.False(t, wasCompleted)
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		pr := createTestReturn(t)
		_, err := pr.Cancel()
		require.NoError(t, err)
		_, err = pr.Cancel()
		assert.Error(t, err)
	})
}

func TestRefundTransaction(t *testing.T) {
	t.Run("lifecycle pending to completed to reversed", func(t *testing.T) {
		refund, err := NewRefundTransaction(uuid.New(), uuid.New(),
			RefundModeBankTransfer, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.Equal(t, RefundStatusPending, refund.Status)

		require.NoError(t, refund.MarkCompleted("UTR-991"))
		assert.Equal(t, "UTR-991", refund.Reference)

		require.NoError(t, refund.MarkReversed())
		assert.Equal(t, RefundStatusReversed, refund.Status)
	})

	t.Run("pending refund cannot reverse", func(t *testing.T) {
		refund, err := NewRefundTransaction(uuid.New(), uuid.New(),
			RefundModeCash, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Error(t, refund.MarkReversed())
	})

	t.Run("reversal entry negates the amount", func(t *testing.T) {
		refund, err := NewRefundTransaction(uuid.New(), uuid.New(),
			RefundModeCash, decimal.NewFromInt(250))
		require.NoError(t, err)
		require.NoError(t, refund.MarkCompleted(""))

		entry := NewReversalEntry(refund)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(-250)))
		assert.Equal(t, RefundStatusCompleted, entry.Status)
		require.NotNil(t, entry.ReversalOfID)
		assert.Equal(t, refund.ID, *entry.ReversalOfID)
		// original + reversal nets to zero
		assert.True(t, refund.Amount.Add(entry.Amount).IsZero())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewRefundTransaction(uuid.New(), uuid.New(), RefundModeCash, decimal.Zero)
		assert.Error(t, err)
	})
}
