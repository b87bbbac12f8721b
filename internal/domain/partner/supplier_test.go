package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/shared"
)

func TestNewSupplier(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active supplier with uppercased code", func(t *testing.T) {
		s, err := NewSupplier(tenantID, "sup-001", "Acme Traders")
		require.NoError(t, err)
		assert.Equal(t, "SUP-001", s.Code)
		assert.Equal(t, SupplierStatusActive, s.Status)
		assert.True(t, s.PayableBalance.IsZero())
	})

	t.Run("rejects missing code", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "", "Acme Traders")
		assert.Error(t, err)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "SUP-001", "")
		assert.Error(t, err)
	})
}

func TestSupplierPayable(t *testing.T) {
	tenantID := uuid.New()

	t.Run("add then reduce", func(t *testing.T) {
		s, _ := NewSupplier(tenantID, "SUP-001", "Acme Traders")
		require.NoError(t, s.AddPayable(decimal.NewFromInt(1000), "goods receipt"))
		require.NoError(t, s.ReducePayable(decimal.NewFromInt(400), "payment"))
		assert.True(t, s.PayableBalance.Equal(decimal.NewFromInt(600)))
	})

	t.Run("reducing below zero is an invariant violation", func(t *testing.T) {
		s, _ := NewSupplier(tenantID, "SUP-001", "Acme Traders")
		require.NoError(t, s.AddPayable(decimal.NewFromInt(100), "goods receipt"))
		err := s.ReducePayable(decimal.NewFromInt(150), "purchase return")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvariantViolation, domainErr.Code)
		assert.True(t, s.PayableBalance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		s, _ := NewSupplier(tenantID, "SUP-001", "Acme Traders")
		assert.Error(t, s.AddPayable(decimal.Zero, "noop"))
		assert.Error(t, s.ReducePayable(decimal.NewFromInt(-5), "noop"))
	})

	t.Run("raises payable changed events", func(t *testing.T) {
		s, _ := NewSupplier(tenantID, "SUP-001", "Acme Traders")
		require.NoError(t, s.AddPayable(decimal.NewFromInt(250), "goods receipt"))

		events := s.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*SupplierPayableChangedEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeSupplierPayableChanged, evt.EventType())
		assert.True(t, evt.OldBalance.IsZero())
		assert.True(t, evt.NewBalance.Equal(decimal.NewFromInt(250)))
		assert.Equal(t, "goods receipt", evt.Reason)
	})
}

func TestSupplierStatusTransitions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("block and reactivate", func(t *testing.T) {
		s, _ := NewSupplier(tenantID, "SUP-001", "Acme Traders")
		require.NoError(t, s.Block())
		assert.Equal(t, SupplierStatusBlocked, s.Status)
		assert.False(t, s.IsActive())

		require.NoError(t, s.Activate())
		assert.True(t, s.IsActive())
	})

	t.Run("double block conflicts", func(t *testing.T) {
		s, _ := NewSupplier(tenantID, "SUP-001", "Acme Traders")
		require.NoError(t, s.Block())
		assert.Error(t, s.Block())
	})
}

func TestCustomerDues(t *testing.T) {
	tenantID := uuid.New()

	t.Run("invoice adds dues, payment reduces them", func(t *testing.T) {
		c, err := NewCustomer(tenantID, "cust-001", "Retail Mart")
		require.NoError(t, err)
		assert.Equal(t, "CUST-001", c.Code)

		require.NoError(t, c.AddDues(decimal.NewFromInt(500), "invoice"))
		require.NoError(t, c.ReduceDues(decimal.NewFromInt(200), "payment"))
		assert.True(t, c.Dues.Equal(decimal.NewFromInt(300)))
	})

	t.Run("reducing below zero is an invariant violation", func(t *testing.T) {
		c, _ := NewCustomer(tenantID, "CUST-001", "Retail Mart")
		err := c.ReduceDues(decimal.NewFromInt(10), "payment")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvariantViolation, domainErr.Code)
	})

	t.Run("credit limit", func(t *testing.T) {
		c, _ := NewCustomer(tenantID, "CUST-001", "Retail Mart")
		assert.False(t, c.IsOverCreditLimit())

		c.CreditLimit = decimal.NewFromInt(100)
		require.NoError(t, c.AddDues(decimal.NewFromInt(150), "invoice"))
		assert.True(t, c.IsOverCreditLimit())
	})
}

func TestBankAccount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("credit and debit", func(t *testing.T) {
		a, err := NewBankAccount(tenantID, "Operating", "1234567890", "State Bank")
		require.NoError(t, err)
		require.NoError(t, a.Credit(decimal.NewFromInt(1000)))
		require.NoError(t, a.Debit(decimal.NewFromInt(300)))
		assert.True(t, a.Balance.Equal(decimal.NewFromInt(700)))
	})

	t.Run("debit on inactive account conflicts", func(t *testing.T) {
		a, _ := NewBankAccount(tenantID, "Operating", "1234567890", "State Bank")
		require.NoError(t, a.Credit(decimal.NewFromInt(1000)))
		a.Deactivate()

		var domainErr *shared.DomainError
		err := a.Debit(decimal.NewFromInt(100))
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeStateConflict, domainErr.Code)
	})
}

func TestSupplierCreditNote(t *testing.T) {
	tenantID := uuid.New()
	supplierID := uuid.New()
	sourceID := uuid.New()

	t.Run("apply draws down and exhausts", func(t *testing.T) {
		n, err := NewSupplierCreditNote(tenantID, "CN-2026-00001", supplierID, sourceID, decimal.NewFromInt(500))
		require.NoError(t, err)
		require.NoError(t, n.Apply(decimal.NewFromInt(200)))
		assert.True(t, n.Balance.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, CreditNoteStatusOpen, n.Status)

		require.NoError(t, n.Apply(decimal.NewFromInt(300)))
		assert.True(t, n.Balance.IsZero())
		assert.Equal(t, CreditNoteStatusExhausted, n.Status)
	})

	t.Run("cannot apply more than balance", func(t *testing.T) {
		n, _ := NewSupplierCreditNote(tenantID, "CN-2026-00002", supplierID, sourceID, decimal.NewFromInt(100))
		assert.Error(t, n.Apply(decimal.NewFromInt(150)))
	})

	t.Run("void blocks further use", func(t *testing.T) {
		n, _ := NewSupplierCreditNote(tenantID, "CN-2026-00003", supplierID, sourceID, decimal.NewFromInt(100))
		require.NoError(t, n.Void())
		assert.Error(t, n.Apply(decimal.NewFromInt(50)))
		assert.Error(t, n.Void())
	})
}
