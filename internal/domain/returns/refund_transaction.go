package returns

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// RefundMode is the channel money comes back through when a purchase
// return completes
type RefundMode string

const (
	RefundModeCash          RefundMode = "cash"
	RefundModeBankTransfer  RefundMode = "bank_transfer"
	RefundModeCreditNote    RefundMode = "credit_note"
	RefundModeAdjustPayable RefundMode = "adjust_payable"
)

// IsValid checks if the refund mode is valid
func (m RefundMode) IsValid() bool {
	switch m {
	case RefundModeCash, RefundModeBankTransfer, RefundModeCreditNote, RefundModeAdjustPayable:
		return true
	}
	return false
}

// RefundStatus represents the state of a refund transaction
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusReversed  RefundStatus = "reversed"
)

// RefundTransaction records money returned for a purchase return. When a
// completed return is cancelled, the original row is marked reversed and a
// compensating entry with the negated amount is appended, so summing the
// rows always yields the net refunded money.
type RefundTransaction struct {
	shared.TenantAggregateRoot
	PurchaseReturnID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Mode             RefundMode      `gorm:"type:varchar(20);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status           RefundStatus    `gorm:"type:varchar(20);not null;default:'pending'"`
	BankAccountID    *uuid.UUID      `gorm:"type:uuid"`
	CreditNoteID     *uuid.UUID      `gorm:"type:uuid"`
	ReversalOfID     *uuid.UUID      `gorm:"type:uuid"`
	Reference        string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (RefundTransaction) TableName() string {
	return "refund_transactions"
}

// NewRefundTransaction creates a pending refund for a purchase return
func NewRefundTransaction(tenantID, purchaseReturnID uuid.UUID, mode RefundMode, amount decimal.Decimal) (*RefundTransaction, error) {
	if !mode.IsValid() {
		return nil, shared.NewValidationError("invalid refund mode: %s", mode)
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("refund amount must be positive")
	}
	return &RefundTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PurchaseReturnID:    purchaseReturnID,
		Mode:                mode,
		Amount:              amount,
		Status:              RefundStatusPending,
	}, nil
}

// MarkCompleted records that the money actually moved
func (r *RefundTransaction) MarkCompleted(reference string) error {
	if r.Status != RefundStatusPending {
		return shared.NewStateConflict("refund is already %s", r.Status)
	}
	r.Status = RefundStatusCompleted
	r.Reference = reference
	return nil
}

// MarkReversed flags the refund as undone by a return cancellation
func (r *RefundTransaction) MarkReversed() error {
	if r.Status != RefundStatusCompleted {
		return shared.NewStateConflict("only completed refunds can be reversed, current status: %s", r.Status)
	}
	r.Status = RefundStatusReversed
	return nil
}

// NewReversalEntry creates the compensating row for a reversed refund. The
// negated amount keeps money reports additive over the table.
func NewReversalEntry(original *RefundTransaction) *RefundTransaction {
	return &RefundTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(original.TenantID),
		PurchaseReturnID:    original.PurchaseReturnID,
		Mode:                original.Mode,
		Amount:              original.Amount.Neg(),
		Status:              RefundStatusCompleted,
		BankAccountID:       original.BankAccountID,
		CreditNoteID:        original.CreditNoteID,
		ReversalOfID:        &original.ID,
	}
}
