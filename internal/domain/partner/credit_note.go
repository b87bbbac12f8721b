package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// CreditNoteStatus represents the state of a supplier credit note
type CreditNoteStatus string

const (
	CreditNoteStatusOpen      CreditNoteStatus = "open"
	CreditNoteStatusExhausted CreditNoteStatus = "exhausted"
	CreditNoteStatusVoided    CreditNoteStatus = "voided"
)

// SupplierCreditNote is credit issued by a supplier in lieu of a cash
// refund. Balance is drawn down as it is applied against future
// purchases.
type SupplierCreditNote struct {
	shared.TenantAggregateRoot
	NoteNumber string           `gorm:"type:varchar(40);not null;index"`
	SupplierID uuid.UUID        `gorm:"type:uuid;not null;index"`
	SourceID   uuid.UUID        `gorm:"type:uuid;index"`
	Amount     decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Balance    decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Status     CreditNoteStatus `gorm:"type:varchar(20);not null;default:'open'"`
	ExpiresAt  *time.Time
}

// TableName returns the table name for GORM
func (SupplierCreditNote) TableName() string {
	return "supplier_credit_notes"
}

// NewSupplierCreditNote issues a credit note with full balance available
func NewSupplierCreditNote(tenantID uuid.UUID, noteNumber string, supplierID, sourceID uuid.UUID, amount decimal.Decimal) (*SupplierCreditNote, error) {
	if noteNumber == "" {
		return nil, shared.NewValidationError("credit note number is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("credit note amount must be positive")
	}
	return &SupplierCreditNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		NoteNumber:          noteNumber,
		SupplierID:          supplierID,
		SourceID:            sourceID,
		Amount:              amount,
		Balance:             amount,
		Status:              CreditNoteStatusOpen,
	}, nil
}

// Apply draws down the credit note balance
func (n *SupplierCreditNote) Apply(amount decimal.Decimal) error {
	if n.Status != CreditNoteStatusOpen {
		return shared.NewStateConflict("credit note %s is %s", n.NoteNumber, n.Status)
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("applied amount must be positive")
	}
	if n.Balance.LessThan(amount) {
		return shared.NewValidationError(
			"credit note %s has balance %s, cannot apply %s",
			n.NoteNumber, n.Balance.String(), amount.String())
	}
	n.Balance = n.Balance.Sub(amount)
	if n.Balance.IsZero() {
		n.Status = CreditNoteStatusExhausted
	}
	n.UpdatedAt = time.Now()
	return nil
}

// Void cancels an open credit note, typically when the return that issued
// it is reversed
func (n *SupplierCreditNote) Void() error {
	if n.Status != CreditNoteStatusOpen {
		return shared.NewStateConflict("credit note %s is %s", n.NoteNumber, n.Status)
	}
	n.Status = CreditNoteStatusVoided
	n.UpdatedAt = time.Now()
	return nil
}
