package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowDirection marks whether money came in or went out
type CashFlowDirection string

const (
	CashFlowIn  CashFlowDirection = "in"
	CashFlowOut CashFlowDirection = "out"
)

// CashBankTransaction is an immutable audit row for cash drawer and bank
// account movements
type CashBankTransaction struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Direction     CashFlowDirection `gorm:"type:varchar(5);not null"`
	Amount        decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	Mode          string            `gorm:"type:varchar(20);not null"`
	BankAccountID *uuid.UUID        `gorm:"type:uuid"`
	SourceType    string            `gorm:"type:varchar(30);not null"`
	SourceID      uuid.UUID         `gorm:"type:uuid;index"`
	Narration     string            `gorm:"type:varchar(255)"`
	CreatedAt     time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashBankTransaction) TableName() string {
	return "cash_bank_transactions"
}

// NewCashBankTransaction records a cash or bank movement
func NewCashBankTransaction(tenantID uuid.UUID, direction CashFlowDirection, amount decimal.Decimal, mode, sourceType string, sourceID uuid.UUID) *CashBankTransaction {
	return &CashBankTransaction{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Direction:  direction,
		Amount:     amount,
		Mode:       mode,
		SourceType: sourceType,
		SourceID:   sourceID,
		CreatedAt:  time.Now(),
	}
}

// PaymentTransaction is an immutable audit row for customer-side money
// events (invoice raised, payment received)
type PaymentTransaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Kind       string          `gorm:"type:varchar(20);not null"`
	SourceType string          `gorm:"type:varchar(30);not null"`
	SourceID   uuid.UUID       `gorm:"type:uuid;index"`
	Narration  string          `gorm:"type:varchar(255)"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// NewPaymentTransaction records a customer money event
func NewPaymentTransaction(tenantID, customerID uuid.UUID, amount decimal.Decimal, kind, sourceType string, sourceID uuid.UUID) *PaymentTransaction {
	return &PaymentTransaction{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CustomerID: customerID,
		Amount:     amount,
		Kind:       kind,
		SourceType: sourceType,
		SourceID:   sourceID,
		CreatedAt:  time.Now(),
	}
}
