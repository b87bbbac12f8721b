package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// BankAccount is a company bank account used for bank-transfer refunds
// and supplier payments
type BankAccount struct {
	shared.TenantAggregateRoot
	Name          string          `gorm:"type:varchar(100);not null"`
	AccountNumber string          `gorm:"type:varchar(50);not null"`
	BankName      string          `gorm:"type:varchar(100);not null"`
	IFSC          string          `gorm:"type:varchar(20)"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// NewBankAccount creates an active bank account
func NewBankAccount(tenantID uuid.UUID, name, accountNumber, bankName string) (*BankAccount, error) {
	if name == "" || accountNumber == "" {
		return nil, shared.NewValidationError("account name and number are required")
	}
	return &BankAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		AccountNumber:       accountNumber,
		BankName:            bankName,
		Balance:             decimal.Zero,
		Active:              true,
	}, nil
}

// Credit adds money to the account
func (a *BankAccount) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("credit amount must be positive")
	}
	a.Balance = a.Balance.Add(amount)
	a.touch()
	return nil
}

// Debit removes money from the account
func (a *BankAccount) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("debit amount must be positive")
	}
	if !a.Active {
		return shared.NewStateConflict("bank account %s is inactive", a.Name)
	}
	a.Balance = a.Balance.Sub(amount)
	a.touch()
	return nil
}

// Deactivate takes the account out of use
func (a *BankAccount) Deactivate() {
	a.Active = false
	a.touch()
}

func (a *BankAccount) touch() {
	a.UpdatedAt = time.Now()
}
