package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// SupplierRepository persists suppliers
type SupplierRepository interface {
	shared.TenantRepository[Supplier]
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Supplier, error)
	SaveWithLock(ctx context.Context, supplier *Supplier) error
}

// CustomerRepository persists customers
type CustomerRepository interface {
	shared.TenantRepository[Customer]
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Customer, error)
	SaveWithLock(ctx context.Context, customer *Customer) error
}

// BankAccountRepository persists bank accounts
type BankAccountRepository interface {
	shared.TenantRepository[BankAccount]
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]*BankAccount, error)
	SaveWithLock(ctx context.Context, account *BankAccount) error
}

// CreditNoteRepository persists supplier credit notes
type CreditNoteRepository interface {
	shared.TenantRepository[SupplierCreditNote]
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*SupplierCreditNote, error)
	FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) (*SupplierCreditNote, error)
}

// CashBankTransactionRepository appends cash and bank audit rows
type CashBankTransactionRepository interface {
	Append(ctx context.Context, tx *CashBankTransaction) error
	FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]*CashBankTransaction, error)
}

// PaymentTransactionRepository appends customer money audit rows
type PaymentTransactionRepository interface {
	Append(ctx context.Context, tx *PaymentTransaction) error
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]*PaymentTransaction, error)
}
