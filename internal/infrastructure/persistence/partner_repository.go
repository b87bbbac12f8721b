package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/partner"
)

// GormSupplierRepository implements partner.SupplierRepository
type GormSupplierRepository struct {
	gormStore[partner.Supplier]
}

// NewGormSupplierRepository creates a GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{newGormStore[partner.Supplier](
		db, withSortFields("code", "name", "status", "payable_balance")).
		withSearch("code", "name")}
}

// FindByCode looks up a supplier by code
func (r *GormSupplierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	err := r.query(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&supplier).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)

// GormCustomerRepository implements partner.CustomerRepository
type GormCustomerRepository struct {
	gormStore[partner.Customer]
}

// NewGormCustomerRepository creates a GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{newGormStore[partner.Customer](
		db, withSortFields("code", "name", "status", "dues")).
		withSearch("code", "name")}
}

// FindByCode looks up a customer by code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.query(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&customer).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

// GormBankAccountRepository implements partner.BankAccountRepository
type GormBankAccountRepository struct {
	gormStore[partner.BankAccount]
}

// NewGormBankAccountRepository creates a GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{newGormStore[partner.BankAccount](
		db, withSortFields("name", "bank_name", "balance"))}
}

// FindActive lists accounts usable for refunds and payments
func (r *GormBankAccountRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]*partner.BankAccount, error) {
	var accounts []*partner.BankAccount
	err := r.query(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

var _ partner.BankAccountRepository = (*GormBankAccountRepository)(nil)

// GormCreditNoteRepository implements partner.CreditNoteRepository
type GormCreditNoteRepository struct {
	gormStore[partner.SupplierCreditNote]
}

// NewGormCreditNoteRepository creates a GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{newGormStore[partner.SupplierCreditNote](
		db, withSortFields("note_number", "status", "balance"))}
}

// FindBySupplier lists credit notes held against a supplier
func (r *GormCreditNoteRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*partner.SupplierCreditNote, error) {
	var notes []*partner.SupplierCreditNote
	err := r.query(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FindBySource returns the credit note issued by a document
func (r *GormCreditNoteRepository) FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) (*partner.SupplierCreditNote, error) {
	var note partner.SupplierCreditNote
	err := r.query(ctx).
		Where("tenant_id = ? AND source_id = ?", tenantID, sourceID).
		First(&note).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &note, nil
}

var _ partner.CreditNoteRepository = (*GormCreditNoteRepository)(nil)

// GormCashBankTransactionRepository implements the append-only cash and
// bank audit log
type GormCashBankTransactionRepository struct {
	db *gorm.DB
}

// NewGormCashBankTransactionRepository creates a GormCashBankTransactionRepository
func NewGormCashBankTransactionRepository(db *gorm.DB) *GormCashBankTransactionRepository {
	return &GormCashBankTransactionRepository{db: db}
}

// Append inserts an audit row
func (r *GormCashBankTransactionRepository) Append(ctx context.Context, tx *partner.CashBankTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindBySource lists rows caused by a document
func (r *GormCashBankTransactionRepository) FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]*partner.CashBankTransaction, error) {
	var rows []*partner.CashBankTransaction
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_id = ?", tenantID, sourceID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var _ partner.CashBankTransactionRepository = (*GormCashBankTransactionRepository)(nil)

// GormPaymentTransactionRepository implements the append-only customer
// money audit log
type GormPaymentTransactionRepository struct {
	db *gorm.DB
}

// NewGormPaymentTransactionRepository creates a GormPaymentTransactionRepository
func NewGormPaymentTransactionRepository(db *gorm.DB) *GormPaymentTransactionRepository {
	return &GormPaymentTransactionRepository{db: db}
}

// Append inserts an audit row
func (r *GormPaymentTransactionRepository) Append(ctx context.Context, tx *partner.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByCustomer lists rows for a customer, oldest first
func (r *GormPaymentTransactionRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]*partner.PaymentTransaction, error) {
	var rows []*partner.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var _ partner.PaymentTransactionRepository = (*GormPaymentTransactionRepository)(nil)
