package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/partner"
)

// CreateSupplierRequest registers a new supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	TaxID       string `json:"tax_id" binding:"max=50"`
	Notes       string `json:"notes"`
}

// UpdateSupplierRequest changes supplier contact details. The code and
// the payable balance are not editable through this path.
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	TaxID       string `json:"tax_id" binding:"max=50"`
	Notes       string `json:"notes"`
}

// SupplierResponse is the API view of a supplier
type SupplierResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	ContactName    string          `json:"contact_name,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	TaxID          string          `json:"tax_id,omitempty"`
	PayableBalance decimal.Decimal `json:"payable_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToSupplierResponse maps a supplier to its API view
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:             s.ID,
		Code:           s.Code,
		Name:           s.Name,
		Status:         string(s.Status),
		ContactName:    s.ContactName,
		Phone:          s.Phone,
		Email:          s.Email,
		TaxID:          s.TaxID,
		PayableBalance: s.PayableBalance,
		CreatedAt:      s.CreatedAt,
	}
}

// CreateCustomerRequest registers a new customer
type CreateCustomerRequest struct {
	Code        string          `json:"code" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=200"`
	Phone       string          `json:"phone" binding:"max=50"`
	Email       string          `json:"email" binding:"omitempty,email,max=200"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Notes       string          `json:"notes"`
}

// UpdateCustomerRequest changes customer details. Dues move only through
// invoicing and payments.
type UpdateCustomerRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Phone       string          `json:"phone" binding:"max=50"`
	Email       string          `json:"email" binding:"omitempty,email,max=200"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Notes       string          `json:"notes"`
}

// CustomerResponse is the API view of a customer
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Status          string          `json:"status"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Dues            decimal.Decimal `json:"dues"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	OverCreditLimit bool            `json:"over_credit_limit"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToCustomerResponse maps a customer to its API view
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Status:          string(c.Status),
		Phone:           c.Phone,
		Email:           c.Email,
		Dues:            c.Dues,
		CreditLimit:     c.CreditLimit,
		OverCreditLimit: c.IsOverCreditLimit(),
		CreatedAt:       c.CreatedAt,
	}
}

// CreateBankAccountRequest registers a company bank account
type CreateBankAccountRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"required,max=50"`
	BankName      string `json:"bank_name" binding:"required,max=100"`
	IFSC          string `json:"ifsc" binding:"max=20"`
}

// BankAccountMoneyRequest deposits into or withdraws from an account
type BankAccountMoneyRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Narration string          `json:"narration" binding:"max=255"`
}

// BankAccountResponse is the API view of a bank account
type BankAccountResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	BankName      string          `json:"bank_name"`
	IFSC          string          `json:"ifsc,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
}

// ToBankAccountResponse maps a bank account to its API view
func ToBankAccountResponse(a *partner.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		AccountNumber: a.AccountNumber,
		BankName:      a.BankName,
		IFSC:          a.IFSC,
		Balance:       a.Balance,
		Active:        a.Active,
	}
}

// CreditNoteResponse is the API view of a supplier credit note
type CreditNoteResponse struct {
	ID         uuid.UUID       `json:"id"`
	NoteNumber string          `json:"note_number"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToCreditNoteResponse maps a credit note to its API view
func ToCreditNoteResponse(n *partner.SupplierCreditNote) CreditNoteResponse {
	return CreditNoteResponse{
		ID:         n.ID,
		NoteNumber: n.NoteNumber,
		SupplierID: n.SupplierID,
		Amount:     n.Amount,
		Balance:    n.Balance,
		Status:     string(n.Status),
		CreatedAt:  n.CreatedAt,
	}
}

// PaymentTransactionResponse is the API view of a customer money event
type PaymentTransactionResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	SourceType string          `json:"source_type"`
	SourceID   uuid.UUID       `json:"source_id"`
	Narration  string          `json:"narration,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPaymentTransactionResponse maps a payment audit row to its API view
func ToPaymentTransactionResponse(tx *partner.PaymentTransaction) PaymentTransactionResponse {
	return PaymentTransactionResponse{
		ID:         tx.ID,
		CustomerID: tx.CustomerID,
		Amount:     tx.Amount,
		Kind:       tx.Kind,
		SourceType: tx.SourceType,
		SourceID:   tx.SourceID,
		Narration:  tx.Narration,
		CreatedAt:  tx.CreatedAt,
	}
}
