package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
)

// BankAccountService manages company bank accounts. Every balance change
// leaves an audit row in the cash/bank log.
type BankAccountService struct {
	accountRepo  partner.BankAccountRepository
	cashBankRepo partner.CashBankTransactionRepository
	logger       *zap.Logger
}

// NewBankAccountService creates a BankAccountService
func NewBankAccountService(
	accountRepo partner.BankAccountRepository,
	cashBankRepo partner.CashBankTransactionRepository,
	logger *zap.Logger,
) *BankAccountService {
	return &BankAccountService{
		accountRepo:  accountRepo,
		cashBankRepo: cashBankRepo,
		logger:       logger,
	}
}

// Create registers an active bank account with zero balance
func (s *BankAccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	account, err := partner.NewBankAccount(tenantID, req.Name, req.AccountNumber, req.BankName)
	if err != nil {
		return nil, err
	}
	account.IFSC = req.IFSC

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("bank account created",
		zap.String("name", account.Name),
		zap.String("bank", account.BankName))
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// Deposit credits the account and logs the inflow
func (s *BankAccountService) Deposit(ctx context.Context, tenantID, accountID uuid.UUID, req BankAccountMoneyRequest) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Credit(req.Amount); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	tx := partner.NewCashBankTransaction(
		tenantID, partner.CashFlowIn, req.Amount, "bank_transfer", "manual_deposit", account.ID)
	tx.BankAccountID = &account.ID
	tx.Narration = req.Narration
	if err := s.cashBankRepo.Append(ctx, tx); err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// Withdraw debits the account and logs the outflow
func (s *BankAccountService) Withdraw(ctx context.Context, tenantID, accountID uuid.UUID, req BankAccountMoneyRequest) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Debit(req.Amount); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	tx := partner.NewCashBankTransaction(
		tenantID, partner.CashFlowOut, req.Amount, "bank_transfer", "manual_withdrawal", account.ID)
	tx.BankAccountID = &account.ID
	tx.Narration = req.Narration
	if err := s.cashBankRepo.Append(ctx, tx); err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// Deactivate takes an account out of use. Inactive accounts refuse
// debits, so pending refunds against them fail closed.
func (s *BankAccountService) Deactivate(ctx context.Context, tenantID, accountID uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	account.Deactivate()
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("bank account deactivated", zap.String("name", account.Name))
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// GetByID returns a bank account
func (s *BankAccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// List returns bank accounts for a tenant
func (s *BankAccountService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BankAccountResponse, error) {
	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]BankAccountResponse, 0, len(accounts))
	for idx := range accounts {
		responses = append(responses, ToBankAccountResponse(&accounts[idx]))
	}
	return responses, nil
}

// ListActive returns accounts usable for refunds and payments
func (s *BankAccountService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]BankAccountResponse, error) {
	accounts, err := s.accountRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]BankAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, ToBankAccountResponse(account))
	}
	return responses, nil
}
