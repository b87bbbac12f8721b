package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
)

// CustomerService manages the customer master. Dues move only through
// invoicing and payment recording in the fulfillment pipeline.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	paymentRepo  partner.PaymentTransactionRepository
	logger       *zap.Logger
}

// NewCustomerService creates a CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	paymentRepo partner.PaymentTransactionRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		logger:       logger,
	}
}

// Create registers a customer. The code must be unique per tenant.
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if existing, err := s.customerRepo.FindByCode(ctx, tenantID, req.Code); err == nil && existing != nil {
		return nil, shared.NewStateConflict("customer code %s is already in use", existing.Code)
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.CreditLimit = req.CreditLimit
	customer.Notes = req.Notes

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer created",
		zap.String("code", customer.Code),
		zap.String("name", customer.Name))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update changes customer details
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.CreditLimit = req.CreditLimit
	customer.Notes = req.Notes

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Deactivate takes a customer out of use. Outstanding dues survive.
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer deactivated", zap.String("code", customer.Code))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Activate re-activates an inactive customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Activate(); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID returns a customer
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns customers for a tenant
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CustomerResponse, 0, len(customers))
	for idx := range customers {
		responses = append(responses, ToCustomerResponse(&customers[idx]))
	}
	return responses, nil
}

// ListTransactions returns the money audit trail for a customer
func (s *CustomerService) ListTransactions(ctx context.Context, tenantID, customerID uuid.UUID) ([]PaymentTransactionResponse, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return nil, err
	}
	rows, err := s.paymentRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentTransactionResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, ToPaymentTransactionResponse(row))
	}
	return responses, nil
}
