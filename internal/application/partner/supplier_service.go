package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
)

// SupplierService manages the supplier master. Payable balances are not
// edited here; they move through goods receipts, payments and purchase
// returns.
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	creditNoteRepo partner.CreditNoteRepository
	logger         *zap.Logger
}

// NewSupplierService creates a SupplierService
func NewSupplierService(
	supplierRepo partner.SupplierRepository,
	creditNoteRepo partner.CreditNoteRepository,
	logger *zap.Logger,
) *SupplierService {
	return &SupplierService{
		supplierRepo:   supplierRepo,
		creditNoteRepo: creditNoteRepo,
		logger:         logger,
	}
}

// Create registers a supplier. The code must be unique per tenant.
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	if existing, err := s.supplierRepo.FindByCode(ctx, tenantID, req.Code); err == nil && existing != nil {
		return nil, shared.NewStateConflict("supplier code %s is already in use", existing.Code)
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.TaxID = req.TaxID
	supplier.Notes = req.Notes

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("supplier created",
		zap.String("code", supplier.Code),
		zap.String("name", supplier.Name))
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update changes supplier contact details
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.TaxID = req.TaxID
	supplier.Notes = req.Notes

	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Block stops further purchasing from the supplier
func (s *SupplierService) Block(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.Block(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("supplier blocked", zap.String("code", supplier.Code))
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Activate re-activates a blocked or inactive supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.Activate(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID returns a supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns suppliers for a tenant
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SupplierResponse, 0, len(suppliers))
	for idx := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[idx]))
	}
	return responses, nil
}

// ListCreditNotes returns credit notes held against a supplier
func (s *SupplierService) ListCreditNotes(ctx context.Context, tenantID, supplierID uuid.UUID) ([]CreditNoteResponse, error) {
	notes, err := s.creditNoteRepo.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	responses := make([]CreditNoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, ToCreditNoteResponse(note))
	}
	return responses, nil
}
